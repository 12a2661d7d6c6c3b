package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/dormhub/vodhub/pkg/media"
	"github.com/dormhub/vodhub/pkg/vodcache"
)

func (a *ApiManagerCtx) listAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := a.catalog.Assets()
	if err != nil {
		a.logger.Err(err).Msg("unable to build catalog")
		writeError(w, http.StatusInternalServerError, "failed to fetch asset list")
		return
	}

	writeJSON(w, http.StatusOK, assets)
}

func (a *ApiManagerCtx) getPlaylist(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if _, ok := a.catalog.PlaylistPath(name); !ok {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"playlistUrl": fmt.Sprintf("%s/%s/index.m3u8", hlsPrefix, url.PathEscape(name)),
	})
}

func (a *ApiManagerCtx) download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	artifactPath, err := a.cache.GetOrCreate(r.Context(), name)
	if err != nil {
		if errors.Is(err, vodcache.ErrAssetNotReady) {
			writeError(w, http.StatusNotFound, "asset not found or not stream-ready")
			return
		}

		a.logger.Err(err).Str("asset", name).Msg("unable to produce download artifact")

		var convErr *media.ConversionError
		if errors.As(err, &convErr) {
			writeError(w, http.StatusInternalServerError, convErr.Error())
			return
		}

		writeError(w, http.StatusInternalServerError, "failed to prepare download")
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".mp4"))
	http.ServeFile(w, r, artifactPath)
}

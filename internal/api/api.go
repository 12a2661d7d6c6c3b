package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dormhub/vodhub/pkg/catalog"
	"github.com/dormhub/vodhub/pkg/vodcache"
)

// url prefix under which the raw manifest/segment tree is exposed
const hlsPrefix = "/hls"

type ApiManagerCtx struct {
	logger  zerolog.Logger
	catalog *catalog.ManagerCtx
	cache   *vodcache.ManagerCtx

	mediaDir string
}

func New(catalog *catalog.ManagerCtx, cache *vodcache.ManagerCtx, mediaDir string) *ApiManagerCtx {
	return &ApiManagerCtx{
		logger:   log.With().Str("module", "api").Logger(),
		catalog:  catalog,
		cache:    cache,
		mediaDir: mediaDir,
	}
}

func (a *ApiManagerCtx) Mount(r *chi.Mux) {
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		//nolint
		w.Write([]byte("pong"))
	})

	r.Get("/assets", a.listAssets)
	r.Route("/assets/{name}", func(r chi.Router) {
		r.Get("/playlist", a.getPlaylist)
		r.Get("/download", a.download)
	})

	// the player consumes manifests and segments directly from this tree
	fs := http.FileServer(http.Dir(a.mediaDir))
	r.Mount(hlsPrefix, http.StripPrefix(hlsPrefix, fs))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/dormhub/vodhub/pkg/catalog"
	"github.com/dormhub/vodhub/pkg/media"
	"github.com/dormhub/vodhub/pkg/vodcache"
)

type fakeConverter struct {
	calls   int32
	failErr error
}

func (f *fakeConverter) Remux(ctx context.Context, asset string, playlistPath string, outputPath string) error {
	atomic.AddInt32(&f.calls, 1)

	if f.failErr != nil {
		return f.failErr
	}

	return os.WriteFile(outputPath, []byte("mp4:"+asset), 0644)
}

func newTestServer(t *testing.T, converter vodcache.Converter) (*httptest.Server, string) {
	t.Helper()

	mediaDir := t.TempDir()
	cacheDir := t.TempDir()

	assetDir := path.Join(mediaDir, "movie_a")
	require.NoError(t, os.Mkdir(assetDir, 0755))
	require.NoError(t, os.WriteFile(path.Join(assetDir, "index.m3u8"), []byte("#EXTM3U\n"), 0644))
	require.NoError(t, os.WriteFile(path.Join(assetDir, "movie_a-00000.ts"), []byte("seg"), 0644))

	library := catalog.New(&catalog.Config{MediaDir: mediaDir})
	cache := vodcache.New(&vodcache.Config{CacheDir: cacheDir}, library, converter)

	router := chi.NewRouter()
	New(library, cache, mediaDir).Mount(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, mediaDir
}

func getJSON(t *testing.T, url string, v interface{}) int {
	t.Helper()

	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	if v != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(v))
	}
	return res.StatusCode
}

func TestListAssets(t *testing.T) {
	server, _ := newTestServer(t, &fakeConverter{})

	var assets []catalog.Asset
	status := getJSON(t, server.URL+"/assets", &assets)

	require.Equal(t, http.StatusOK, status)
	require.Len(t, assets, 1)
	require.Equal(t, "movie_a", assets[0].Name)
	require.True(t, assets[0].StreamReady)
	require.EqualValues(t, 8+3, assets[0].TotalSizeBytes)
}

func TestGetPlaylist(t *testing.T) {
	server, _ := newTestServer(t, &fakeConverter{})

	var body map[string]string
	status := getJSON(t, server.URL+"/assets/movie_a/playlist", &body)

	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "/hls/movie_a/index.m3u8", body["playlistUrl"])
}

func TestGetPlaylist_NotFound(t *testing.T) {
	server, _ := newTestServer(t, &fakeConverter{})

	var body map[string]string
	status := getJSON(t, server.URL+"/assets/movie_b/playlist", &body)

	require.Equal(t, http.StatusNotFound, status)
	require.NotEmpty(t, body["error"])
}

func TestDownload(t *testing.T) {
	converter := &fakeConverter{}
	server, _ := newTestServer(t, converter)

	res, err := http.Get(server.URL + "/assets/movie_a/download")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "video/mp4", res.Header.Get("Content-Type"))
	require.Equal(t, `attachment; filename="movie_a.mp4"`, res.Header.Get("Content-Disposition"))
	require.EqualValues(t, 1, atomic.LoadInt32(&converter.calls))
}

func TestDownload_UnknownAsset(t *testing.T) {
	server, _ := newTestServer(t, &fakeConverter{})

	var body map[string]string
	status := getJSON(t, server.URL+"/assets/movie_b/download", &body)

	require.Equal(t, http.StatusNotFound, status)
	require.NotEmpty(t, body["error"])
}

func TestDownload_ConversionFailed(t *testing.T) {
	converter := &fakeConverter{
		failErr: &media.ConversionError{
			Asset:  "movie_a",
			Op:     media.OpRemux,
			Err:    os.ErrNotExist,
			Output: "index.m3u8: Invalid data found when processing input",
		},
	}
	server, _ := newTestServer(t, converter)

	var body map[string]string
	status := getJSON(t, server.URL+"/assets/movie_a/download", &body)

	require.Equal(t, http.StatusInternalServerError, status)
	require.Contains(t, body["error"], "movie_a")
	require.Contains(t, body["error"], "Invalid data found", "diagnostic excerpt must reach the client")
}

func TestStaticHlsMount(t *testing.T) {
	server, _ := newTestServer(t, &fakeConverter{})

	res, err := http.Get(server.URL + "/hls/movie_a/index.m3u8")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
}

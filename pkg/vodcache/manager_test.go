package vodcache

import (
	"bytes"
	"context"
	"os"
	"path"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

type fakeLibrary struct {
	ready map[string]string
}

func (f *fakeLibrary) PlaylistPath(name string) (string, bool) {
	p, ok := f.ready[name]
	return p, ok
}

type fakeConverter struct {
	calls   int32
	delay   time.Duration
	failErr error

	mu      sync.Mutex
	outputs []string
}

func (f *fakeConverter) Remux(ctx context.Context, asset string, playlistPath string, outputPath string) error {
	atomic.AddInt32(&f.calls, 1)

	f.mu.Lock()
	f.outputs = append(f.outputs, outputPath)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.failErr != nil {
		return f.failErr
	}

	return os.WriteFile(outputPath, []byte("mp4:"+asset), 0644)
}

func newTestManager(t *testing.T, converter *fakeConverter) (*ManagerCtx, string) {
	t.Helper()

	cacheDir := t.TempDir()
	library := &fakeLibrary{
		ready: map[string]string{
			"movie_a": "/media/movie_a/index.m3u8",
		},
	}

	manager := New(&Config{CacheDir: cacheDir}, library, converter)
	return manager, cacheDir
}

func TestGetOrCreate_Miss(t *testing.T) {
	converter := &fakeConverter{}
	manager, cacheDir := newTestManager(t, converter)

	artifactPath, err := manager.GetOrCreate(context.Background(), "movie_a")
	require.NoError(t, err)
	require.Equal(t, path.Join(cacheDir, "movie_a.mp4"), artifactPath)
	require.EqualValues(t, 1, atomic.LoadInt32(&converter.calls))

	data, err := os.ReadFile(artifactPath)
	require.NoError(t, err)
	require.Equal(t, "mp4:movie_a", string(data))
}

func TestGetOrCreate_ConverterSeesTempPath(t *testing.T) {
	converter := &fakeConverter{}
	manager, cacheDir := newTestManager(t, converter)

	artifactPath, err := manager.GetOrCreate(context.Background(), "movie_a")
	require.NoError(t, err)
	require.Len(t, converter.outputs, 1)

	// the converter writes to a pending temp file in the cache dir, whose name
	// does not end in .mp4, so it must never rely on the output extension
	tempPath := converter.outputs[0]
	require.Equal(t, cacheDir, path.Dir(tempPath))
	require.NotEqual(t, artifactPath, tempPath)
	require.NotEqual(t, ".mp4", path.Ext(tempPath))
}

func TestGetOrCreate_FreshHit(t *testing.T) {
	converter := &fakeConverter{}
	manager, _ := newTestManager(t, converter)

	first, err := manager.GetOrCreate(context.Background(), "movie_a")
	require.NoError(t, err)

	second, err := manager.GetOrCreate(context.Background(), "movie_a")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.EqualValues(t, 1, atomic.LoadInt32(&converter.calls), "fresh artifact must not trigger a conversion")
}

func TestGetOrCreate_StaleRegenerated(t *testing.T) {
	converter := &fakeConverter{}
	manager, _ := newTestManager(t, converter)

	artifactPath, err := manager.GetOrCreate(context.Background(), "movie_a")
	require.NoError(t, err)

	// age the artifact past the freshness threshold
	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(artifactPath, stale, stale))

	_, err = manager.GetOrCreate(context.Background(), "movie_a")
	require.NoError(t, err)
	require.EqualValues(t, 2, atomic.LoadInt32(&converter.calls))

	info, err := os.Stat(artifactPath)
	require.NoError(t, err)
	require.True(t, info.ModTime().After(stale), "artifact mtime must advance on regeneration")
}

func TestGetOrCreate_RegenerationLogging(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	converter := &fakeConverter{}
	manager, _ := newTestManager(t, converter)

	_, err := manager.GetOrCreate(context.Background(), "movie_a")
	require.NoError(t, err)
	require.Contains(t, buf.String(), "artifact regenerated")

	// a fresh hit runs no conversion and must not claim one
	buf.Reset()
	_, err = manager.GetOrCreate(context.Background(), "movie_a")
	require.NoError(t, err)
	require.NotContains(t, buf.String(), "artifact regenerated")
}

func TestGetOrCreate_AssetNotReady(t *testing.T) {
	converter := &fakeConverter{}
	manager, _ := newTestManager(t, converter)

	_, err := manager.GetOrCreate(context.Background(), "movie_b")
	require.ErrorIs(t, err, ErrAssetNotReady)
	require.EqualValues(t, 0, atomic.LoadInt32(&converter.calls))
}

func TestGetOrCreate_ConcurrentDedup(t *testing.T) {
	converter := &fakeConverter{delay: 100 * time.Millisecond}
	manager, cacheDir := newTestManager(t, converter)

	const callers = 5

	var wg sync.WaitGroup
	paths := make([]string, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths[i], errs[i] = manager.GetOrCreate(context.Background(), "movie_a")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, path.Join(cacheDir, "movie_a.mp4"), paths[i])
	}

	require.EqualValues(t, 1, atomic.LoadInt32(&converter.calls), "concurrent requests must share one conversion")
}

func TestGetOrCreate_FailureLeavesNoArtifact(t *testing.T) {
	converter := &fakeConverter{failErr: os.ErrPermission}
	manager, cacheDir := newTestManager(t, converter)

	_, err := manager.GetOrCreate(context.Background(), "movie_a")
	require.Error(t, err)

	_, err = os.Stat(path.Join(cacheDir, "movie_a.mp4"))
	require.ErrorIs(t, err, os.ErrNotExist, "no partial file may exist at the canonical path")
}

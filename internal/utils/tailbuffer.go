package utils

import (
	"strings"
	"sync"
)

// TailBufferCtx keeps only the last Limit bytes written to it, so verbose
// process output cannot grow memory without bound.
type TailBufferCtx struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func TailBuffer(limit int) *TailBufferCtx {
	return &TailBufferCtx{
		limit: limit,
	}
}

func (t *TailBufferCtx) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if len(t.buf) > t.limit {
		t.buf = t.buf[len(t.buf)-t.limit:]
	}
	return len(p), nil
}

func (t *TailBufferCtx) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return strings.TrimSpace(string(t.buf))
}

package shaderwatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jhenstridge/go-inotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	w := &Watcher{targets: map[string]bool{"/srv/shaders/rect.frag": true}}

	assert.True(t, w.relevant(&inotify.Event{Mask: inotify.IN_CLOSE_WRITE, Name: "/srv/shaders/rect.frag"}))
	assert.True(t, w.relevant(&inotify.Event{Mask: inotify.IN_MOVED_TO, Name: "/srv/shaders//rect.frag"}))
	assert.False(t, w.relevant(&inotify.Event{Mask: inotify.IN_OPEN, Name: "/srv/shaders/rect.frag"}))
	assert.False(t, w.relevant(&inotify.Event{Mask: inotify.IN_CLOSE_WRITE, Name: "/srv/shaders/rect.frag~"}))
}

func TestWatcherReportsWrites(t *testing.T) {
	Settle = 0
	dir := t.TempDir()
	vert := filepath.Join(dir, "vertex_shader.glsl")
	frag := filepath.Join(dir, "fragment_shader.glsl")
	require.NoError(t, os.WriteFile(vert, []byte("v1"), 0o644))
	require.NoError(t, os.WriteFile(frag, []byte("f1"), 0o644))

	changes := make(chan struct{}, 16)
	w, err := New(func() { changes <- struct{}{} }, vert, frag)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(frag, []byte("f2"), 0o644))

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(func() {}, filepath.Join(t.TempDir(), "nope", "a.glsl"))
	assert.Error(t, err)
}

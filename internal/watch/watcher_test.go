package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	files []string
}

func (r *recorder) record(_ context.Context, file string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, file)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

func startWatcher(t *testing.T, files ...string) *recorder {
	t.Helper()

	w, err := New(files, 150*time.Millisecond, logrus.New())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	rec := &recorder{}
	go func() {
		defer close(done)
		_ = w.Run(ctx, rec.record)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		w.Close()
	})
	return rec
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "schema.graphql")
	require.NoError(t, os.WriteFile(schema, []byte("type Query { a: Int }"), 0644))

	rec := startWatcher(t, schema)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(schema, []byte("type Query { b: Int }"), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return rec.count() == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "schema.graphql")
	config := filepath.Join(dir, "gqlflux.yaml")

	rec := startWatcher(t, schema, config)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 0, rec.count())

	require.NoError(t, os.WriteFile(config, []byte("schema: schema.graphql\n"), 0644))
	assert.Eventually(t, func() bool { return rec.count() == 1 }, 3*time.Second, 20*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, "gqlflux.yaml", filepath.Base(rec.files[0]))
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing", "schema.graphql")}, 0, nil)
	assert.Error(t, err)
}

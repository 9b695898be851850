package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T, usePTY bool) (*Runner, *bytes.Buffer) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("commands use sh")
	}

	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	var out bytes.Buffer
	return &Runner{Dir: t.TempDir(), Output: &out, PTY: usePTY, Log: log}, &out
}

func TestRunWithPipes(t *testing.T) {
	r, out := newTestRunner(t, false)
	r.Env = []string{"GQLFLUX_TARGET=typescript"}

	err := r.Run(context.Background(), []string{"echo hello", "echo target=$GQLFLUX_TARGET"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "hello")
	assert.Contains(t, out.String(), "target=typescript")
}

func TestRunWithPTY(t *testing.T) {
	r, out := newTestRunner(t, true)

	require.NoError(t, r.Run(context.Background(), []string{"echo formatted"}))
	assert.Contains(t, out.String(), "formatted")
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	for _, usePTY := range []bool{false, true} {
		r, _ := newTestRunner(t, usePTY)
		marker := filepath.Join(r.Dir, "ran")

		err := r.Run(context.Background(), []string{"exit 3", "touch " + marker})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `post-generate command "exit 3" failed`)

		_, statErr := os.Stat(marker)
		assert.True(t, os.IsNotExist(statErr), "second command must not run")
	}
}

func TestRunInDir(t *testing.T) {
	r, _ := newTestRunner(t, false)

	require.NoError(t, r.Run(context.Background(), []string{"touch created"}))
	_, err := os.Stat(filepath.Join(r.Dir, "created"))
	assert.NoError(t, err)
}

//go:build unix

package uploader

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSkipsSpecialFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, syscall.Mkfifo(filepath.Join(dir, "pipe"), 0o644))
	writeFiles(t, dir, map[string]string{"data.csv": "a,b"})
	store := newFakeStore()

	report := New((&opener{store: store}).open).Run(context.Background(), dir)

	require.Len(t, report.Results, 1)
	assert.Equal(t, "data.csv", report.Results[0].Filename)
	assert.Equal(t, []string{"results/data.csv"}, store.keys)
}

func TestRunSymlinkToSpecialFileIsSkipped(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "results")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, syscall.Mkfifo(filepath.Join(tmp, "pipe"), 0o644))
	symlink(t, filepath.Join(tmp, "pipe"), filepath.Join(dir, "pipe-link"))
	op := &opener{store: newFakeStore()}

	report := New(op.open).Run(context.Background(), dir)

	assert.Empty(t, report.Results)
	assert.Equal(t, 0, op.calls)
}

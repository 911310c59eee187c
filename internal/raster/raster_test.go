package raster

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderArgs(t *testing.T) {
	args := renderArgs("guide.pdf", "/tmp/x/page", 7, 150)
	assert.Equal(t, []string{
		"-png", "-f", "7", "-l", "7", "-r", "150", "-singlefile", "guide.pdf", "/tmp/x/page",
	}, args)
}

func TestNewPdftoppm_DefaultBinary(t *testing.T) {
	assert.Equal(t, DefaultBinary, NewPdftoppm("").Binary)
	assert.Equal(t, "/opt/poppler/bin/pdftoppm", NewPdftoppm("/opt/poppler/bin/pdftoppm").Binary)
	assert.Equal(t, DefaultBinary, (&Pdftoppm{}).binary())
}

func TestPageCount_MissingFile(t *testing.T) {
	_, err := NewPdftoppm("").PageCount(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPageCount_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("just text"), 0o644))

	_, err := NewPdftoppm("").PageCount(context.Background(), path)
	assert.Error(t, err)
}

func TestRenderPage_MissingBinary(t *testing.T) {
	r := NewPdftoppm(filepath.Join(t.TempDir(), "no-such-pdftoppm"))
	_, err := r.RenderPage(context.Background(), "guide.pdf", 1, 300)
	assert.Error(t, err)
}

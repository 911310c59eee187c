package textlayer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"pokedata/internal/textlayer"
)

func TestPageTexts_MissingFile(t *testing.T) {
	_, err := textlayer.New().PageTexts(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestPageTexts_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.pdf")
	assert.NoError(t, os.WriteFile(path, []byte("plain text, not a PDF"), 0o644))

	_, err := textlayer.New().PageTexts(context.Background(), path)
	assert.Error(t, err)
}

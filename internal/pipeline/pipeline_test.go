package pipeline_test

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedata/internal/guide"
	"pokedata/internal/ocr"
	"pokedata/internal/pipeline"
)

// fakeRasterizer serves a fixed page count per document and renders each
// page as its page number.
type fakeRasterizer struct {
	pages      map[string]int
	countErr   map[string]error
	renderErrs map[int]error
	rendered   int
}

func (f *fakeRasterizer) PageCount(_ context.Context, path string) (int, error) {
	if err := f.countErr[path]; err != nil {
		return 0, err
	}
	return f.pages[path], nil
}

func (f *fakeRasterizer) RenderPage(_ context.Context, path string, page, dpi int) (ocr.PageImage, error) {
	f.rendered++
	if err := f.renderErrs[page]; err != nil {
		return ocr.PageImage{}, err
	}
	return ocr.PageImage{Page: page, Data: []byte(fmt.Sprintf("%s#%d", path, page)), Format: ocr.FormatPNG, DPI: dpi}, nil
}

// fakeRecognizer returns canned text keyed by the rendered page payload.
type fakeRecognizer struct {
	texts map[string]string
	errs  map[int]error
}

func (f *fakeRecognizer) Recognize(_ context.Context, page ocr.PageImage) (string, error) {
	if err := f.errs[page.Page]; err != nil {
		return "", err
	}
	return f.texts[string(page.Data)], nil
}

func (f *fakeRecognizer) Close() error { return nil }

// writePDF creates a placeholder document file; the fakes never parse it.
func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644))
	return path
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestRun_EndToEndSinglePage(t *testing.T) {
	dir := t.TempDir()
	emerald := writePDF(t, dir, "emerald.pdf")

	raster := &fakeRasterizer{pages: map[string]int{emerald: 1}}
	recognizer := &fakeRecognizer{texts: map[string]string{
		emerald + "#1": "Before Gym Roxanne: Zigzagoon (Lv.3-5, Route 104)",
	}}

	cfg := pipeline.DefaultConfig()
	cfg.Output = filepath.Join(dir, "out", "dataset.csv")
	cfg.Documents = []pipeline.Document{{Path: emerald, GameTitle: "Pokémon Emerald", Region: "Hoenn"}}

	result, err := pipeline.New(pipeline.NewOCRSource(raster, recognizer, 300)).Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 1, result.Processed)
	assert.Empty(t, result.Skipped)

	records := readCSV(t, cfg.Output)
	require.Len(t, records, 2)
	assert.Equal(t, guide.Header, records[0])

	row := records[1]
	assert.Equal(t, "Pokémon Emerald", row[0])
	assert.Equal(t, "Hoenn", row[1])
	assert.Contains(t, row[2], "Before Gym")
	assert.Equal(t, "Zigzagoon (Lv.3-5, Route 104)", row[3])
	assert.Equal(t, "Roxanne", row[4])
	assert.Equal(t, "", row[5])
}

func TestRun_SkipsBadDocumentsAndContinues(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.pdf")
	broken := writePDF(t, dir, "broken.pdf")
	good := writePDF(t, dir, "good.pdf")

	raster := &fakeRasterizer{
		pages:    map[string]int{good: 2},
		countErr: map[string]error{broken: errors.New("xref table corrupt")},
	}
	recognizer := &fakeRecognizer{texts: map[string]string{
		good + "#1": "Gym Battle 1 Roxanne:",
		good + "#2": "Geodude (Lv.12: HP 30, Atk 35, Def 40, Spd 20)",
	}}

	cfg := pipeline.DefaultConfig()
	cfg.Output = filepath.Join(dir, "dataset.csv")
	cfg.Documents = []pipeline.Document{
		{Path: missing, GameTitle: "Pokémon HeartGold & SoulSilver", Region: "Johto"},
		{Path: broken, GameTitle: "Pokémon FireRed/LeafGreen", Region: "Kanto"},
		{Path: good, GameTitle: "Pokémon Emerald", Region: "Hoenn"},
	}

	result, err := pipeline.New(pipeline.NewOCRSource(raster, recognizer, 0)).Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, result.Skipped, 2)
	assert.ErrorIs(t, result.Skipped[0], pipeline.ErrDocumentNotFound)
	assert.Equal(t, missing, result.Skipped[0].Path)
	assert.ErrorIs(t, result.Skipped[1], pipeline.ErrDocumentUnreadable)
	assert.Equal(t, 1, result.Processed)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Gym Battle 1 Roxanne", result.Rows[0].Stage)
	assert.Equal(t, "Geodude (Lv.12: HP 30, Atk 35, Def 40, Spd 20)", result.Rows[0].Team)
	assert.Len(t, readCSV(t, cfg.Output), 2)
}

func TestOCRSource_PageFailuresBecomeEmptyText(t *testing.T) {
	dir := t.TempDir()
	doc := writePDF(t, dir, "guide.pdf")

	raster := &fakeRasterizer{
		pages:      map[string]int{doc: 4},
		renderErrs: map[int]error{2: errors.New("pdftoppm crashed")},
	}
	recognizer := &fakeRecognizer{
		texts: map[string]string{doc + "#1": "one", doc + "#3": "three", doc + "#4": "four"},
		errs:  map[int]error{3: ocr.ErrOCRFailed},
	}

	texts, err := pipeline.NewOCRSource(raster, recognizer, 300).PageTexts(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "", "", "four"}, texts)
	assert.Equal(t, 4, raster.rendered)
}

func TestProcessDocument_NoHeadingsGivesFullTextRow(t *testing.T) {
	dir := t.TempDir()
	doc := writePDF(t, dir, "guide.pdf")

	raster := &fakeRasterizer{pages: map[string]int{doc: 2}}
	recognizer := &fakeRecognizer{texts: map[string]string{doc + "#1": "Route 101", doc + "#2": "Route 102"}}

	rows, err := pipeline.New(pipeline.NewOCRSource(raster, recognizer, 300)).
		ProcessDocument(context.Background(), pipeline.Document{Path: doc, GameTitle: "Pokémon Emerald", Region: "Hoenn"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, guide.FallbackHeading, rows[0].Stage)
	assert.Equal(t, guide.UnknownLeader, rows[0].Leader)
	assert.Equal(t, "Segment starting with 'Full Text'; Route 101 Route 102", rows[0].Notes)
}

func TestRun_OutputFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	doc := writePDF(t, dir, "guide.pdf")
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := pipeline.DefaultConfig()
	cfg.Output = filepath.Join(blocker, "dataset.csv")
	cfg.Documents = []pipeline.Document{{Path: doc, GameTitle: "Pokémon Emerald", Region: "Hoenn"}}

	raster := &fakeRasterizer{pages: map[string]int{doc: 1}}
	_, err := pipeline.New(pipeline.NewOCRSource(raster, &fakeRecognizer{}, 300)).Run(context.Background(), cfg)
	assert.ErrorIs(t, err, pipeline.ErrOutputFailed)
}

func TestWriteOutput_ReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	rows := guide.BuildRows("Pokémon Emerald", "Hoenn", "Before Gym\nZigzagoon (Lv.3-5, Route 104)")
	require.NoError(t, pipeline.WriteOutput(path, rows))

	records := readCSV(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, "Before Gym", records[1][2])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestWriteOutput_FailureLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.csv")
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep.txt"), []byte("x"), 0o644))

	err := pipeline.WriteOutput(path, guide.BuildRows("Pokémon Emerald", "Hoenn", "Before Gym"))
	assert.ErrorIs(t, err, pipeline.ErrOutputFailed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dataset.csv", entries[0].Name())
	assert.FileExists(t, filepath.Join(path, "keep.txt"))
}

func TestRun_Deterministic(t *testing.T) {
	dir := t.TempDir()
	doc := writePDF(t, dir, "guide.pdf")
	raster := &fakeRasterizer{pages: map[string]int{doc: 2}}
	recognizer := &fakeRecognizer{texts: map[string]string{
		doc + "#1": "Before Gym\nZigzagoon (Lv.3-5, Route 104)\nGym Battle 1 Roxanne:",
		doc + "#2": "Geodude (Lv.12: HP 30, Atk 35, Def 40, Spd 20)",
	}}
	p := pipeline.New(pipeline.NewOCRSource(raster, recognizer, 300))

	var outputs []string
	for i := 0; i < 2; i++ {
		cfg := pipeline.DefaultConfig()
		cfg.Output = filepath.Join(dir, fmt.Sprintf("run%d.csv", i))
		cfg.Documents = []pipeline.Document{{Path: doc, GameTitle: "Pokémon Emerald", Region: "Hoenn"}}
		_, err := p.Run(context.Background(), cfg)
		require.NoError(t, err)

		data, err := os.ReadFile(cfg.Output)
		require.NoError(t, err)
		outputs = append(outputs, string(data))
	}
	assert.Equal(t, outputs[0], outputs[1])
}

func TestRun_Canceled(t *testing.T) {
	dir := t.TempDir()
	doc := writePDF(t, dir, "guide.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := pipeline.DefaultConfig()
	cfg.Output = filepath.Join(dir, "dataset.csv")
	cfg.Documents = []pipeline.Document{{Path: doc}}

	raster := &fakeRasterizer{pages: map[string]int{doc: 1}}
	_, err := pipeline.New(pipeline.NewOCRSource(raster, &fakeRecognizer{}, 300)).Run(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, cfg.Output)
}

func TestConfig_Validate(t *testing.T) {
	valid := pipeline.DefaultConfig()
	valid.Documents = []pipeline.Document{{Path: "a.pdf"}}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*pipeline.Config)
		wantErr error
	}{
		{"no documents", func(c *pipeline.Config) { c.Documents = nil }, pipeline.ErrInvalidConfig},
		{"document without path", func(c *pipeline.Config) { c.Documents = []pipeline.Document{{GameTitle: "x"}} }, pipeline.ErrInvalidConfig},
		{"no output", func(c *pipeline.Config) { c.Output = "" }, pipeline.ErrInvalidConfig},
		{"zero dpi", func(c *pipeline.Config) { c.DPI = 0 }, pipeline.ErrInvalidConfig},
		{"unknown engine", func(c *pipeline.Config) { c.Engine = "abbyy" }, ocr.ErrUnknownEngine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			cfg.Documents = append([]pipeline.Document(nil), valid.Documents...)
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

// Package raster renders PDF pages to PNG bitmaps.
//
// Page counting uses pdfcpu; rendering shells out to pdftoppm from
// poppler-utils, one page per call, so a page that fails to render does not
// affect its neighbours.
package raster

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog"

	"pokedata/internal/logger"
	"pokedata/internal/ocr"
)

// DefaultBinary is the pdftoppm executable looked up on PATH.
const DefaultBinary = "pdftoppm"

// Pdftoppm renders pages with the pdftoppm command.
type Pdftoppm struct {
	// Binary is the pdftoppm executable. Empty means DefaultBinary.
	Binary string

	log zerolog.Logger
}

// NewPdftoppm creates a rasterizer using the given binary, or DefaultBinary
// when binary is empty.
func NewPdftoppm(binary string) *Pdftoppm {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Pdftoppm{
		Binary: binary,
		log:    logger.WithComponent("raster"),
	}
}

// PageCount returns the number of pages in the PDF at path.
func (p *Pdftoppm) PageCount(ctx context.Context, path string) (int, error) {
	const op = "PageCount"

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to open PDF: %w", op, err)
	}
	defer f.Close()

	count, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to get page count: %w", op, err)
	}
	return count, nil
}

// RenderPage renders one 1-based page of the PDF at path to PNG.
func (p *Pdftoppm) RenderPage(ctx context.Context, path string, page, dpi int) (ocr.PageImage, error) {
	const op = "RenderPage"

	if dpi <= 0 {
		dpi = ocr.DefaultDPI
	}

	tmpDir, err := os.MkdirTemp("", "pokedata-page-*")
	if err != nil {
		return ocr.PageImage{}, fmt.Errorf("%s: failed to create temp dir: %w", op, err)
	}
	defer os.RemoveAll(tmpDir)

	outputPrefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, p.binary(), renderArgs(path, outputPrefix, page, dpi)...)

	p.log.Debug().
		Str("file", path).
		Int("page", page).
		Int("dpi", dpi).
		Msg("Rendering page")

	output, err := cmd.CombinedOutput()
	if err != nil {
		return ocr.PageImage{}, fmt.Errorf("%s: pdftoppm failed on page %d: %w (output: %s)", op, page, err, string(output))
	}

	// -singlefile makes pdftoppm write <prefix>.png
	data, err := os.ReadFile(outputPrefix + ".png")
	if err != nil {
		return ocr.PageImage{}, fmt.Errorf("%s: pdftoppm did not create expected output: %w", op, err)
	}

	return ocr.PageImage{
		Page:   page,
		Data:   data,
		Format: ocr.FormatPNG,
		DPI:    dpi,
	}, nil
}

func (p *Pdftoppm) binary() string {
	if p.Binary == "" {
		return DefaultBinary
	}
	return p.Binary
}

// renderArgs builds the pdftoppm arguments for a single page.
//
//	-png: output PNG format
//	-f N -l N: first and last page to render
//	-r DPI: resolution
//	-singlefile: no page number suffix on the output file
func renderArgs(pdfPath, outputPrefix string, page, dpi int) []string {
	pageStr := strconv.Itoa(page)
	return []string{
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", strconv.Itoa(dpi),
		"-singlefile",
		pdfPath,
		outputPrefix,
	}
}

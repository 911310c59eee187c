package dex

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"pokedata/pkg/models"
)

var ErrNoSprite = errors.New("no sprite")

// DecodeSprite decodes the embedded sprite of p.
func DecodeSprite(p models.Pokemon) (image.Image, error) {
	if len(p.Sprite) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSprite, p.Name)
	}
	img, err := png.Decode(bytes.NewReader(p.Sprite))
	if err != nil {
		return nil, fmt.Errorf("failed to decode sprite of %s: %w", p.Name, err)
	}
	return img, nil
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling,
// which keeps pixel art sharp. Factors below 2 return img unchanged.
func Scale(img image.Image, factor int) image.Image {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// WriteSprite writes the sprite of p, scaled by factor, as PNG.
func WriteSprite(w io.Writer, p models.Pokemon, factor int) error {
	img, err := DecodeSprite(p)
	if err != nil {
		return err
	}
	if err := png.Encode(w, Scale(img, factor)); err != nil {
		return fmt.Errorf("failed to encode sprite of %s: %w", p.Name, err)
	}
	return nil
}

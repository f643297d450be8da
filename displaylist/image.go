package displaylist

import (
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/retain/geom"
)

// Image is a source of pixels for DrawImage and DrawImageRect. Images are
// compared by identity when display lists are compared.
type Image interface {
	// Size returns the pixel dimensions.
	Size() geom.ISize
	// IsTextureBacked reports whether the pixels live on the GPU.
	IsTextureBacked() bool
	// IsOpaque reports whether every pixel is fully opaque.
	IsOpaque() bool
}

// RasterImage is a CPU-resident image.
type RasterImage struct {
	img    image.Image
	opaque bool
}

// NewRasterImage wraps img.
func NewRasterImage(img image.Image) *RasterImage {
	ri := &RasterImage{img: img}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		ri.opaque = o.Opaque()
	}
	return ri
}

// Image returns the wrapped pixels.
func (r *RasterImage) Image() image.Image { return r.img }

// Size returns the pixel dimensions.
func (r *RasterImage) Size() geom.ISize {
	b := r.img.Bounds()
	return geom.ISize{Width: int32(b.Dx()), Height: int32(b.Dy())}
}

// IsTextureBacked is always false.
func (r *RasterImage) IsTextureBacked() bool { return false }

// IsOpaque reports what the wrapped image says about itself.
func (r *RasterImage) IsOpaque() bool { return r.opaque }

// TextureImage describes a GPU texture owned elsewhere. Display lists only
// carry the description; sinks that cannot read textures draw nothing.
type TextureImage struct {
	Width, Height int32
	Format        gputypes.TextureFormat
	// Handle is an opaque identifier understood by the owning backend.
	Handle uint64
}

// Size returns Width by Height.
func (t *TextureImage) Size() geom.ISize {
	return geom.ISize{Width: t.Width, Height: t.Height}
}

// IsTextureBacked is always true.
func (t *TextureImage) IsTextureBacked() bool { return true }

// IsOpaque reports whether Format has no alpha channel.
func (t *TextureImage) IsOpaque() bool {
	switch t.Format {
	case gputypes.TextureFormatRGB9E5Ufloat, gputypes.TextureFormatRG11B10Ufloat:
		return true
	}
	return false
}

// SrcRectConstraint controls sampling near the edges of a source rect.
type SrcRectConstraint uint8

const (
	// ConstraintStrict never samples outside the source rect.
	ConstraintStrict SrcRectConstraint = iota
	// ConstraintFast may sample outside for speed.
	ConstraintFast
)

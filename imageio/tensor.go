// Package imageio loads image files into normalized pixel tensors for
// IMAGE sockets.
//
// Tensors are laid out batch, height, width, channel with three RGB
// channels in [0, 1]. Anything that cannot be loaded is replaced by a
// 64x64 black placeholder; no loading error reaches the caller of the
// lenient entry points.
package imageio

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// PlaceholderSize is the edge length of the blank substitute image.
const PlaceholderSize = 64

// Channels is the channel count of every tensor (RGB).
const Channels = 3

// Tensor is a batch of RGB images stored as float32 in BHWC order.
type Tensor struct {
	Batch  int
	Height int
	Width  int
	Data   []float32
}

// NewTensor allocates a zeroed tensor.
func NewTensor(batch, height, width int) *Tensor {
	return &Tensor{
		Batch:  batch,
		Height: height,
		Width:  width,
		Data:   make([]float32, batch*height*width*Channels),
	}
}

// Placeholder returns a fresh 1x64x64x3 all-zero tensor.
func Placeholder() *Tensor {
	return NewTensor(1, PlaceholderSize, PlaceholderSize)
}

// Shape returns the tensor dimensions.
func (t *Tensor) Shape() [4]int {
	return [4]int{t.Batch, t.Height, t.Width, Channels}
}

func (t *Tensor) frameLen() int {
	return t.Height * t.Width * Channels
}

// At returns one channel value.
func (t *Tensor) At(b, y, x, c int) float32 {
	return t.Data[((b*t.Height+y)*t.Width+x)*Channels+c]
}

// IsZero reports whether every value is zero.
func (t *Tensor) IsZero() bool {
	for _, v := range t.Data {
		if v != 0 {
			return false
		}
	}
	return true
}

// SameSize reports whether o has the same spatial dimensions.
func (t *Tensor) SameSize(o *Tensor) bool {
	return t.Height == o.Height && t.Width == o.Width
}

// FromImage converts img to a single-frame tensor. Alpha is discarded.
func FromImage(img image.Image) *Tensor {
	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	t := NewTensor(1, h, w)

	i := 0
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+4]
			t.Data[i] = float32(px[0]) / 255.0
			t.Data[i+1] = float32(px[1]) / 255.0
			t.Data[i+2] = float32(px[2]) / 255.0
			i += Channels
		}
	}
	return t
}

// Frame renders frame b back into an opaque image.
func (t *Tensor) Frame(b int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	base := b * t.frameLen()
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			i := base + (y*t.Width+x)*Channels
			img.SetNRGBA(x, y, color.NRGBA{
				R: toByte(t.Data[i]),
				G: toByte(t.Data[i+1]),
				B: toByte(t.Data[i+2]),
				A: 255,
			})
		}
	}
	return img
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// Concat stacks tensors of identical spatial size along the batch axis.
func Concat(ts ...*Tensor) (*Tensor, error) {
	if len(ts) == 0 {
		return nil, fmt.Errorf("imageio: nothing to concatenate")
	}
	first := ts[0]
	batch := 0
	for i, t := range ts {
		if !t.SameSize(first) {
			return nil, fmt.Errorf("imageio: tensor %d is %dx%d, want %dx%d", i, t.Width, t.Height, first.Width, first.Height)
		}
		batch += t.Batch
	}

	out := &Tensor{
		Batch:  batch,
		Height: first.Height,
		Width:  first.Width,
		Data:   make([]float32, 0, batch*first.frameLen()),
	}
	for _, t := range ts {
		out.Data = append(out.Data, t.Data...)
	}
	return out, nil
}

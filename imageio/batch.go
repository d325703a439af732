package imageio

import "github.com/disintegration/imaging"

// BatchFilter is the resampling filter used when batch members differ in size.
var BatchFilter = imaging.Linear

// Resize scales every frame of t to width x height, center anchored: the
// frame is scaled to cover the target and the overflow is cropped evenly.
func Resize(t *Tensor, width, height int) *Tensor {
	if t.Width == width && t.Height == height {
		return t
	}
	frames := make([]*Tensor, t.Batch)
	for b := 0; b < t.Batch; b++ {
		frames[b] = FromImage(imaging.Fill(t.Frame(b), width, height, imaging.Center, BatchFilter))
	}
	out, _ := Concat(frames...)
	return out
}

// Batch concatenates ts into one tensor. Members whose size differs from
// the first are resized to the first's size.
func Batch(ts []*Tensor) *Tensor {
	if len(ts) == 0 {
		return Placeholder()
	}
	first := ts[0]
	fitted := make([]*Tensor, len(ts))
	for i, t := range ts {
		fitted[i] = Resize(t, first.Width, first.Height)
	}
	// Every member now matches the first, so Concat cannot fail.
	out, _ := Concat(fitted...)
	return out
}

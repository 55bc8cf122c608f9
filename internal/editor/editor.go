// Package editor implements the raster edit pipeline: a fixed set of pure
// transforms plus a linear undo/redo history of snapshots.
//
// Every transform returns a new image; inputs are never mutated. A transform
// that cannot be applied returns the input unchanged together with a non-nil
// error describing why. Callers log the reason and keep going; a bad edit
// never aborts the host flow.
package editor

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

var (
	// ErrEmptyCrop is returned when the crop box is degenerate after clamping.
	ErrEmptyCrop = errors.New("crop box is empty after clamping")

	// ErrBadSize is returned when a resize target dimension is not positive.
	ErrBadSize = errors.New("target dimensions must be positive")
)

// Box is a crop rectangle in pixel coordinates, left/top inclusive,
// right/bottom exclusive.
type Box struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Crop cuts the box out of img. Out-of-range edges are clamped to the image
// bounds; if the clamped box is empty the input is returned unchanged with
// ErrEmptyCrop.
func Crop(img image.Image, box Box) (image.Image, error) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	left := clamp(box.Left, 0, w)
	top := clamp(box.Top, 0, h)
	right := clamp(box.Right, 0, w)
	bottom := clamp(box.Bottom, 0, h)

	if left >= right || top >= bottom {
		return img, fmt.Errorf("%w: (%d,%d)-(%d,%d) in %dx%d", ErrEmptyCrop,
			box.Left, box.Top, box.Right, box.Bottom, w, h)
	}

	return imaging.Crop(img, image.Rect(left, top, right, bottom)), nil
}

// Rotate turns img counter-clockwise by angle degrees. The angle is
// normalized modulo 360; exact multiples of 90 rotate losslessly without
// resampling. Any other angle is resampled: with expand the canvas grows to
// contain the whole rotated image, without it the result is cropped back to
// the original canvas size.
func Rotate(img image.Image, angle float64, expand bool) (image.Image, error) {
	norm := math.Mod(angle, 360)
	if norm < 0 {
		norm += 360
	}

	switch norm {
	case 0:
		return imaging.Clone(img), nil
	case 90:
		return imaging.Rotate90(img), nil
	case 180:
		return imaging.Rotate180(img), nil
	case 270:
		return imaging.Rotate270(img), nil
	}

	rotated := imaging.Rotate(img, norm, color.NRGBA{})
	if !expand {
		rotated = imaging.CropCenter(rotated, img.Bounds().Dx(), img.Bounds().Dy())
	}
	return rotated, nil
}

// FlipHorizontal mirrors img left to right.
func FlipHorizontal(img image.Image) (image.Image, error) {
	return imaging.FlipH(img), nil
}

// FlipVertical mirrors img top to bottom.
func FlipVertical(img image.Image) (image.Image, error) {
	return imaging.FlipV(img), nil
}

// Resize scales img to exactly width x height using Lanczos resampling.
// Aspect ratio is not preserved unless the caller picks a preserving target.
func Resize(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return img, fmt.Errorf("%w: %dx%d", ErrBadSize, width, height)
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}

// AdjustBrightness scales sample intensity linearly. A factor of 1.0 leaves
// the image unchanged, 0.0 is black, 2.0 doubles intensity. Factors outside
// [0, 2] are accepted; samples clip at pure black or white.
func AdjustBrightness(img image.Image, factor float64) (image.Image, error) {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: scaleSample(c.R, factor),
			G: scaleSample(c.G, factor),
			B: scaleSample(c.B, factor),
			A: c.A,
		}
	}), nil
}

func scaleSample(v uint8, factor float64) uint8 {
	scaled := float64(v) * factor
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled + 0.5)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

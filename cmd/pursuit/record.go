package main

import (
	"errors"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
)

const (
	maxRecordedFrames = 300
	recordScale       = 2 // each recorded pixel covers recordScale² canvas pixels
	frameDelay        = 2 // 100ths of a second
)

// ErrEmptyRecording is returned when a recording without frames is encoded.
var ErrEmptyRecording = errors.New("no frames recorded")

// recorder collects downscaled canvas frames for an animated GIF.
type recorder struct {
	frames []*image.Paletted
}

func newRecorder() *recorder {
	return &recorder{frames: make([]*image.Paletted, 0, maxRecordedFrames)}
}

// Add quantizes img into the next frame. It reports false once the
// recording is full.
func (r *recorder) Add(img *image.RGBA) bool {
	if len(r.frames) >= maxRecordedFrames {
		return false
	}
	r.frames = append(r.frames, quantize(img, recordScale))
	return true
}

// Len returns the number of frames recorded.
func (r *recorder) Len() int { return len(r.frames) }

// Encode writes the frames as a looping GIF.
func (r *recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrEmptyRecording
	}
	anim := &gif.GIF{
		Image: r.frames,
		Delay: make([]int, len(r.frames)),
	}
	for i := range anim.Delay {
		anim.Delay[i] = frameDelay
	}
	return gif.EncodeAll(w, anim)
}

// quantize samples every scale-th pixel of img and maps it to the nearest
// web-safe colour.
func quantize(img *image.RGBA, scale int) *image.Paletted {
	b := img.Bounds()
	out := image.NewPaletted(image.Rect(0, 0, b.Dx()/scale, b.Dy()/scale), palette.WebSafe)
	for y := 0; y < out.Rect.Dy(); y++ {
		for x := 0; x < out.Rect.Dx(); x++ {
			i := img.PixOffset(b.Min.X+x*scale, b.Min.Y+y*scale)
			r, g, bl := webSafeLevel(img.Pix[i]), webSafeLevel(img.Pix[i+1]), webSafeLevel(img.Pix[i+2])
			out.Pix[y*out.Stride+x] = uint8(36*r + 6*g + bl)
		}
	}
	return out
}

// webSafeLevel rounds a channel to one of the six web-safe steps.
func webSafeLevel(v uint8) int {
	return (int(v) + 25) / 51
}

// encodePNG writes img as a PNG screenshot.
func encodePNG(w io.Writer, img *image.RGBA) error {
	return png.Encode(w, img)
}

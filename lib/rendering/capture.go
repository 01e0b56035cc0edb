package rendering

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// ErrEmptyFramebuffer is returned for a zero sized framebuffer, which is
// what a minimised window has.
var ErrEmptyFramebuffer = errors.New("framebuffer is empty")

// ReadFramebuffer copies the back buffer into an image. Call it after
// drawing and before swapping.
func ReadFramebuffer(width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w (%dx%d)", ErrEmptyFramebuffer, width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	flipRows(img)
	return img, nil
}

// GL puts the origin at the bottom left, images at the top left.
func flipRows(img *image.NRGBA) {
	h := img.Rect.Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

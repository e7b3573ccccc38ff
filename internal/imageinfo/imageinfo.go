// Package imageinfo sniffs the format and pixel size of downloaded images.
package imageinfo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrNotImage = errors.New("data is not a recognized image")

type Info struct {
	Format string // file extension, e.g. "jpg"
	MIME   string
	Width  int
	Height int
}

func (i Info) String() string {
	if i.Width == 0 || i.Height == 0 {
		return i.Format
	}
	return fmt.Sprintf("%s %dx%d", i.Format, i.Width, i.Height)
}

// Detect identifies data by its magic bytes. Dimensions are filled in when
// a decoder for the format is registered, and left zero otherwise.
func Detect(data []byte) (Info, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || !filetype.IsImage(data) {
		return Info{}, ErrNotImage
	}
	info := Info{Format: kind.Extension, MIME: kind.MIME.Value}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		info.Width = cfg.Width
		info.Height = cfg.Height
	}
	return info, nil
}

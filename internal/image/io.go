package image

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // registers the WebP decoder
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when a file format is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")
)

// Codec identifies an encoded file format.
type Codec string

// Supported codecs. WebP is decode-only.
const (
	CodecPNG  Codec = "png"
	CodecJPEG Codec = "jpeg"
	CodecGIF  Codec = "gif"
	CodecBMP  Codec = "bmp"
	CodecTIFF Codec = "tiff"
	CodecWebP Codec = "webp"
)

// CanEncode reports whether the codec has an encoder.
func (c Codec) CanEncode() bool {
	switch c {
	case CodecPNG, CodecJPEG, CodecGIF, CodecBMP, CodecTIFF:
		return true
	default:
		return false
	}
}

// CodecFromPath returns the codec for the file extension of path.
func CodecFromPath(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return CodecPNG, nil
	case ".jpg", ".jpeg":
		return CodecJPEG, nil
	case ".gif":
		return CodecGIF, nil
	case ".bmp":
		return CodecBMP, nil
	case ".tif", ".tiff":
		return CodecTIFF, nil
	case ".webp":
		return CodecWebP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// EncodeOptions tunes encoders. The zero value is valid.
type EncodeOptions struct {
	// Quality is the JPEG quality in 1-100. Zero selects 90.
	Quality int
}

// Load decodes the image file at path into an RGBA8 buffer.
// The format is detected from content, not from the extension.
func Load(path string) (*ImageBuf, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// Decode decodes an image from r, auto-detecting the format among
// PNG, JPEG, GIF, BMP, TIFF and WebP.
func Decode(r io.Reader) (*ImageBuf, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	buf := FromStdImage(img)
	if buf == nil {
		return nil, fmt.Errorf("image: decode %v image: %w", img.Bounds().Size(), ErrInvalidDimensions)
	}
	return buf, nil
}

// Save encodes the buffer to path using the codec implied by its extension.
func (b *ImageBuf) Save(path string, opts EncodeOptions) error {
	codec, err := CodecFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := b.Encode(f, codec, opts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Encode writes the buffer to w in the given codec.
func (b *ImageBuf) Encode(w io.Writer, codec Codec, opts EncodeOptions) error {
	img := b.ToStdImage()

	var err error
	switch codec {
	case CodecPNG:
		err = png.Encode(w, img)
	case CodecJPEG:
		q := opts.Quality
		if q == 0 {
			q = 90
		}
		q = min(max(q, 1), 100)
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case CodecGIF:
		err = gif.Encode(w, img, nil)
	case CodecBMP:
		err = bmp.Encode(w, img)
	case CodecTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("%w: no encoder for %q", ErrUnsupportedFormat, codec)
	}
	if err != nil {
		return fmt.Errorf("image: encode %s: %w", codec, err)
	}
	return nil
}

// FromStdImage copies a standard library image into a new RGBA8 buffer.
// Premultiplied sources are converted to straight alpha. It returns nil for
// an empty image or one too large to allocate.
func FromStdImage(img image.Image) *ImageBuf {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	buf, err := NewImageBuf(width, height, FormatRGBA8)
	if err != nil {
		return nil
	}

	switch src := img.(type) {
	case *image.NRGBA:
		for y := range height {
			start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.RowBytes(y), src.Pix[start:start+width*4])
		}
		return buf

	case *image.RGBA:
		for y := range height {
			start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := buf.RowBytes(y)
			copy(row, src.Pix[start:start+width*4])
			unpremultiplyRow(row)
		}
		return buf
	}

	for y := range height {
		row := buf.RowBytes(y)
		for x := range width {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = c.R, c.G, c.B, c.A
		}
	}
	return buf
}

// unpremultiplyRow converts premultiplied RGBA pixels in place.
// Opaque and fully transparent pixels are left untouched.
func unpremultiplyRow(row []byte) {
	for i := 0; i+3 < len(row); i += 4 {
		a := uint32(row[i+3])
		if a == 0 || a == 255 {
			continue
		}
		row[i] = byte(uint32(row[i]) * 255 / a)
		row[i+1] = byte(uint32(row[i+1]) * 255 / a)
		row[i+2] = byte(uint32(row[i+2]) * 255 / a)
	}
}

// ToStdImage copies the buffer into a standard library image suitable for
// the encoders. Gray formats map to *image.Gray/*image.Gray16, premultiplied
// formats to *image.RGBA and everything else to *image.NRGBA.
func (b *ImageBuf) ToStdImage() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)

	switch b.format {
	case FormatGray8:
		gray := image.NewGray(rect)
		for y := range b.height {
			copy(gray.Pix[y*gray.Stride:], b.RowBytes(y))
		}
		return gray

	case FormatGray16:
		gray16 := image.NewGray16(rect)
		for y := range b.height {
			copy(gray16.Pix[y*gray16.Stride:], b.RowBytes(y))
		}
		return gray16

	case FormatRGBA8:
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			copy(nrgba.Pix[y*nrgba.Stride:], b.RowBytes(y))
		}
		return nrgba

	case FormatRGBAPremul:
		rgba := image.NewRGBA(rect)
		for y := range b.height {
			copy(rgba.Pix[y*rgba.Stride:], b.RowBytes(y))
		}
		return rgba

	case FormatBGRA8, FormatBGRAPremul:
		var pix []byte
		var stride int
		var out image.Image
		if b.format == FormatBGRAPremul {
			rgba := image.NewRGBA(rect)
			pix, stride, out = rgba.Pix, rgba.Stride, rgba
		} else {
			nrgba := image.NewNRGBA(rect)
			pix, stride, out = nrgba.Pix, nrgba.Stride, nrgba
		}
		for y := range b.height {
			row := b.RowBytes(y)
			dst := pix[y*stride:]
			for x := range b.width {
				o := x * 4
				dst[o], dst[o+1], dst[o+2], dst[o+3] = row[o+2], row[o+1], row[o], row[o+3]
			}
		}
		return out

	default:
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			dst := nrgba.Pix[y*nrgba.Stride:]
			for x := range b.width {
				r, g, bl, a := b.GetRGBA(x, y)
				dst[x*4], dst[x*4+1], dst[x*4+2], dst[x*4+3] = r, g, bl, a
			}
		}
		return nrgba
	}
}

package image

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestNewImageBuf(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		format  Format
		wantErr error
	}{
		{"valid RGBA8", 100, 100, FormatRGBA8, nil},
		{"valid Gray8", 50, 50, FormatGray8, nil},
		{"valid RGB8", 7, 3, FormatRGB8, nil},
		{"1x1 minimum", 1, 1, FormatRGBA8, nil},
		{"zero width", 0, 100, FormatRGBA8, ErrInvalidDimensions},
		{"zero height", 100, 0, FormatRGBA8, ErrInvalidDimensions},
		{"negative width", -1, 100, FormatRGBA8, ErrInvalidDimensions},
		{"negative height", 100, -1, FormatRGBA8, ErrInvalidDimensions},
		{"invalid format", 100, 100, Format(255), ErrInvalidFormat},
		{"row bytes overflow", math.MaxInt / 2, 1, FormatRGBA8, ErrInvalidDimensions},
		{"area overflow", math.MaxInt / 2, 3, FormatGray8, ErrInvalidDimensions},
		{"beyond allocation limit", maxBufferBytes/4 + 1, 1, FormatRGBA8, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewImageBuf(tt.width, tt.height, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewImageBuf() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}
			if buf.Width() != tt.width {
				t.Errorf("Width() = %d, want %d", buf.Width(), tt.width)
			}
			if buf.Height() != tt.height {
				t.Errorf("Height() = %d, want %d", buf.Height(), tt.height)
			}
			if buf.Format() != tt.format {
				t.Errorf("Format() = %v, want %v", buf.Format(), tt.format)
			}
			expectedStride := tt.format.RowBytes(tt.width)
			if buf.Stride() != expectedStride {
				t.Errorf("Stride() = %d, want %d", buf.Stride(), expectedStride)
			}
			if len(buf.Data()) != expectedStride*tt.height {
				t.Errorf("len(Data()) = %d, want %d", len(buf.Data()), expectedStride*tt.height)
			}
			if !buf.IsContiguous() {
				t.Error("IsContiguous() = false, want true")
			}
			for _, b := range buf.Data() {
				if b != 0 {
					t.Fatal("new buffer is not zeroed")
				}
			}
		})
	}
}

func TestBufferSize(t *testing.T) {
	if got, err := BufferSize(7, 3, 3); err != nil || got != 63 {
		t.Errorf("BufferSize(7, 3, 3) = %d, %v, want 63", got, err)
	}
	bad := [][3]int{
		{0, 1, 4},
		{1, 0, 4},
		{1, 1, 0},
		{math.MaxInt, 1, 4},
		{math.MaxInt / 2, 3, 1},
	}
	for _, in := range bad {
		if _, err := BufferSize(in[0], in[1], in[2]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("BufferSize(%d, %d, %d) error = %v, want ErrInvalidDimensions", in[0], in[1], in[2], err)
		}
	}
}

func TestFromRaw(t *testing.T) {
	tests := []struct {
		name    string
		dataLen int
		width   int
		height  int
		stride  int
		wantErr error
	}{
		{"tight", 4 * 4 * 3, 4, 3, 16, nil},
		{"padded stride", 20*2 + 16, 4, 3, 20, nil},
		{"padded stride full", 20 * 3, 4, 3, 20, nil},
		{"stride too small", 100, 4, 3, 12, ErrInvalidStride},
		{"data too small", 4*4*3 - 1, 4, 3, 16, ErrDataTooSmall},
		{"data too large", 4*4*3 + 1, 4, 3, 16, ErrDataTooLarge},
		{"zero height", 16, 4, 0, 16, ErrInvalidDimensions},
		{"stride overflows span", 16, 4, 3, math.MaxInt / 2, ErrDataTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRaw(make([]byte, tt.dataLen), tt.width, tt.height, FormatRGBA8, tt.stride)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FromRaw() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWrapValidate(t *testing.T) {
	ok := Wrap(make([]byte, 2*2*3), 2, 2, FormatRGB8)
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	short := Wrap(make([]byte, 11), 2, 2, FormatRGB8)
	if err := short.Validate(); !errors.Is(err, ErrDataTooSmall) {
		t.Errorf("short Validate() = %v, want ErrDataTooSmall", err)
	}
	if short.RowBytes(1) != nil {
		t.Error("RowBytes(1) of short buffer should be nil")
	}

	long := Wrap(make([]byte, 13), 2, 2, FormatRGB8)
	if err := long.Validate(); !errors.Is(err, ErrDataTooLarge) {
		t.Errorf("long Validate() = %v, want ErrDataTooLarge", err)
	}
}

func TestImageBuf_Clone(t *testing.T) {
	src, _ := NewImageBuf(3, 2, FormatRGBA8)
	_ = src.SetRGBA(1, 1, 10, 20, 30, 40)

	c := src.Clone()
	if !bytes.Equal(c.Data(), src.Data()) {
		t.Fatal("Clone() data differs from source")
	}

	_ = c.SetRGBA(1, 1, 0, 0, 0, 0)
	if r, _, _, _ := src.GetRGBA(1, 1); r != 10 {
		t.Error("Clone() shares memory with source")
	}

	// Cloning a view yields a tightly packed copy.
	big, _ := NewImageBuf(4, 4, FormatGray8)
	big.Fill(9, 0, 0, 0)
	view := big.SubImage(1, 1, 2, 2).Clone()
	if !view.IsContiguous() || view.ByteSize() != 4 {
		t.Errorf("cloned view: contiguous=%v size=%d, want true 4", view.IsContiguous(), view.ByteSize())
	}
}

func TestImageBuf_RowBytes(t *testing.T) {
	buf, _ := NewImageBuf(5, 3, FormatRGB8)

	for y := range 3 {
		if got := len(buf.RowBytes(y)); got != 15 {
			t.Errorf("len(RowBytes(%d)) = %d, want 15", y, got)
		}
	}
	if buf.RowBytes(-1) != nil || buf.RowBytes(3) != nil {
		t.Error("RowBytes() out of range should be nil")
	}
}

func TestImageBuf_PixelOffset(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)

	tests := []struct {
		x, y int
		want int
	}{
		{0, 0, 0},
		{1, 0, 4},
		{0, 1, 40},
		{9, 9, 396},
		{-1, 0, -1},
		{10, 0, -1},
		{0, 10, -1},
	}

	for _, tt := range tests {
		if got := buf.PixelOffset(tt.x, tt.y); got != tt.want {
			t.Errorf("PixelOffset(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestImageBuf_GetSetRGBA(t *testing.T) {
	tests := []struct {
		format     Format
		r, g, b, a uint8
		raw        []byte
		wantA      uint8
	}{
		{FormatRGBA8, 1, 2, 3, 4, []byte{1, 2, 3, 4}, 4},
		{FormatBGRA8, 1, 2, 3, 4, []byte{3, 2, 1, 4}, 4},
		{FormatRGB8, 1, 2, 3, 4, []byte{1, 2, 3}, 255},
		{FormatGray8, 7, 0, 0, 0, []byte{7}, 255},
		{FormatGray16, 7, 0, 0, 0, []byte{7, 7}, 255},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			buf, _ := NewImageBuf(2, 2, tt.format)
			if err := buf.SetRGBA(1, 0, tt.r, tt.g, tt.b, tt.a); err != nil {
				t.Fatalf("SetRGBA() error = %v", err)
			}
			if got := buf.PixelBytes(1, 0); !bytes.Equal(got, tt.raw) {
				t.Errorf("PixelBytes(1, 0) = %v, want %v", got, tt.raw)
			}
			if _, _, _, a := buf.GetRGBA(1, 0); a != tt.wantA {
				t.Errorf("GetRGBA() alpha = %d, want %d", a, tt.wantA)
			}
			if err := buf.SetRGBA(2, 0, 0, 0, 0, 0); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("SetRGBA() out of bounds = %v, want ErrOutOfBounds", err)
			}
		})
	}
}

func TestImageBuf_SetPixelBytes(t *testing.T) {
	buf, _ := NewImageBuf(2, 2, FormatRGBA8)
	if err := buf.SetPixelBytes(1, 1, []byte{9, 8, 7, 6}); err != nil {
		t.Fatalf("SetPixelBytes() error = %v", err)
	}
	if got := buf.Data()[12:16]; !bytes.Equal(got, []byte{9, 8, 7, 6}) {
		t.Errorf("pixel (1,1) = %v, want [9 8 7 6]", got)
	}
	if err := buf.SetPixelBytes(5, 5, []byte{1, 1, 1, 1}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SetPixelBytes() out of bounds = %v, want ErrOutOfBounds", err)
	}
}

func TestImageBuf_FillClear(t *testing.T) {
	buf, _ := NewImageBuf(3, 3, FormatRGBA8)
	buf.Fill(255, 128, 64, 32)

	for y := range 3 {
		for x := range 3 {
			r, g, b, a := buf.GetRGBA(x, y)
			if r != 255 || g != 128 || b != 64 || a != 32 {
				t.Fatalf("Fill: pixel (%d,%d) = (%d,%d,%d,%d)", x, y, r, g, b, a)
			}
		}
	}

	buf.Clear()
	for i, b := range buf.Data() {
		if b != 0 {
			t.Fatalf("Clear: byte %d = %d, want 0", i, b)
		}
	}
}

func TestImageBuf_SubImage(t *testing.T) {
	buf, _ := NewImageBuf(4, 4, FormatRGBA8)
	_ = buf.SetRGBA(2, 1, 200, 0, 0, 255)

	sub := buf.SubImage(1, 1, 2, 2)
	if sub == nil {
		t.Fatal("SubImage() = nil")
	}
	if sub.Stride() != buf.Stride() {
		t.Errorf("Stride() = %d, want %d", sub.Stride(), buf.Stride())
	}
	if sub.IsContiguous() {
		t.Error("view should not be contiguous")
	}
	if err := sub.Validate(); err != nil {
		t.Errorf("view Validate() = %v", err)
	}
	if r, _, _, _ := sub.GetRGBA(1, 0); r != 200 {
		t.Errorf("view pixel (1,0) red = %d, want 200", r)
	}

	// Writes through the view reach the parent.
	_ = sub.SetRGBA(0, 1, 0, 99, 0, 255)
	if _, g, _, _ := buf.GetRGBA(1, 2); g != 99 {
		t.Errorf("parent pixel (1,2) green = %d, want 99", g)
	}
}

func TestImageBuf_SubImage_Invalid(t *testing.T) {
	buf, _ := NewImageBuf(4, 4, FormatRGBA8)

	tests := []struct {
		name                string
		x, y, width, height int
	}{
		{"negative x", -1, 0, 2, 2},
		{"zero width", 0, 0, 0, 2},
		{"past right edge", 3, 0, 2, 2},
		{"past bottom edge", 0, 3, 2, 2},
	}

	for _, tt := range tests {
		if sub := buf.SubImage(tt.x, tt.y, tt.width, tt.height); sub != nil {
			t.Errorf("%s: SubImage() = %v, want nil", tt.name, sub)
		}
	}
}

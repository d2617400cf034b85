package image

import "testing"

func TestFormatInfo(t *testing.T) {
	tests := []struct {
		format   Format
		bpp      int
		channels int
		alpha    bool
		premul   bool
	}{
		{FormatGray8, 1, 1, false, false},
		{FormatGray16, 2, 1, false, false},
		{FormatRGB8, 3, 3, false, false},
		{FormatRGBA8, 4, 4, true, false},
		{FormatRGBAPremul, 4, 4, true, true},
		{FormatBGRA8, 4, 4, true, false},
		{FormatBGRAPremul, 4, 4, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.BytesPerPixel(); got != tt.bpp {
				t.Errorf("BytesPerPixel() = %d, want %d", got, tt.bpp)
			}
			if got := tt.format.Channels(); got != tt.channels {
				t.Errorf("Channels() = %d, want %d", got, tt.channels)
			}
			if got := tt.format.HasAlpha(); got != tt.alpha {
				t.Errorf("HasAlpha() = %v, want %v", got, tt.alpha)
			}
			if got := tt.format.Info().IsPremultiplied; got != tt.premul {
				t.Errorf("IsPremultiplied = %v, want %v", got, tt.premul)
			}
			if !tt.format.IsValid() {
				t.Error("IsValid() = false")
			}
		})
	}
}

func TestFormat_Invalid(t *testing.T) {
	f := Format(200)
	if f.IsValid() {
		t.Error("IsValid() = true for unknown format")
	}
	if f.BytesPerPixel() != 0 {
		t.Errorf("BytesPerPixel() = %d, want 0", f.BytesPerPixel())
	}
	if f.String() != "Unknown" {
		t.Errorf("String() = %q, want %q", f.String(), "Unknown")
	}
}

func TestFormat_RowAndImageBytes(t *testing.T) {
	if got := FormatRGB8.RowBytes(10); got != 30 {
		t.Errorf("RowBytes(10) = %d, want 30", got)
	}
	if got := FormatGray16.ImageBytes(3, 5); got != 30 {
		t.Errorf("ImageBytes(3, 5) = %d, want 30", got)
	}
}

func TestMaxBytesPerPixel(t *testing.T) {
	for f := range formatCount {
		if f.BytesPerPixel() > MaxBytesPerPixel {
			t.Errorf("%v.BytesPerPixel() = %d, above MaxBytesPerPixel", f, f.BytesPerPixel())
		}
	}
}

func TestParseFormat(t *testing.T) {
	for f := range formatCount {
		got, ok := ParseFormat(f.String())
		if !ok || got != f {
			t.Errorf("ParseFormat(%q) = %v, %v", f.String(), got, ok)
		}
	}
	if got, ok := ParseFormat("rgba8"); !ok || got != FormatRGBA8 {
		t.Errorf("ParseFormat(rgba8) = %v, %v", got, ok)
	}
	if _, ok := ParseFormat("cmyk"); ok {
		t.Error("ParseFormat(cmyk) ok = true")
	}
}

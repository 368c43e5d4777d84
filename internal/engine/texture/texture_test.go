package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

// tgaFile builds a 2x2 TGA with the given type, depth and pixel payload.
func tgaFile(imageType byte, bpp byte, topToBottom bool, payload ...byte) []byte {
	header := make([]byte, tgaHeaderSize)
	header[2] = imageType
	header[12], header[14] = 2, 2
	header[16] = bpp
	if topToBottom {
		header[17] = 0x20
	}
	return append(header, payload...)
}

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
	white = color.RGBA{255, 255, 255, 255}
)

func TestDecodeTGAUncompressed(t *testing.T) {
	// File order is BGR, bottom row first.
	data := tgaFile(tgaTrueColor, 24, false,
		0, 0, 255, 0, 255, 0, // bottom: red, green
		255, 0, 0, 255, 255, 255, // top: blue, white
	)
	img, err := Decode(data, FormatTGA)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := map[image.Point]color.RGBA{
		{0, 0}: blue, {1, 0}: white,
		{0, 1}: red, {1, 1}: green,
	}
	for p, c := range want {
		if got := img.RGBAAt(p.X, p.Y); got != c {
			t.Errorf("pixel %v = %v, want %v", p, got, c)
		}
	}
}

func TestDecodeTGATopToBottomWithAlpha(t *testing.T) {
	data := tgaFile(tgaTrueColor, 32, true,
		0, 0, 255, 128, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	)
	img, err := Decode(data, FormatTGA)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 128}) {
		t.Errorf("top-left = %v", got)
	}
}

func TestDecodeTGARLE(t *testing.T) {
	data := tgaFile(tgaTrueColorRLE, 24, true,
		0x81, 0, 0, 255, // run of two red
		0x01, 255, 0, 0, 0, 255, 0, // raw blue, green
	)
	img, err := Decode(data, FormatTGA)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []color.RGBA{red, red, blue, green}
	for n, c := range want {
		if got := img.RGBAAt(n%2, n/2); got != c {
			t.Errorf("pixel %d = %v, want %v", n, got, c)
		}
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0, 0, 2}},
		{"color mapped", func() []byte { d := tgaFile(tgaTrueColor, 24, false); d[1] = 1; return d }()},
		{"grayscale", tgaFile(3, 24, false)},
		{"16 bit", tgaFile(tgaTrueColor, 16, false)},
		{"truncated raw", tgaFile(tgaTrueColor, 24, false, 1, 2, 3)},
		{"truncated rle", tgaFile(tgaTrueColorRLE, 24, false, 0x81, 0, 0)},
		{"rle runs out", tgaFile(tgaTrueColorRLE, 24, false, 0x80, 0, 0, 255)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data, FormatTGA); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDecodePNGAndBMP(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	src.SetRGBA(2, 1, green)

	var pngBuf, bmpBuf bytes.Buffer
	if err := png.Encode(&pngBuf, src); err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(&bmpBuf, src); err != nil {
		t.Fatal(err)
	}

	for format, data := range map[string][]byte{FormatPNG: pngBuf.Bytes(), FormatBMP: bmpBuf.Bytes()} {
		img, err := Decode(data, format)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if img.Rect.Dx() != 3 || img.Rect.Dy() != 2 {
			t.Errorf("%s: size %v", format, img.Rect)
		}
		if got := img.RGBAAt(2, 1); got != green {
			t.Errorf("%s: pixel = %v, want %v", format, got, green)
		}
	}
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode([]byte("GIF89a"), "gif")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ground.TGA")
	data := tgaFile(tgaTrueColor, 24, true, bytes.Repeat([]byte{0, 255, 0}, 4)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := img.RGBAAt(1, 1); got != green {
		t.Errorf("pixel = %v", got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestToRGBAOffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(6, 5, color.NRGBA{0, 0, 255, 255})

	rgba := ToRGBA(src)
	if rgba.Rect != image.Rect(0, 0, 2, 1) {
		t.Fatalf("bounds = %v", rgba.Rect)
	}
	if got := rgba.RGBAAt(1, 0); got != blue {
		t.Errorf("pixel = %v", got)
	}
}

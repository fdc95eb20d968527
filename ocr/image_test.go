package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func grayTestImage(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestDecodeImage_Formats(t *testing.T) {
	img := grayTestImage(20, 10)

	var pngBuf, bmpBuf, tiffBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	if err := bmp.Encode(&bmpBuf, img); err != nil {
		t.Fatalf("bmp encode: %v", err)
	}
	if err := tiff.Encode(&tiffBuf, img, nil); err != nil {
		t.Fatalf("tiff encode: %v", err)
	}

	tests := []struct {
		format string
		data   []byte
	}{
		{"png", pngBuf.Bytes()},
		{"bmp", bmpBuf.Bytes()},
		{"tiff", tiffBuf.Bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			decoded, format, err := DecodeImage(tt.data)
			if err != nil {
				t.Fatalf("DecodeImage failed: %v", err)
			}
			if format != tt.format {
				t.Errorf("Expected format %q, got %q", tt.format, format)
			}
			bounds := decoded.Bounds()
			if bounds.Dx() != 20 || bounds.Dy() != 10 {
				t.Errorf("Unexpected bounds: %v", bounds)
			}
		})
	}
}

func TestDecodeImage_InvalidData(t *testing.T) {
	if _, _, err := DecodeImage([]byte("not an image")); err == nil {
		t.Error("Expected error for invalid image data")
	}
}

func TestNormalizeToPNG_PassesThroughPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, grayTestImage(20, 10)); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	data := buf.Bytes()

	normalized, err := NormalizeToPNG(data)
	if err != nil {
		t.Fatalf("NormalizeToPNG failed: %v", err)
	}
	if !bytes.Equal(normalized, data) {
		t.Error("Expected PNG input to pass through unchanged")
	}
}

func TestNormalizeToPNG_ConvertsBMP(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, grayTestImage(20, 10)); err != nil {
		t.Fatalf("bmp encode: %v", err)
	}

	normalized, err := NormalizeToPNG(buf.Bytes())
	if err != nil {
		t.Fatalf("NormalizeToPNG failed: %v", err)
	}

	decoded, format, err := DecodeImage(normalized)
	if err != nil {
		t.Fatalf("decode of normalized image failed: %v", err)
	}
	if format != "png" {
		t.Errorf("Expected png output, got %q", format)
	}
	if decoded.Bounds().Dx() != 20 {
		t.Errorf("Unexpected width: %d", decoded.Bounds().Dx())
	}
}

func TestNormalizeToPNG_InvalidData(t *testing.T) {
	if _, err := NormalizeToPNG([]byte("garbage")); err == nil {
		t.Error("Expected error for invalid image data")
	}
}

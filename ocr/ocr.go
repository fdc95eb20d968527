//go:build ocr

// Package ocr provides OCR (Optical Character Recognition) capabilities
// for extracting positioned text from page images.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/reflow/hittest"
	"github.com/tsawler/reflow/model"
)

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizeImage performs OCR on image data (PNG, TIFF, JPEG, etc.).
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g., "eng+fra").
// Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// SetPageSegMode sets the page segmentation mode.
// This affects how Tesseract analyzes the page layout.
// See gosseract.PageSegMode constants for available modes.
func (c *Client) SetPageSegMode(mode gosseract.PageSegMode) error {
	return c.client.SetPageSegMode(mode)
}

// ImageSource serves recognized word runs from a set of page images, one
// image per page. Word bounding boxes come straight from Tesseract, so run
// coordinates are image pixels with the origin at the top-left corner.
type ImageSource struct {
	client *Client
	pages  [][]byte
}

var _ hittest.Source = (*ImageSource)(nil)

// NewImageSource creates a source over the given page images. Each image is
// normalized to PNG up front; decoding errors surface here rather than at
// recognition time. The source owns a Tesseract client and should be closed
// when no longer needed.
func NewImageSource(pages ...[]byte) (*ImageSource, error) {
	client, err := New()
	if err != nil {
		return nil, err
	}

	normalized := make([][]byte, len(pages))
	for i, page := range pages {
		png, err := NormalizeToPNG(page)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		normalized[i] = png
	}

	return &ImageSource{client: client, pages: normalized}, nil
}

// Close releases the underlying OCR client.
func (s *ImageSource) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// SetLanguage sets the recognition language(s) for subsequent pages.
func (s *ImageSource) SetLanguage(lang string) error {
	return s.client.SetLanguage(lang)
}

// PageCount returns the number of page images.
func (s *ImageSource) PageCount() int {
	return len(s.pages)
}

// GlyphRuns recognizes the given page and returns one run per word.
// Recognition confidence is mapped from Tesseract's 0-100 scale to 0-1,
// and font size is estimated from the word box height. Empty words are
// dropped.
func (s *ImageSource) GlyphRuns(pageNum int) ([]model.GlyphRun, error) {
	if pageNum < 0 || pageNum >= len(s.pages) {
		return nil, fmt.Errorf("page %d out of range", pageNum)
	}

	if err := s.client.client.SetImageFromBytes(s.pages[pageNum]); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := s.client.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	runs := make([]model.GlyphRun, 0, len(boxes))
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		bbox := model.BBox{
			X0: float64(box.Box.Min.X),
			Y0: float64(box.Box.Min.Y),
			X1: float64(box.Box.Max.X),
			Y1: float64(box.Box.Max.Y),
		}
		runs = append(runs, model.GlyphRun{
			Text:       word,
			BBox:       bbox,
			Size:       bbox.Height(),
			Confidence: box.Confidence / 100,
		})
	}
	return runs, nil
}

//go:build !ocr

// Package ocr provides OCR (Optical Character Recognition) capabilities
// for extracting positioned text from page images.
//
// This is the stub implementation used when the "ocr" build tag is not set.
// All recognition functions return ErrOCRNotEnabled.
//
// To enable OCR, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"errors"

	"github.com/tsawler/reflow/hittest"
	"github.com/tsawler/reflow/model"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// PageSegMode represents page segmentation modes for OCR.
// These control how Tesseract analyzes the page layout.
type PageSegMode int

// Page segmentation modes, matching Tesseract's numbering.
const (
	PSM_OSD_ONLY PageSegMode = iota
	PSM_AUTO_OSD
	PSM_AUTO_ONLY
	PSM_AUTO
	PSM_SINGLE_COLUMN
	PSM_SINGLE_BLOCK_VERT_TEXT
	PSM_SINGLE_BLOCK
	PSM_SINGLE_LINE
	PSM_SINGLE_WORD
	PSM_CIRCLE_WORD
	PSM_SINGLE_CHAR
	PSM_SPARSE_TEXT
	PSM_SPARSE_TEXT_OSD
	PSM_RAW_LINE
)

// Client is a stub OCR client.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op on the stub client.
// It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizeImage returns an error indicating OCR support is not enabled.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// SetLanguage returns an error indicating OCR support is not enabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

// SetPageSegMode returns an error indicating OCR support is not enabled.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return ErrOCRNotEnabled
}

// ImageSource is a stub page-image source.
type ImageSource struct{}

var _ hittest.Source = (*ImageSource)(nil)

// NewImageSource returns an error indicating OCR support is not enabled.
func NewImageSource(pages ...[]byte) (*ImageSource, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op on the stub source.
func (s *ImageSource) Close() error {
	return nil
}

// SetLanguage returns an error indicating OCR support is not enabled.
func (s *ImageSource) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

// PageCount returns zero on the stub source.
func (s *ImageSource) PageCount() int {
	return 0
}

// GlyphRuns returns an error indicating OCR support is not enabled.
func (s *ImageSource) GlyphRuns(pageNum int) ([]model.GlyphRun, error) {
	return nil, ErrOCRNotEnabled
}

//go:build !ocr

// Package ocr extracts position-aware words from scanned budget pages.
//
// This is the stub implementation used when the "ocr" build tag is not
// set. All functions return ErrOCRNotEnabled.
//
// To enable OCR, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract with the Spanish language pack installed. On
// macOS:
//
//	brew install tesseract tesseract-lang
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-spa
package ocr

import (
	"errors"

	"github.com/jcanovas/mediciones/model"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR
// support was not compiled in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// DefaultLanguage is the Tesseract language pack used when none is set.
const DefaultLanguage = "spa"

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
// To enable OCR, rebuild with: go build -tags ocr
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client.
// It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// SetLanguage returns an error indicating OCR support is not enabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

// SetMinConfidence is a no-op for the stub client.
func (c *Client) SetMinConfidence(confidence float64) {}

// RecognizeText returns an error indicating OCR support is not enabled.
func (c *Client) RecognizeText(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// RecognizeWords returns an error indicating OCR support is not enabled.
func (c *Client) RecognizeWords(imageData []byte) ([]model.Word, error) {
	return nil, ErrOCRNotEnabled
}

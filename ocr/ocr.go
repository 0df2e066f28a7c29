//go:build ocr

// Package ocr extracts position-aware words from scanned budget pages.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract with the Spanish language pack installed. On macOS:
//
//	brew install tesseract tesseract-lang
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-spa
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/jcanovas/mediciones/model"
)

// DefaultLanguage is the Tesseract language pack used when none is set.
// Budget documents are Spanish.
const DefaultLanguage = "spa"

// Client wraps Tesseract for OCR operations.
type Client struct {
	client        *gosseract.Client
	minConfidence float64
}

// New creates a new OCR client configured for Spanish text.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(DefaultLanguage); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting language: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SetLanguage sets the language(s) for recognition. Multiple languages
// can be specified as a "+" separated string (e.g. "spa+cat").
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// SetMinConfidence discards recognized words below the given confidence
// (0-100). Zero keeps everything.
func (c *Client) SetMinConfidence(confidence float64) {
	c.minConfidence = confidence
}

// RecognizeText performs OCR on image data (PNG, TIFF, JPEG, etc.) and
// returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeText(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// RecognizeWords performs OCR on image data and returns every recognized
// word with its bounding box, in the coordinate shape the layout detector
// consumes. Pixel coordinates, top-down.
func (c *Client) RecognizeWords(imageData []byte) ([]model.Word, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	words := make([]model.Word, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		if c.minConfidence > 0 && b.Confidence < c.minConfidence {
			continue
		}
		w := model.Word{
			Text:   text,
			X0:     float64(b.Box.Min.X),
			X1:     float64(b.Box.Max.X),
			Top:    float64(b.Box.Min.Y),
			Bottom: float64(b.Box.Max.Y),
		}
		// Tesseract occasionally emits zero-area boxes for specks.
		if w.BBox().IsEmpty() {
			continue
		}
		words = append(words, w)
	}

	return words, nil
}

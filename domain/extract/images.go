package extract

import (
	"bytes"
	"context"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	// Register decoders for the formats image hosts commonly serve.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"deal-detector/pkg/logger"
)

// Some image hosts reject unidentified clients.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// maxImageBytes bounds how much of a response body is read per image.
const maxImageBytes = 10 << 20

// OCRClient extracts readable text from image bytes.
type OCRClient interface {
	ExtractText(ctx context.Context, data []byte, format string) (string, error)
}

// ImageTextRecoverer fetches image references and recovers their text
// via OCR. Recovery is best effort: any failure makes that image
// contribute nothing, and no error is ever surfaced to the caller.
type ImageTextRecoverer struct {
	client *http.Client
	ocr    OCRClient
	log    logger.Logger
}

// NewImageTextRecoverer creates a recoverer with a bounded fetch timeout.
func NewImageTextRecoverer(ocr OCRClient, fetchTimeout time.Duration) *ImageTextRecoverer {
	return &ImageTextRecoverer{
		client: &http.Client{Timeout: fetchTimeout},
		ocr:    ocr,
		log:    logger.Get().WithComponent("image_ocr"),
	}
}

// RecoverText runs every image reference through fetch + OCR and joins
// the non-empty results with single spaces, in reference order.
func (r *ImageTextRecoverer) RecoverText(ctx context.Context, imageRefs []string) string {
	var parts []string
	for _, ref := range imageRefs {
		if text := r.recoverOne(ctx, ref); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func (r *ImageTextRecoverer) recoverOne(ctx context.Context, ref string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Debug("Image fetch failed", logger.ImageURL(ref), logger.Err(err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.Debug("Image fetch returned non-OK status",
			logger.ImageURL(ref),
			logger.Status(resp.StatusCode),
		)
		return ""
	}

	// Image hosts are untrusted; the URL may serve anything.
	if !strings.Contains(resp.Header.Get("Content-Type"), "image") {
		r.log.Debug("Image URL did not return an image",
			logger.ImageURL(ref),
			logger.String("content_type", resp.Header.Get("Content-Type")),
		)
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return ""
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		r.log.Debug("Image decode failed", logger.ImageURL(ref), logger.Err(err))
		return ""
	}

	text, err := r.ocr.ExtractText(ctx, data, format)
	if err != nil {
		r.log.Debug("OCR call failed", logger.ImageURL(ref), logger.Err(err))
		return ""
	}

	return cleanOCRText(text)
}

// cleanOCRText strips quote and backtick characters, which would corrupt
// downstream prompt templating, and collapses whitespace.
func cleanOCRText(text string) string {
	text = strings.ReplaceAll(text, `"`, "")
	text = strings.ReplaceAll(text, "`", "")
	return strings.Join(strings.Fields(text), " ")
}

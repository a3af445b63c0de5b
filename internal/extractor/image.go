package extractor

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/intellidoc/backend/pkg/logger"
)

// OCRConfig tunes the local OCR backend.
type OCRConfig struct {
	Languages []string
	// Preprocess applies grayscale + contrast normalization before OCR.
	Preprocess bool
}

// imageExtractor performs OCR, preferring the remote Textract backend when
// configured and falling back to a local tesseract run.
type imageExtractor struct {
	textract *textractOCR
	ocr      OCRConfig
	logger   logger.Logger
}

func newImageExtractor(ctx context.Context, cfg Config, log logger.Logger) (*imageExtractor, error) {
	e := &imageExtractor{ocr: cfg.OCR, logger: log}

	if cfg.Textract != nil {
		remote, err := newTextractOCR(ctx, cfg.Textract, log)
		if err != nil {
			// Remote OCR is optional; local tesseract still serves images.
			log.Warn("Textract OCR unavailable, using local OCR only", logger.Error(err))
		} else {
			e.textract = remote
		}
	}

	if len(e.ocr.Languages) == 0 {
		e.ocr.Languages = []string{"eng"}
	}

	return e, nil
}

func (e *imageExtractor) Extract(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", newError(KindDecodeFailure, err)
	}

	if e.textract != nil {
		text, err := e.textract.DetectText(ctx, data)
		if err == nil {
			return text, nil
		}
		e.logger.Warn("Remote OCR failed, falling back to local OCR", logger.Error(err))
	}

	return e.localOCR(data)
}

func (e *imageExtractor) localOCR(data []byte) (string, error) {
	if e.ocr.Preprocess {
		if processed, err := e.preprocess(data); err == nil {
			data = processed
		}
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.ocr.Languages...); err != nil {
		return "", newError(KindDecodeFailure, err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", newError(KindCorruptFile, err)
	}

	text, err := client.Text()
	if err != nil {
		return "", newError(KindDecodeFailure, err)
	}

	return text, nil
}

// preprocess normalizes the image before OCR: grayscale and a mild contrast
// boost improve recognition on scanned documents.
func (e *imageExtractor) preprocess(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	processed := imaging.Grayscale(img)
	processed = imaging.AdjustContrast(processed, 15)
	processed = imaging.Sharpen(processed, 0.5)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: 95}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

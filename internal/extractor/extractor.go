package extractor

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/intellidoc/backend/pkg/logger"
)

// ErrorKind classifies extraction failures.
type ErrorKind string

const (
	KindUnsupportedType ErrorKind = "unsupported_type"
	KindCorruptFile     ErrorKind = "corrupt_file"
	KindDecodeFailure   ErrorKind = "decode_failure"
)

// Error is a typed extraction failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("extraction failed (%s)", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// documentExtractor converts a single format into plain text.
type documentExtractor interface {
	Extract(ctx context.Context, r io.Reader) (string, error)
}

// Extractor dispatches on declared content type to a fixed set of
// format-specific extractors.
type Extractor struct {
	pdf    documentExtractor
	word   documentExtractor
	text   documentExtractor
	image  documentExtractor
	logger logger.Logger
}

// Config selects the OCR backends for image extraction.
type Config struct {
	Textract *TextractConfig // nil disables the remote OCR backend
	OCR      OCRConfig
}

// New builds the extractor with its fixed format set: PDF, Word documents,
// plain text and images via OCR.
func New(ctx context.Context, cfg Config, log logger.Logger) (*Extractor, error) {
	img, err := newImageExtractor(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image extractor: %w", err)
	}

	return &Extractor{
		pdf:    &pdfExtractor{},
		word:   &wordExtractor{},
		text:   &textExtractor{},
		image:  img,
		logger: log,
	}, nil
}

// Extract converts the stored file into plain text based on its declared
// content type. The result is trimmed; callers enforce minimum-length rules.
func (e *Extractor) Extract(ctx context.Context, r io.Reader, contentType string) (string, error) {
	var (
		text string
		err  error
	)

	switch {
	case contentType == "application/pdf":
		text, err = e.pdf.Extract(ctx, r)
	case contentType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		contentType == "application/msword":
		text, err = e.word.Extract(ctx, r)
	case strings.HasPrefix(contentType, "text/"):
		text, err = e.text.Extract(ctx, r)
	case strings.HasPrefix(contentType, "image/"):
		text, err = e.image.Extract(ctx, r)
	default:
		return "", newError(KindUnsupportedType, fmt.Errorf("content type %q", contentType))
	}

	if err != nil {
		e.logger.Error("Text extraction failed",
			logger.String("contentType", contentType),
			logger.Error(err),
		)
		return "", err
	}

	return strings.TrimSpace(text), nil
}

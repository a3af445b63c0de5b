package extractor

import (
	"context"
	"io"
	"unicode/utf8"
)

// textExtractor reads plain text, accepting UTF-8 and falling back to a
// Latin-1 reinterpretation when the bytes are not valid UTF-8.
type textExtractor struct{}

func (t *textExtractor) Extract(ctx context.Context, r io.Reader) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", newError(KindDecodeFailure, err)
	}

	if utf8.Valid(content) {
		return string(content), nil
	}

	return decodeLatin1(content), nil
}

func decodeLatin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

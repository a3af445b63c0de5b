package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellidoc/backend/pkg/logger"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := New(context.Background(), Config{}, logger.NewTestLogger())
	require.NoError(t, err)
	return e
}

func TestExtractUnsupportedType(t *testing.T) {
	e := newTestExtractor(t)

	_, err := e.Extract(context.Background(), strings.NewReader("data"), "application/zip")
	require.Error(t, err)

	var exErr *Error
	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, KindUnsupportedType, exErr.Kind)
}

func TestExtractPlainTextUTF8(t *testing.T) {
	e := newTestExtractor(t)

	text, err := e.Extract(context.Background(), strings.NewReader("  hello world\n"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestExtractPlainTextLatin1Fallback(t *testing.T) {
	e := newTestExtractor(t)

	// 0xE9 is 'é' in Latin-1 but not valid standalone UTF-8.
	raw := []byte{'c', 'a', 'f', 0xE9}
	text, err := e.Extract(context.Background(), bytes.NewReader(raw), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "café", text)
}

func buildDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()

	var body strings.Builder
	body.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(body.String()))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestExtractWordDocument(t *testing.T) {
	e := newTestExtractor(t)

	docx := buildDocx(t, []string{"First paragraph.", "Second paragraph."})
	text, err := e.Extract(context.Background(), bytes.NewReader(docx),
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", text)
}

func TestExtractWordDocumentCorrupt(t *testing.T) {
	e := newTestExtractor(t)

	_, err := e.Extract(context.Background(), strings.NewReader("not a zip archive"),
		"application/msword")
	require.Error(t, err)

	var exErr *Error
	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, KindCorruptFile, exErr.Kind)
}

func TestExtractPDFCorrupt(t *testing.T) {
	e := newTestExtractor(t)

	_, err := e.Extract(context.Background(), strings.NewReader("definitely not a pdf"), "application/pdf")
	require.Error(t, err)

	var exErr *Error
	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, KindCorruptFile, exErr.Kind)
}

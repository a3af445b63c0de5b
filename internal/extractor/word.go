package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// wordExtractor reads the main document part of an OOXML word-processing
// file. A .docx is a zip archive whose text lives in word/document.xml as
// paragraph runs.
type wordExtractor struct{}

type wordDocumentXML struct {
	Body struct {
		Paragraphs []wordParagraph `xml:"p"`
	} `xml:"body"`
}

type wordParagraph struct {
	Runs []wordRun `xml:"r"`
}

type wordRun struct {
	Text []wordText `xml:"t"`
}

type wordText struct {
	Content string `xml:",chardata"`
}

func (w *wordExtractor) Extract(ctx context.Context, r io.Reader) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", newError(KindDecodeFailure, err)
	}

	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", newError(KindCorruptFile, err)
	}

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", newError(KindCorruptFile, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", newError(KindCorruptFile, err)
		}

		var doc wordDocumentXML
		if err := xml.Unmarshal(raw, &doc); err != nil {
			return "", newError(KindDecodeFailure, err)
		}

		var sb strings.Builder
		for i, para := range doc.Body.Paragraphs {
			if i > 0 {
				sb.WriteString("\n")
			}
			for _, run := range para.Runs {
				for _, t := range run.Text {
					sb.WriteString(t.Content)
				}
			}
		}
		return sb.String(), nil
	}

	return "", newError(KindCorruptFile, fmt.Errorf("word/document.xml not found in archive"))
}

package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"resumematch-backend/internal/shared/storage/object"
)

// ErrUnsupportedFormat is returned when the file extension has no extractor.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Text extracts plain text from a document based on its file extension.
// Supported: .pdf, .docx, .doc, .txt, .md.
func Text(fileName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".pdf":
		return fromPDF(data)
	case ".docx", ".doc":
		return fromDocx(data)
	case ".txt", ".md":
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// FromStore reads a stored document, extracts its text, and persists the
// result next to the original under a ".extracted.txt" suffix. Returns the
// text and the storage key of the persisted copy.
func FromStore(ctx context.Context, store object.ObjectStore, storageKey, fileName string) (string, string, error) {
	rc, err := store.Open(ctx, storageKey)
	if err != nil {
		return "", "", fmt.Errorf("open document: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", "", fmt.Errorf("read document: %w", err)
	}

	text, err := Text(fileName, data)
	if err != nil {
		return "", "", err
	}

	textKey := storageKey + ".extracted.txt"
	if _, err := store.SaveWithKey(ctx, textKey, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		return "", "", fmt.Errorf("persist extracted text: %w", err)
	}
	return text, textKey, nil
}

func fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

func fromDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	return stripXML(content), nil
}

// stripXML walks document XML and keeps character data, inserting line
// breaks at paragraph boundaries so section headers stay on their own lines.
func stripXML(content string) string {
	decoder := xml.NewDecoder(strings.NewReader(content))
	var sb strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

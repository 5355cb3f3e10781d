package analysis

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// NewRequestFromFile reads path and rejects anything that is not a PDF.
func NewRequestFromFile(path string, lang Language) (Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Request{}, fmt.Errorf("reading %s: %w", path, err)
	}
	mimeType := http.DetectContentType(data)
	if err := checkPDF(mimeType); err != nil {
		return Request{}, err
	}
	return Request{
		Filename: filepath.Base(path),
		Data:     data,
		MimeType: pdfMimeType,
		Language: lang,
	}, nil
}

func checkPDF(mimeType string) error {
	if !strings.HasPrefix(mimeType, pdfMimeType) {
		return fmt.Errorf("%w: %s (please upload a PDF file)", ErrUnsupportedMedia, mimeType)
	}
	return nil
}

// ExtractText returns the plain text of a PDF with whitespace collapsed.
func ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}
	fullText := extraneousWhitespace.ReplaceAllString(builder.String(), " ")
	return strings.TrimSpace(fullText), nil
}

func clipText(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// documentText validates req and extracts the text sent to the provider.
func documentText(req Request, extract func([]byte) (string, error)) (string, error) {
	if err := checkPDF(req.MimeType); err != nil {
		return "", err
	}
	if len(req.Data) == 0 {
		return "", failed("empty upload")
	}
	text, err := extract(req.Data)
	if err != nil {
		return "", wrapFailed("extract text", err)
	}
	text = clipText(text, maxReportSourceChars)
	if text == "" {
		return "", failed("pdf contains no extractable text")
	}
	return text, nil
}

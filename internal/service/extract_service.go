package service

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"github.com/unidoc/unipdf/v3/extractor"
	pdfmodel "github.com/unidoc/unipdf/v3/model"
)

// DocumentExtractor turns an uploaded resume into plain text. Only PDF and
// DOCX are accepted; anything else is rejected up front rather than scored
// against garbage bytes.
type DocumentExtractor interface {
	Extract(fileName string, content []byte) (string, error)
}

type documentExtractor struct{}

func NewDocumentExtractor() DocumentExtractor {
	return &documentExtractor{}
}

func (e *documentExtractor) Extract(fileName string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrExtractionFailed)
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(fileName))
	}
}

func extractPDF(content []byte) (string, error) {
	reader, err := pdfmodel.NewPdfReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: reading pdf: %v", ErrExtractionFailed, err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("%w: counting pdf pages: %v", ErrExtractionFailed, err)
	}
	if numPages == 0 {
		return "", fmt.Errorf("%w: pdf has no pages", ErrExtractionFailed)
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			log.Warn().Int("page", i).Err(err).Msg("Skipping unreadable PDF page")
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			log.Warn().Int("page", i).Err(err).Msg("Skipping PDF page with no extractor")
			continue
		}
		pageText, err := ex.ExtractText()
		if err != nil {
			log.Warn().Int("page", i).Err(err).Msg("Skipping PDF page that failed extraction")
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: no text in pdf", ErrExtractionFailed)
	}
	return text, nil
}

var xmlTag = regexp.MustCompile(`<[^>]+>`)

func extractDOCX(content []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: reading docx: %v", ErrExtractionFailed, err)
	}
	defer doc.Close()

	// GetContent returns the document XML; paragraph boundaries become
	// newlines before the remaining tags are stripped.
	raw := doc.Editable().GetContent()
	raw = strings.ReplaceAll(raw, "</w:p>", "\n")
	stripped := xmlTag.ReplaceAllString(raw, " ")

	var lines []string
	for _, line := range strings.Split(stripped, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	text := strings.Join(lines, "\n")
	if text == "" {
		return "", fmt.Errorf("%w: no text in docx", ErrExtractionFailed)
	}
	return text, nil
}

package service

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_UnsupportedFormat(t *testing.T) {
	extractor := NewDocumentExtractor()

	for _, name := range []string{"resume.txt", "resume.doc", "resume.png", "resume"} {
		_, err := extractor.Extract(name, []byte("content"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
}

func TestExtract_EmptyFile(t *testing.T) {
	extractor := NewDocumentExtractor()

	_, err := extractor.Extract("resume.pdf", nil)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtract_CorruptPDF(t *testing.T) {
	extractor := NewDocumentExtractor()

	_, err := extractor.Extract("resume.pdf", []byte("definitely not a pdf"))
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtract_DOCX(t *testing.T) {
	extractor := NewDocumentExtractor()

	content := buildDocx(t, `<w:document><w:body>`+
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>jane.doe@example.com</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	text, err := extractor.Extract("resume.docx", content)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "jane.doe@example.com")
}

func TestExtract_CorruptDOCX(t *testing.T) {
	extractor := NewDocumentExtractor()

	_, err := extractor.Extract("resume.docx", []byte("not a zip archive"))
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

// buildDocx assembles the minimal zip layout the docx reader expects.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	entries := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`</Types>`,
		"_rels/.rels":                  `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml":            documentXML,
	}
	for name, body := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

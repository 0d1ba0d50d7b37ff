package ingestion

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported upload extensions.
const (
	ExtPDF  = ".pdf"
	ExtDOCX = ".docx"
)

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br[^>]*/>|<w:tab[^>]*/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// Extractor returns the page texts of a document.
type Extractor func(data []byte) ([]string, error)

// ExtractText returns the plain text of every page of a PDF document, in page order.
// Pages without content are returned as empty strings so page numbering is preserved.
func ExtractText(data []byte) (pages []string, err error) {
	if len(data) == 0 {
		return nil, &ExtractionError{Message: "empty document"}
	}

	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &ExtractionError{Message: "malformed PDF", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Message: "failed to read PDF", Cause: err}
	}

	numPages := reader.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, &ExtractionError{Message: fmt.Sprintf("failed to extract text from page %d", i), Cause: err}
		}
		pages = append(pages, text)
	}

	return pages, nil
}

// ExtractDOCXText returns the text of a Word document as a single page.
func ExtractDOCXText(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, &ExtractionError{Message: "empty document"}
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Message: "failed to parse docx", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return []string{html.UnescapeString(content)}, nil
}

// ExtractorFor returns the extractor for a file name based on its extension.
func ExtractorFor(name string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtPDF:
		return ExtractText, nil
	case ExtDOCX:
		return ExtractDOCXText, nil
	default:
		return nil, &ExtractionError{Path: name, Message: "unsupported file type"}
	}
}

// ExtractFile reads a resume file from disk and returns its page texts.
func ExtractFile(path string) ([]string, error) {
	extract, err := ExtractorFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ExtractionError{Path: path, Message: "file not found", Cause: err}
		}
		return nil, &ExtractionError{Path: path, Message: "failed to read file", Cause: err}
	}

	pages, err := extract(data)
	if err != nil {
		if extractionErr, ok := err.(*ExtractionError); ok && extractionErr.Path == "" {
			extractionErr.Path = path
		}
		return nil, err
	}
	return pages, nil
}

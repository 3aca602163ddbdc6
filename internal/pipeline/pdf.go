package pipeline

import (
	"bytes"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// ExtractPDFText recovers plain text from a PDF blob, page by page. The
// result feeds the free-text extraction path; pages that fail to render are
// skipped rather than failing the document.
func ExtractPDFText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// Package material loads lesson context text from files for the quiz and
// assistant prompts.
package material

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxBytes bounds how much of a text file is read.
const MaxBytes = 1 << 20

// ErrUnsupported is returned for file types other than text and PDF.
var ErrUnsupported = errors.New("unsupported lesson file type")

// Load returns the text of a .txt, .md or .pdf file with whitespace runs
// collapsed.
func Load(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown":
		return loadText(path)
	case ".pdf":
		return loadPDF(path)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
}

func loadText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open lesson file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxBytes))
	if err != nil {
		return "", fmt.Errorf("read lesson file: %w", err)
	}
	return Clean(string(data)), nil
}

func loadPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for n := 1; n <= r.NumPage(); n++ {
		page := r.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return Clean(b.String()), nil
}

// Clean collapses whitespace runs to single spaces and trims the ends.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

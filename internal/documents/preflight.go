package documents

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// SupportedExtensions are the file types the backend ingests.
var SupportedExtensions = []string{".pdf", ".txt", ".doc", ".docx", ".md"}

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("file is empty")
	ErrUnreadablePDF   = errors.New("unreadable PDF")
)

// FileInfo describes a file that passed Preflight.
type FileInfo struct {
	Path  string
	Name  string
	Size  int64
	Pages int // 0 for non-PDF files
}

// Preflight checks a file before it is uploaded.
func Preflight(path string) (*FileInfo, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supported(ext) {
		return nil, fmt.Errorf("%w %q (accepted: %s)", ErrUnsupportedType, ext, strings.Join(SupportedExtensions, " "))
	}

	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if st.Size() == 0 {
		return nil, ErrEmptyFile
	}

	info := &FileInfo{Path: path, Name: filepath.Base(path), Size: st.Size()}
	if ext == ".pdf" {
		pages, err := pdfPages(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
		}
		info.Pages = pages
	}
	return info, nil
}

func supported(ext string) bool {
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// pdfPages opens the PDF far enough to read its page tree. The pdf reader
// panics on some malformed inputs.
func pdfPages(path string) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return r.NumPage(), nil
}

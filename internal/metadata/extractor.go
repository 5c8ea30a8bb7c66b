package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DocInfo is what a document extractor can tell us about a file: a title
// guess and the page texts to scan for identifiers.
type DocInfo struct {
	Title string
	Pages []string
}

// Extractor pulls a title guess and page texts out of a document file.
// Implementations wrap whatever PDF tooling the deployment has available.
type Extractor interface {
	Extract(path string) (*DocInfo, error)
}

// doiPattern matches DOIs of the form 10.NNNN.../suffix anywhere in text.
var doiPattern = regexp.MustCompile(`(?i)10\.\d{4,9}/[-._;()/:A-Z0-9]+`)

// FindDOI scans page texts in order and returns the first DOI found, or "".
func FindDOI(pages []string) string {
	for _, page := range pages {
		if match := doiPattern.FindString(page); match != "" {
			return match
		}
	}
	return ""
}

// FilenameExtractor is the fallback Extractor for deployments without a PDF
// parser: the title is derived from the file name and no page text is
// produced, so DOI detection and enrichment are skipped.
type FilenameExtractor struct{}

func (FilenameExtractor) Extract(path string) (*DocInfo, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	return &DocInfo{Title: TitleFromFilename(path)}, nil
}

// TitleFromFilename turns "deep_learning-survey.pdf" into
// "deep learning survey".
func TitleFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.ReplaceAll(stem, "_", " ")
	stem = strings.ReplaceAll(stem, "-", " ")
	return strings.TrimSpace(stem)
}

// Package storage manages the attachment blob tree on disk. Every
// attachment gets its own directory named after its id, holding the file
// under its original name:
//
//	<root>/<attachment_id>/<original_filename>
//
// Database records only ever hold paths relative to the root, so the root
// may be relocated without invalidating them.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Store is a file store rooted at a single directory.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given directory, creating it if
// needed.
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute storage root path.
func (s *Store) Root() string {
	return s.root
}

// Put copies the source file into the attachment's directory, preserving
// its base name, and returns the root-relative path together with the
// sniffed MIME type. MIME detection is best effort: content sniffing first,
// empty string when nothing can be determined.
func (s *Store) Put(attachmentID int64, sourcePath string) (string, string, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return "", "", fmt.Errorf("storage: stat source: %w", err)
	}
	if info.IsDir() {
		return "", "", fmt.Errorf("storage: source is a directory: %s", sourcePath)
	}

	dir := filepath.Join(s.root, strconv.FormatInt(attachmentID, 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("storage: create attachment dir: %w", err)
	}

	dest := filepath.Join(dir, filepath.Base(sourcePath))
	if err := copyFile(sourcePath, dest); err != nil {
		return "", "", fmt.Errorf("storage: copy %s: %w", sourcePath, err)
	}

	rel, err := filepath.Rel(s.root, dest)
	if err != nil {
		return "", "", fmt.Errorf("storage: relativize path: %w", err)
	}

	mime := ""
	if detected, err := mimetype.DetectFile(dest); err == nil {
		mime = detected.String()
	}

	return filepath.ToSlash(rel), mime, nil
}

// Abs resolves a stored relative path against the root, rejecting any path
// that escapes it.
func (s *Store) Abs(rel string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("storage: path escapes root: %s", rel)
	}
	return filepath.Join(s.root, cleaned), nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}

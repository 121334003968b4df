// Package archive builds Walk abstraction on top of zip icon packs.
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/encoding"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk, name is the entry name after optional code-page decoding and file is
// the zip.File structure for the matching entry. If an error is returned,
// processing stops.
type WalkFunc func(archive, name string, file *zip.File) error

// DecodeName converts a zip entry name recorded in a legacy code page to
// UTF-8. Names flagged as UTF-8, or when no override encoding is given, pass
// through unchanged.
func DecodeName(f *zip.File, enc encoding.Encoding) string {
	if enc == nil || !f.NonUTF8 {
		return f.Name
	}
	if decoded, err := enc.NewDecoder().String(f.Name); err == nil {
		return decoded
	}
	return f.Name
}

// Walk walks the all files in the archive which satisfy match condition,
// calling walkFn for each item. Entry names may be decoded with enc first
// (zip format does not mandate UTF-8, old packs use archaic code pages).
// Entries with path traversal components ("..") or absolute paths fail the
// walk to prevent Zip Slip attacks.
func Walk(archive, pattern string, enc encoding.Encoding, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := DecodeName(f, enc)
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, pattern) {
			if err := walkFn(archive, name, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

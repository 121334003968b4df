package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"dsg/archive"
	"dsg/scan"
)

// loadIcons collects icon SVGs from the configured source: a directory, a zip
// icon pack or, when no source is configured, the embedded default set. Icons
// are keyed by file name without extension.
func loadIcons(path string, cp encoding.Encoding, defaults map[string][]byte, log *zap.Logger) (map[string][]byte, error) {
	if len(path) == 0 {
		log.Debug("No icon source configured, using default set")
		return maps.Clone(defaults), nil
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	icons := make(map[string][]byte)
	if fi.IsDir() {
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".svg") {
				return nil
			}
			name := iconName(d.Name())
			if _, exists := icons[name]; exists {
				log.Warn("Duplicate icon name, keeping first", zap.String("name", name), zap.String("file", p))
				return nil
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			icons[name] = data
			return nil
		})
		if err != nil {
			return nil, err
		}
		return icons, nil
	}

	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return nil, fmt.Errorf("unsupported icon source (%s): want directory or zip archive", path)
	}

	err = archive.Walk(path, "", cp, func(_, name string, file *zip.File) error {
		if !strings.EqualFold(filepath.Ext(name), ".svg") {
			return nil
		}
		key := iconName(name)
		if _, exists := icons[key]; exists {
			log.Warn("Duplicate icon name, keeping first", zap.String("name", key), zap.String("entry", name))
			return nil
		}
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		icons[key] = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return icons, nil
}

// iconName maps an icon path to its token name: base name without extension.
func iconName(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// usedIcons returns names of icons referenced by scanned sources as
// "<prefix>-icon-<name>" tokens, in natural order. References without a
// matching icon are logged and skipped.
func usedIcons(res *scan.Result, prefix string, icons map[string][]byte, log *zap.Logger) []string {
	iconPrefix := prefix + "-icon-"

	var used []string
	for _, class := range res.Classes() {
		if !strings.HasPrefix(class, iconPrefix) {
			continue
		}
		name := strings.TrimPrefix(class, iconPrefix)
		if _, ok := icons[name]; !ok {
			log.Warn("Referenced icon not found in icon source", zap.String("name", name), zap.String("token", class))
			continue
		}
		used = append(used, name)
	}
	return used
}

// Recolor rewrites fill and stroke attributes throughout the SVG document to
// the given color. Attributes set to "none" keep their value so cutouts
// survive.
func Recolor(svgData []byte, fill string) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(svgData); err != nil {
		return nil, fmt.Errorf("unable to parse SVG: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("SVG document has no root element")
	}
	recolorElement(root, fill)
	return doc.WriteToBytes()
}

func recolorElement(e *etree.Element, fill string) {
	for _, attr := range []string{"fill", "stroke"} {
		if a := e.SelectAttr(attr); a != nil && a.Value != "none" {
			e.CreateAttr(attr, fill)
		}
	}
	for _, child := range e.ChildElements() {
		recolorElement(child, fill)
	}
}

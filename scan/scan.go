// Package scan extracts utility-class tokens from project sources.
package scan

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/h2non/filetype"
	"github.com/maruel/natural"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"dsg/css"
)

// Result accumulates class tokens found across scanned sources.
type Result struct {
	classes map[string]struct{}
	Files   int
}

func NewResult() *Result {
	return &Result{classes: make(map[string]struct{})}
}

func (r *Result) Add(name string) {
	if len(name) == 0 {
		return
	}
	r.classes[name] = struct{}{}
}

func (r *Result) Has(name string) bool {
	_, ok := r.classes[name]
	return ok
}

// Classes returns found tokens in natural sort order.
func (r *Result) Classes() []string {
	out := make([]string, 0, len(r.classes))
	for name := range r.classes {
		out = append(out, name)
	}
	slices.SortFunc(out, func(a, b string) int {
		if a == b {
			return 0
		}
		if natural.Less(a, b) {
			return -1
		}
		return 1
	})
	return out
}

// Scan walks the given doublestar globs and collects class tokens. HTML
// sources contribute every class attribute token, CSS sources contribute
// selector class names, any other text source contributes tokens matching
// "<prefix>-...". Binary files are sniffed and skipped.
func Scan(ctx context.Context, globs []string, prefix string, log *zap.Logger) (*Result, error) {
	res := NewResult()
	tokenRe, err := prefixPattern(prefix)
	if err != nil {
		return nil, err
	}

	for _, pattern := range globs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad source glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			log.Debug("Nothing matched source glob", zap.String("glob", pattern))
			continue
		}

		for _, path := range matches {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}

			if err := scanFile(path, tokenRe, res, log); err != nil {
				log.Warn("Skipping source file", zap.String("file", path), zap.Error(err))
				continue
			}
		}
	}

	log.Debug("Source scan finished", zap.Int("files", res.Files), zap.Int("classes", len(res.classes)))
	return res, nil
}

// prefixPattern builds the token matcher for non-HTML text sources.
func prefixPattern(prefix string) (*regexp.Regexp, error) {
	if len(prefix) == 0 {
		return nil, fmt.Errorf("empty class token prefix")
	}
	return regexp.Compile(`\b` + regexp.QuoteMeta(prefix) + `-[a-zA-Z0-9_-]+`)
}

func scanFile(path string, tokenRe *regexp.Regexp, res *Result, log *zap.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		scanHTML(data, res)
	case ".css":
		scanCSS(data, res, log)
	default:
		// sniff content for extensionless or unusual files, anything with a
		// recognized binary signature (images, archives, fonts) is skipped
		if t, err := filetype.Match(data); err == nil && t != filetype.Unknown {
			log.Debug("Skipping binary file", zap.String("file", path), zap.String("type", t.MIME.Value))
			return nil
		}
		scanText(data, tokenRe, res)
	}
	res.Files++
	return nil
}

// scanHTML collects every token of every class attribute.
func scanHTML(data []byte, res *Result) {
	z := html.NewTokenizer(bytes.NewReader(data))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or malformed tail, either way we took what we could
			return
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		for _, attr := range z.Token().Attr {
			if attr.Key != "class" {
				continue
			}
			for _, name := range strings.Fields(attr.Val) {
				res.Add(name)
			}
		}
	}
}

// scanCSS collects class names mentioned in selectors.
func scanCSS(data []byte, res *Result, log *zap.Logger) {
	sheet := css.NewParser(log).Parse(data)
	for _, name := range sheet.ClassNames() {
		res.Add(name)
	}
}

func scanText(data []byte, tokenRe *regexp.Regexp, res *Result) {
	for _, m := range tokenRe.FindAll(data, -1) {
		res.Add(string(m))
	}
}

package css

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/maruel/natural"
)

// cssEscapeDoubleQuoted escapes a string for use inside CSS double quotes.
// Backslashes and double quotes are escaped per CSS syntax: \" and \\.
func cssEscapeDoubleQuoted(s string) string {
	// Fast path: nothing to escape.
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MediaQuery represents an @media query condition. Only the raw form takes
// part in output; Feature/Value are parsed out for the conditions the token
// generator itself emits (prefers-color-scheme, min-width and the like).
type MediaQuery struct {
	Raw     string // original media query string
	Feature string // feature name, e.g. "prefers-color-scheme"
	Value   string // feature value, e.g. "dark"
}

// SchemeQuery builds a prefers-color-scheme media query for the given scheme.
func SchemeQuery(scheme string) MediaQuery {
	return MediaQuery{
		Raw:     fmt.Sprintf("(prefers-color-scheme: %s)", scheme),
		Feature: "prefers-color-scheme",
		Value:   scheme,
	}
}

// Value represents a parsed CSS property value.
type Value struct {
	Raw     string  // original CSS value string (e.g., "1.2em", "bold", "#ff0000")
	Value   float64 // numeric value if applicable
	Unit    string  // unit if applicable: "em", "px", "%", "rem", etc.
	Keyword string  // keyword if applicable: "bold", "italic", "center", etc.
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	if v.Raw != "" && v.Keyword == "" {
		first := rune(v.Raw[0])
		if unicode.IsDigit(first) || first == '.' || first == '-' || first == '+' {
			return true
		}
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Selector represents a parsed CSS selector with its components.
type Selector struct {
	Raw     string // original selector string
	Element string // element name (e.g., "a", "button") or empty for class-only
	Class   string // class name without dot (e.g., "icon-arrow") or empty
}

// IsSimple returns true if this is a simple selector (element, class, or element.class).
func (s Selector) IsSimple() bool {
	return s.Element != "" || s.Class != ""
}

// RootSelector is the selector carrying document-level custom properties.
func RootSelector() Selector {
	return Selector{Raw: ":root"}
}

// AttrSelector builds an attribute selector like [data-theme="dark"].
func AttrSelector(attr, value string) Selector {
	return Selector{Raw: fmt.Sprintf(`[%s=%q]`, attr, value)}
}

// Rule represents a single CSS rule: a selector with plain property
// declarations and custom-property declarations.
type Rule struct {
	Selector   Selector
	Properties map[string]Value  // property name -> value
	Custom     map[string]string // custom property name (with leading --) -> raw value
}

// GetProperty returns the value for a property, or empty Value if not found.
func (r Rule) GetProperty(name string) (Value, bool) {
	v, ok := r.Properties[name]
	return v, ok
}

// SetCustom records a custom-property declaration on the rule. The leading
// "--" is added when missing.
func (r *Rule) SetCustom(name, value string) {
	if !strings.HasPrefix(name, "--") {
		name = "--" + name
	}
	if r.Custom == nil {
		r.Custom = make(map[string]string)
	}
	r.Custom[name] = value
}

// FontFace represents an @font-face declaration.
type FontFace struct {
	Family string // font-family value
	Src    string // src value (URL or local reference)
	Style  string // font-style: normal, italic
	Weight string // font-weight: normal, bold, 400, 700
}

// MediaBlock represents a @media block with its query and nested rules.
type MediaBlock struct {
	Query MediaQuery
	Rules []Rule
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Rule, MediaBlock, FontFace or Import is non-nil.
type StylesheetItem struct {
	Rule       *Rule
	MediaBlock *MediaBlock
	FontFace   *FontFace
	Import     *string
}

// Stylesheet represents a CSS stylesheet, parsed or under construction.
type Stylesheet struct {
	Items    []StylesheetItem // all top-level items in source order
	Warnings []string         // warnings for unsupported features
}

// AddRule appends a plain rule to the stylesheet.
func (s *Stylesheet) AddRule(r Rule) {
	s.Items = append(s.Items, StylesheetItem{Rule: &r})
}

// AddMediaBlock appends a @media block to the stylesheet.
func (s *Stylesheet) AddMediaBlock(mb MediaBlock) {
	s.Items = append(s.Items, StylesheetItem{MediaBlock: &mb})
}

// AddFontFace appends an @font-face declaration to the stylesheet.
func (s *Stylesheet) AddFontFace(ff FontFace) {
	s.Items = append(s.Items, StylesheetItem{FontFace: &ff})
}

// Imports returns all @import URLs from the stylesheet in source order.
func (s *Stylesheet) Imports() []string {
	var urls []string
	for _, item := range s.Items {
		if item.Import != nil {
			urls = append(urls, *item.Import)
		}
	}
	return urls
}

// ClassNames returns every class name used by rule selectors, including
// rules nested in @media blocks, deduplicated and sorted.
func (s *Stylesheet) ClassNames() []string {
	seen := make(map[string]struct{})
	add := func(r *Rule) {
		if r.Selector.Class != "" {
			seen[r.Selector.Class] = struct{}{}
		}
	}
	for _, item := range s.Items {
		switch {
		case item.Rule != nil:
			add(item.Rule)
		case item.MediaBlock != nil:
			for i := range item.MediaBlock.Rules {
				add(&item.MediaBlock.Rules[i])
			}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RulesBySelector returns all top-level rules matching the given selector string.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var matches []Rule
	for _, item := range s.Items {
		if item.Rule != nil && item.Rule.Selector.Raw == selector {
			matches = append(matches, *item.Rule)
		}
	}
	return matches
}

// Filter returns a new stylesheet keeping only rules for which keep returns
// true. @font-face and @import items always survive; @media blocks are
// filtered rule by rule and dropped when they end up empty.
func (s *Stylesheet) Filter(keep func(Rule) bool) *Stylesheet {
	out := &Stylesheet{}
	for _, item := range s.Items {
		switch {
		case item.Rule != nil:
			if keep(*item.Rule) {
				out.AddRule(*item.Rule)
			}
		case item.MediaBlock != nil:
			var kept []Rule
			for _, r := range item.MediaBlock.Rules {
				if keep(r) {
					kept = append(kept, r)
				}
			}
			if len(kept) > 0 {
				out.AddMediaBlock(MediaBlock{Query: item.MediaBlock.Query, Rules: kept})
			}
		case item.FontFace != nil:
			out.AddFontFace(*item.FontFace)
		case item.Import != nil:
			url := *item.Import
			out.Items = append(out.Items, StylesheetItem{Import: &url})
		}
	}
	return out
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
// Plain properties are sorted alphabetically and custom properties in natural
// order so output is deterministic and diffs stay stable.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, item := range s.Items {
		var n int
		var err error

		switch {
		case item.Import != nil:
			n, err = fmt.Fprintf(w, "@import url(\"%s\");\n", cssEscapeDoubleQuoted(*item.Import))
		case item.FontFace != nil:
			n, err = writeFontFace(w, item.FontFace)
		case item.MediaBlock != nil:
			n, err = writeMediaBlock(w, item.MediaBlock)
		case item.Rule != nil:
			n, err = writeRule(w, item.Rule, "")
		}

		total += int64(n)
		if err != nil {
			return total, err
		}

		// blank line between items, except after the last one
		if i < len(s.Items)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func writeRule(w io.Writer, rule *Rule, indent string) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s%s {\n", indent, rule.Selector.Raw)
	total += n
	if err != nil {
		return total, err
	}
	n, err = writeDeclarations(w, rule, indent+"  ")
	total += n
	if err != nil {
		return total, err
	}
	n, err = fmt.Fprintf(w, "%s}\n", indent)
	total += n
	return total, err
}

// writeDeclarations writes custom properties first (natural sort, so
// --ds-space-2 comes before --ds-space-10), then plain properties sorted
// alphabetically.
func writeDeclarations(w io.Writer, rule *Rule, indent string) (int, error) {
	var total int

	custom := make([]string, 0, len(rule.Custom))
	for name := range rule.Custom {
		custom = append(custom, name)
	}
	sort.Sort(natural.StringSlice(custom))
	for _, name := range custom {
		n, err := fmt.Fprintf(w, "%s%s: %s;\n", indent, name, rule.Custom[name])
		total += n
		if err != nil {
			return total, err
		}
	}

	names := make([]string, 0, len(rule.Properties))
	for name := range rule.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		n, err := fmt.Fprintf(w, "%s%s: %s;\n", indent, name, rule.Properties[name].Raw)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func writeFontFace(w io.Writer, ff *FontFace) (int, error) {
	var total int
	n, err := fmt.Fprint(w, "@font-face {\n")
	total += n
	if err != nil {
		return total, err
	}

	// stable order
	if ff.Family != "" {
		n, err = fmt.Fprintf(w, "  font-family: \"%s\";\n", cssEscapeDoubleQuoted(ff.Family))
		total += n
		if err != nil {
			return total, err
		}
	}
	if ff.Src != "" {
		n, err = fmt.Fprintf(w, "  src: %s;\n", ff.Src)
		total += n
		if err != nil {
			return total, err
		}
	}
	if ff.Style != "" {
		n, err = fmt.Fprintf(w, "  font-style: %s;\n", ff.Style)
		total += n
		if err != nil {
			return total, err
		}
	}
	if ff.Weight != "" {
		n, err = fmt.Fprintf(w, "  font-weight: %s;\n", ff.Weight)
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

func writeMediaBlock(w io.Writer, mb *MediaBlock) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "@media %s {\n", mb.Query.Raw)
	total += n
	if err != nil {
		return total, err
	}

	for i := range mb.Rules {
		n, err = writeRule(w, &mb.Rules[i], "  ")
		total += n
		if err != nil {
			return total, err
		}

		if i < len(mb.Rules)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += n
			if err != nil {
				return total, err
			}
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

package css

import (
	"bytes"
	"maps"
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into structured rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Items:    make([]StylesheetItem, 0),
		Warnings: make([]string, 0),
	}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			// end of input or error
			if parser.Err() != nil && parser.Err().Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.Error(parser.Err()))
			}
			return sheet

		case css.BeginAtRuleGrammar:
			atRule := string(data)
			switch atRule {
			case "@media":
				mq := parseMediaQueryFromTokens(parser.Values())
				rules := p.parseMediaBlockRules(parser, sheet)
				p.log.Debug("Parsed @media block", zap.String("query", mq.Raw), zap.Int("rules", len(rules)))
				sheet.Items = append(sheet.Items, StylesheetItem{
					MediaBlock: &MediaBlock{Query: mq, Rules: rules},
				})
			case "@font-face":
				ff := p.parseFontFace(parser)
				sheet.Items = append(sheet.Items, StylesheetItem{FontFace: &ff})
			default:
				p.skipAtRuleBlock(parser)
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case css.AtRuleGrammar:
			// simple @-rule without block (e.g., @import)
			atRule := string(data)
			if atRule == "@import" {
				url := extractImportURL(parser.Values())
				if url != "" {
					sheet.Items = append(sheet.Items, StylesheetItem{Import: &url})
					p.log.Debug("Parsed @import", zap.String("url", url))
				}
			} else {
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case css.BeginRulesetGrammar:
			selectors := p.parseSelectors(data, parser.Values())
			rule := p.parseDeclarations(parser)

			// one rule per selector, declarations cloned
			for _, selStr := range selectors {
				sel := p.parseSelector(selStr, sheet)
				r := Rule{Selector: sel}
				if len(rule.Properties) > 0 {
					r.Properties = make(map[string]Value, len(rule.Properties))
					maps.Copy(r.Properties, rule.Properties)
				}
				if len(rule.Custom) > 0 {
					r.Custom = make(map[string]string, len(rule.Custom))
					maps.Copy(r.Custom, rule.Custom)
				}
				sheet.Items = append(sheet.Items, StylesheetItem{Rule: &r})
			}
		}
	}
}

// extractImportURL extracts the URL from @import tokens.
// Handles: @import "url"; @import url("url"); @import url(url);
func extractImportURL(tokens []css.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			// url(something) - the token data is the full url(...) string
			s := string(t.Data)
			s = strings.TrimPrefix(s, "url(")
			s = strings.TrimSuffix(s, ")")
			return unquote(strings.TrimSpace(s))
		}
	}
	return ""
}

// parseSelectors extracts selector strings from token data.
func (p *Parser) parseSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	// split by comma for grouped selectors
	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// parseDeclarations parses plain and custom property declarations until
// EndRulesetGrammar.
func (p *Parser) parseDeclarations(parser *css.Parser) Rule {
	var rule Rule

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return rule

		case css.DeclarationGrammar:
			if rule.Properties == nil {
				rule.Properties = make(map[string]Value)
			}
			if values := parser.Values(); len(values) > 0 {
				rule.Properties[string(data)] = parsePropertyValue(values)
			}

		case css.CustomPropertyGrammar:
			rule.SetCustom(string(data), rawTokenValue(parser.Values()))
		}
	}
}

// rawTokenValue joins tokens back into a single-space-normalized string.
func rawTokenValue(tokens []css.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// parsePropertyValue converts CSS tokens to a Value.
func parsePropertyValue(tokens []css.Token) Value {
	if len(tokens) == 0 {
		return Value{}
	}

	val := Value{Raw: rawTokenValue(tokens)}

	// single token cases
	if len(tokens) == 1 || (len(tokens) == 2 && tokens[1].TokenType == css.WhitespaceToken) {
		t := tokens[0]
		switch t.TokenType {
		case css.DimensionToken:
			val.Value, val.Unit = parseDimension(string(t.Data))
		case css.PercentageToken:
			val.Value, _ = strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
			val.Unit = "%"
		case css.NumberToken:
			val.Value, _ = strconv.ParseFloat(string(t.Data), 64)
		case css.IdentToken:
			val.Keyword = strings.ToLower(string(t.Data))
		case css.StringToken:
			val.Keyword = unquote(string(t.Data))
		case css.HashToken:
			// color value
			val.Keyword = string(t.Data)
		}
		return val
	}

	// function tokens (var(), rgb(), url(), ...) and multi-value properties
	// keep the raw value as keyword
	val.Keyword = val.Raw
	return val
}

// parseDimension extracts numeric value and unit from a dimension token.
func parseDimension(s string) (float64, string) {
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}
	if numEnd == 0 {
		return 0, ""
	}

	num, _ := strconv.ParseFloat(s[:numEnd], 64)
	return num, strings.ToLower(s[numEnd:])
}

// parseSelector parses a single selector string into a Selector. Anything
// beyond element/class selectors (combinators, attributes, pseudo-classes)
// keeps only its raw form and produces a warning - the bundle minimizer
// matches on class names and leaves such rules alone.
func (p *Parser) parseSelector(selStr string, sheet *Stylesheet) Selector {
	selStr = strings.TrimSpace(selStr)
	sel := Selector{Raw: selStr}

	if strings.ContainsAny(selStr, "+~>[]: \t\n") {
		sheet.Warnings = append(sheet.Warnings, "opaque selector: "+selStr)
		p.log.Debug("Keeping selector opaque", zap.String("selector", selStr))
		return sel
	}

	if element, class, found := strings.Cut(selStr, "."); found {
		if element != "" {
			sel.Element = element
		}
		// only the first class of a chained selector names the rule
		if first, _, chained := strings.Cut(class, "."); chained {
			sel.Class = first
			sheet.Warnings = append(sheet.Warnings, "chained class selector: "+selStr)
		} else {
			sel.Class = class
		}
	} else {
		sel.Element = selStr
	}

	return sel
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// parseFontFace parses an @font-face block.
func (p *Parser) parseFontFace(parser *css.Parser) FontFace {
	ff := FontFace{}

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return ff

		case css.DeclarationGrammar:
			values := parser.Values()
			if len(values) == 0 {
				continue
			}
			var parts []string
			for _, v := range values {
				if v.TokenType != css.WhitespaceToken {
					parts = append(parts, string(v.Data))
				}
			}
			valStr := strings.Join(parts, " ")

			switch string(data) {
			case "font-family":
				ff.Family = unquote(valStr)
			case "src":
				ff.Src = valStr
			case "font-style":
				ff.Style = valStr
			case "font-weight":
				ff.Weight = valStr
			}
		}
	}
}

// parseMediaQueryFromTokens keeps the raw media query and, for single
// feature queries like "(prefers-color-scheme: dark)", extracts the
// feature name and value.
func parseMediaQueryFromTokens(tokens []css.Token) MediaQuery {
	mq := MediaQuery{Raw: rawTokenValue(tokens)}

	var idents []string
	for _, t := range tokens {
		switch t.TokenType {
		case css.IdentToken, css.NumberToken, css.DimensionToken:
			idents = append(idents, strings.ToLower(string(t.Data)))
		}
	}
	if len(idents) == 2 {
		mq.Feature, mq.Value = idents[0], idents[1]
	}
	return mq
}

// parseMediaBlockRules parses rules inside an @media block and returns them
// for the caller to wrap in a MediaBlock.
func (p *Parser) parseMediaBlockRules(parser *css.Parser, sheet *Stylesheet) []Rule {
	var rules []Rule

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return rules

		case css.BeginRulesetGrammar:
			selectors := p.parseSelectors(data, parser.Values())
			rule := p.parseDeclarations(parser)

			for _, selStr := range selectors {
				sel := p.parseSelector(selStr, sheet)
				r := Rule{Selector: sel}
				if len(rule.Properties) > 0 {
					r.Properties = make(map[string]Value, len(rule.Properties))
					maps.Copy(r.Properties, rule.Properties)
				}
				if len(rule.Custom) > 0 {
					r.Custom = make(map[string]string, len(rule.Custom))
					maps.Copy(r.Custom, rule.Custom)
				}
				rules = append(rules, r)
			}
		}
	}
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

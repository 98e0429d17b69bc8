// Package css loads the optional user stylesheet with document wide style
// overrides.
package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"ttc/convert/ttml"
	"ttc/model"
	"ttc/model/styles"
)

// Overrides replace registry initial values for the whole document.
type Overrides map[styles.Property]styles.Value

// properties we accept, keyed by their CSS names
var supported = map[string]string{
	"color":            "color",
	"background-color": "backgroundColor",
	"font-family":      "fontFamily",
	"font-size":        "fontSize",
	"font-style":       "fontStyle",
	"font-weight":      "fontWeight",
	"text-align":       "textAlign",
}

// Parser parses override stylesheets.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new stylesheet parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css")}
}

// Parse collects declarations addressed to the document root. Unsupported
// selectors, properties and malformed values are logged and skipped, only
// broken CSS syntax is an error.
func (p *Parser) Parse(data []byte) (Overrides, error) {
	out := make(Overrides)

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	applies := false
	for {
		gt, _, tok := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("unable to parse stylesheet: %w", err)
			}
			return out, nil

		case css.BeginAtRuleGrammar:
			p.log.Debug("Ignoring at-rule block", zap.String("rule", string(tok)))
			p.skipBlock(parser)

		case css.AtRuleGrammar:
			p.log.Debug("Ignoring at-rule", zap.String("rule", string(tok)))

		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			applies = p.selectorApplies(tok, parser.Values())

		case css.DeclarationGrammar:
			if !applies {
				continue
			}
			p.declaration(string(tok), parser.Values(), out)

		case css.EndRulesetGrammar:
			applies = false
		}
	}
}

// Apply sets the collected overrides on the document.
func Apply(doc *model.Document, o Overrides) error {
	for prop, val := range o {
		if err := doc.SetInitialValue(prop, val); err != nil {
			return fmt.Errorf("unable to override %s: %w", prop, err)
		}
	}
	return nil
}

// selectorApplies reports whether any selector in the group addresses the
// document root. There is no box tree to match against, so anything more
// specific is ignored.
func (p *Parser) selectorApplies(data []byte, values []css.Token) bool {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	for sel := range strings.SplitSeq(sb.String(), ",") {
		switch strings.ToLower(strings.TrimSpace(sel)) {
		case "tt", "body", "*", ":root":
			return true
		default:
			p.log.Debug("Ignoring selector", zap.String("selector", strings.TrimSpace(sel)))
		}
	}
	return false
}

func (p *Parser) declaration(name string, tokens []css.Token, out Overrides) {
	attr, ok := supported[strings.ToLower(name)]
	if !ok {
		p.log.Debug("Ignoring unsupported property", zap.String("property", name))
		return
	}

	raw := tokensString(tokens)
	prop, val, err := ttml.ParseStyleAttribute(attr, raw)
	if err != nil {
		p.log.Warn("Ignoring style override", zap.String("property", name), zap.String("value", raw), zap.Error(err))
		return
	}
	out[prop] = val
}

func tokensString(tokens []css.Token) string {
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

// skipBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipBlock(parser *css.Parser) {
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

// internal/style/shadow.go
package style

import (
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Shadow is one entry of a box-shadow list.
type Shadow struct {
	Inset   bool
	OffsetX float64
	OffsetY float64
	Blur    float64
	Spread  float64
	Color   RGB
	Alpha   float64
}

type shadowToken struct {
	tt   css.TokenType
	text string
}

// ParseShadows parses a computed box-shadow value. Commas inside color
// functions do not split entries. Entries without a usable color or with
// fewer than two lengths are dropped.
func ParseShadows(value string) []Shadow {
	value = strings.TrimSpace(value)
	if value == "" || value == "none" {
		return nil
	}

	var shadows []Shadow
	for _, entry := range splitTopLevel(value) {
		if s, ok := parseShadowEntry(entry); ok {
			shadows = append(shadows, s)
		}
	}
	return shadows
}

// splitTopLevel lexes value and groups its tokens by commas at paren depth 0.
func splitTopLevel(value string) [][]shadowToken {
	l := css.NewLexer(parse.NewInputString(value))
	var (
		entries [][]shadowToken
		current []shadowToken
		depth   int
	)
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			break
		}
		switch tt {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			if depth > 0 {
				depth--
			}
		case css.CommaToken:
			if depth == 0 {
				entries = append(entries, current)
				current = nil
				continue
			}
		}
		current = append(current, shadowToken{tt: tt, text: string(data)})
	}
	return append(entries, current)
}

func parseShadowEntry(tokens []shadowToken) (Shadow, bool) {
	var (
		s        Shadow
		nums     []float64
		colorSrc string
	)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.tt {
		case css.IdentToken:
			if strings.EqualFold(tok.text, "inset") {
				s.Inset = true
			} else if colorSrc == "" {
				colorSrc = tok.text
			}
		case css.HashToken:
			if colorSrc == "" {
				colorSrc = tok.text
			}
		case css.FunctionToken:
			// Collect the whole function, including nested parens.
			var b strings.Builder
			depth := 0
		fn:
			for ; i < len(tokens); i++ {
				b.WriteString(tokens[i].text)
				switch tokens[i].tt {
				case css.FunctionToken, css.LeftParenthesisToken:
					depth++
				case css.RightParenthesisToken:
					depth--
					if depth == 0 {
						break fn
					}
				}
			}
			if colorSrc == "" {
				colorSrc = b.String()
			}
		case css.NumberToken, css.DimensionToken:
			if len(nums) < 4 {
				if v, ok := leadingNumber(tok.text); ok {
					nums = append(nums, v)
				}
			}
		}
	}

	if len(nums) < 2 {
		return Shadow{}, false
	}
	paint := ParsePaint(colorSrc)
	if paint == nil {
		return Shadow{}, false
	}
	for len(nums) < 4 {
		nums = append(nums, 0)
	}
	s.OffsetX, s.OffsetY, s.Blur, s.Spread = nums[0], nums[1], nums[2], nums[3]
	s.Color = paint.RGB
	s.Alpha = paint.Alpha
	return s, true
}

// leadingNumber parses the numeric prefix of a number or dimension token.
func leadingNumber(s string) (float64, bool) {
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' {
			end++
			continue
		}
		if (c == 'e' || c == 'E') && end+1 < len(s) && (s[end+1] >= '0' && s[end+1] <= '9' || s[end+1] == '-' || s[end+1] == '+') {
			end++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

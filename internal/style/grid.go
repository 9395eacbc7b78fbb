// internal/style/grid.go
package style

import (
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

type gridToken struct {
	tt   css.TokenType
	text string
}

// lexGridTracks lexes a track list, dropping whitespace and comments.
func lexGridTracks(value string) []gridToken {
	l := css.NewLexer(parse.NewInputString(value))
	var tokens []gridToken
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			return tokens
		}
		if tt == css.WhitespaceToken || tt == css.CommentToken {
			continue
		}
		tokens = append(tokens, gridToken{tt: tt, text: strings.ToLower(string(data))})
	}
}

// groupEnd returns the index just past the bracket or paren that closes the
// group opened at tokens[start], or len(tokens) when it is never closed.
func groupEnd(tokens []gridToken, start int) int {
	depth := 0
	for i := start; i < len(tokens); i++ {
		switch tokens[i].tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(tokens)
}

// groupBody returns the tokens between the opener at start and its closer.
func groupBody(tokens []gridToken, start, end int) []gridToken {
	if end-1 > start && end <= len(tokens) && tokens[end-1].tt == css.RightParenthesisToken {
		return tokens[start+1 : end-1]
	}
	return tokens[start+1 : end]
}

func countTracks(tokens []gridToken) int {
	count := 0
	for i := 0; i < len(tokens); {
		t := tokens[i]
		switch t.tt {
		case css.LeftBracketToken:
			// [line-names]
			i = groupEnd(tokens, i)
		case css.FunctionToken, css.LeftParenthesisToken:
			end := groupEnd(tokens, i)
			if t.text == "repeat(" {
				count += repeatedTracks(groupBody(tokens, i, end))
			} else {
				count++
			}
			i = end
		case css.CommaToken, css.RightParenthesisToken, css.RightBracketToken:
			i++
		default:
			count++
			i++
		}
	}
	return count
}

// repeatedTracks expands the body of repeat(N, tracks). auto-fill and
// auto-fit count their track list once.
func repeatedTracks(body []gridToken) int {
	comma := -1
	for i := 0; i < len(body) && comma < 0; {
		switch body[i].tt {
		case css.CommaToken:
			comma = i
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			i = groupEnd(body, i)
			continue
		}
		i++
	}
	if comma != 1 {
		return 0
	}

	times := 1
	switch head := body[0]; head.tt {
	case css.NumberToken:
		n, err := strconv.Atoi(head.text)
		if err != nil || n <= 0 {
			return 0
		}
		times = n
	case css.IdentToken:
		if head.text != "auto-fill" && head.text != "auto-fit" {
			return 0
		}
	default:
		return 0
	}
	return times * countTracks(body[comma+1:])
}

// GridColumnCount counts the column tracks of grid-template-columns with
// repeat(N, ...) expanded. Line names are not tracks. "none" counts as one.
func GridColumnCount(c Computed) int {
	value := c.Lookup(GridTemplateColumns, "none")
	if value == "none" {
		return 1
	}
	if count := countTracks(lexGridTracks(value)); count > 0 {
		return count
	}
	return 1
}

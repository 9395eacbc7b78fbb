// internal/generate/extract.go
package generate

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var fenceRegex = regexp.MustCompile("(?s)```[ \t]*([A-Za-z0-9_-]*)[ \t]*\r?\n(.*?)```")

// ExtractHTML pulls the HTML document out of a model response. It prefers a
// fenced block tagged html, then any fenced block that looks like markup,
// then a bare document in the text.
func ExtractHTML(response string) (string, error) {
	var candidates []string
	for _, m := range fenceRegex.FindAllStringSubmatch(response, -1) {
		lang, body := strings.ToLower(m[1]), strings.TrimSpace(m[2])
		if lang == "html" {
			candidates = append([]string{body}, candidates...)
			continue
		}
		candidates = append(candidates, body)
	}
	if bare := bareDocument(response); bare != "" {
		candidates = append(candidates, bare)
	}

	for _, c := range candidates {
		if looksLikePage(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("no html document found in model response")
}

// bareDocument returns the text from the doctype or <html> tag through the
// last </html>, or "".
func bareDocument(s string) string {
	lower := strings.ToLower(s)
	start := strings.Index(lower, "<!doctype html")
	if start < 0 {
		start = strings.Index(lower, "<html")
	}
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(lower, "</html>")
	if end < start {
		return strings.TrimSpace(s[start:])
	}
	return strings.TrimSpace(s[start : end+len("</html>")])
}

// looksLikePage reports whether s parses to a document with at least one
// element in its body.
func looksLikePage(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return false
	}
	body := findBody(doc)
	if body == nil {
		return false
	}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// internal/browser/prepare.go
package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Prepared is an HTML input ready to be loaded into a tab.
type Prepared struct {
	HTML  string
	Title string
	// HasBody is false when the body holds nothing but whitespace.
	HasBody bool
}

// PrepareHTML checks that raw parses as HTML and extracts its title.
func PrepareHTML(raw string) (Prepared, error) {
	if strings.TrimSpace(raw) == "" {
		return Prepared{}, fmt.Errorf("html input is empty")
	}
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return Prepared{}, fmt.Errorf("failed to parse html input: %w", err)
	}

	p := Prepared{HTML: raw}
	if t := findElement(root, atom.Title); t != nil {
		p.Title = strings.Join(strings.Fields(textContent(t)), " ")
	}
	if body := findElement(root, atom.Body); body != nil {
		p.HasBody = hasContent(body)
	}
	return p, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func hasContent(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			return true
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return true
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}

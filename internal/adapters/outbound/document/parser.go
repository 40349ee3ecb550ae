// Package document builds a navigable HTML document tree for structural checks.
package document

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/assetlint/assetlint/internal/domain"
)

// HTMLParser implements domain.DocumentParser with golang.org/x/net/html.
// Like a browser it synthesizes missing html, head and body elements, so
// those checks only fail for documents it could not normalize.
type HTMLParser struct{}

func New() *HTMLParser {
	return &HTMLParser{}
}

// Parse fails for content that is not valid UTF-8 or that the parser rejects.
func (p *HTMLParser) Parse(content string) (domain.Document, error) {
	if !utf8.ValidString(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", domain.ErrDocumentParse)
	}

	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentParse, err)
	}
	return &Document{root: root}, nil
}

// Document wraps a parsed node tree.
type Document struct {
	root *html.Node
}

func (d *Document) HasDoctype() bool {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			return true
		}
	}
	return false
}

func (d *Document) RootElements() []string {
	var names []string
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			names = append(names, c.Data)
		}
	}
	return names
}

func (d *Document) HasElement(tag string) bool {
	a := atom.Lookup([]byte(strings.ToLower(tag)))
	found := false
	d.walk(func(n *html.Node) bool {
		if n.Type == html.ElementNode && (n.DataAtom == a && a != 0 || strings.EqualFold(n.Data, tag)) {
			found = true
		}
		return !found
	})
	return found
}

func (d *Document) IDs() []string {
	var ids []string
	d.walk(func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		for _, attr := range n.Attr {
			if attr.Namespace == "" && attr.Key == "id" {
				ids = append(ids, attr.Val)
				break
			}
		}
		return true
	})
	return ids
}

// walk visits nodes depth-first in document order until visit returns false.
func (d *Document) walk(visit func(*html.Node) bool) {
	stack := []*html.Node{d.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(n) {
			return
		}
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
}

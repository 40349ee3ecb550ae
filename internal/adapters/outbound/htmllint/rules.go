package htmllint

import (
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

type finding struct {
	line, column int
	message      string
}

type ruleContext struct {
	src      []byte
	findings []finding
}

func (c *ruleContext) text(n *sitter.Node) string { return n.Content(c.src) }

func (c *ruleContext) report(n *sitter.Node, format string, args ...any) {
	p := n.StartPoint()
	c.reportAt(int(p.Row)+1, runeColumn(c.src, n.StartByte(), p), format, args...)
}

// runeColumn converts a tree-sitter byte column into a 1-based character column.
func runeColumn(src []byte, offset uint32, p sitter.Point) int {
	end := int(offset)
	start := end - int(p.Column)
	if start < 0 || end > len(src) {
		return int(p.Column) + 1
	}
	return utf8.RuneCount(src[start:end]) + 1
}

func (c *ruleContext) reportAt(line, column int, format string, args ...any) {
	c.findings = append(c.findings, finding{line: line, column: column, message: fmt.Sprintf(format, args...)})
}

type rule func(c *ruleContext, root *sitter.Node)

var catalog = map[string]rule{
	"attr-case":              attrCase,
	"no-dup-attr":            noDupAttr,
	"no-inline-style":        noInlineStyle,
	"deprecated":             deprecatedElement,
	"wcag/h37":               imgAlt,
	"close-order":            closeOrder,
	"empty-title":            emptyTitle,
	"no-trailing-whitespace": noTrailingWhitespace,
	"parser-error":           parserError,
}

func walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if !visit(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

// eachTag calls fn for every start or self-closing tag with its lowercase name.
func eachTag(c *ruleContext, root *sitter.Node, fn func(tag *sitter.Node, name string)) {
	walk(root, func(n *sitter.Node) bool {
		if t := n.Type(); t == "start_tag" || t == "self_closing_tag" {
			fn(n, strings.ToLower(tagName(c, n)))
		}
		return true
	})
}

func tagName(c *ruleContext, tag *sitter.Node) string {
	for i := 0; i < int(tag.NamedChildCount()); i++ {
		if child := tag.NamedChild(i); child.Type() == "tag_name" {
			return c.text(child)
		}
	}
	return ""
}

func attributes(tag *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(tag.NamedChildCount()); i++ {
		if child := tag.NamedChild(i); child.Type() == "attribute" {
			out = append(out, child)
		}
	}
	return out
}

func attrName(attr *sitter.Node) *sitter.Node {
	for i := 0; i < int(attr.NamedChildCount()); i++ {
		if child := attr.NamedChild(i); child.Type() == "attribute_name" {
			return child
		}
	}
	return nil
}

// inForeignContent reports whether tag sits inside svg or math, where
// attribute names are case-sensitive.
func inForeignContent(c *ruleContext, tag *sitter.Node) bool {
	for p := tag.Parent(); p != nil; p = p.Parent() {
		if p.Type() != "element" || p.NamedChildCount() == 0 {
			continue
		}
		switch strings.ToLower(tagName(c, p.NamedChild(0))) {
		case "svg", "math":
			return true
		}
	}
	return false
}

func attrCase(c *ruleContext, root *sitter.Node) {
	eachTag(c, root, func(tag *sitter.Node, _ string) {
		if inForeignContent(c, tag) {
			return
		}
		for _, attr := range attributes(tag) {
			name := attrName(attr)
			if name == nil {
				continue
			}
			if text := c.text(name); text != strings.ToLower(text) {
				c.report(name, "Attribute %q should be lowercase", text)
			}
		}
	})
}

func noDupAttr(c *ruleContext, root *sitter.Node) {
	eachTag(c, root, func(tag *sitter.Node, _ string) {
		seen := make(map[string]bool)
		for _, attr := range attributes(tag) {
			name := attrName(attr)
			if name == nil {
				continue
			}
			key := strings.ToLower(c.text(name))
			if seen[key] {
				c.report(name, "Attribute %q duplicated", key)
			}
			seen[key] = true
		}
	})
}

func noInlineStyle(c *ruleContext, root *sitter.Node) {
	eachTag(c, root, func(tag *sitter.Node, _ string) {
		for _, attr := range attributes(tag) {
			if name := attrName(attr); name != nil && strings.EqualFold(c.text(name), "style") {
				c.report(name, "Inline style is not allowed")
			}
		}
	})
}

var deprecatedTags = map[string]bool{
	"acronym": true, "applet": true, "basefont": true, "bgsound": true, "big": true,
	"blink": true, "center": true, "dir": true, "font": true, "frame": true,
	"frameset": true, "isindex": true, "keygen": true, "listing": true, "marquee": true,
	"nextid": true, "noembed": true, "noframes": true, "plaintext": true, "spacer": true,
	"strike": true, "tt": true, "xmp": true,
}

func deprecatedElement(c *ruleContext, root *sitter.Node) {
	eachTag(c, root, func(tag *sitter.Node, name string) {
		if deprecatedTags[name] {
			c.report(tag, "<%s> is deprecated", name)
		}
	})
}

func imgAlt(c *ruleContext, root *sitter.Node) {
	eachTag(c, root, func(tag *sitter.Node, name string) {
		if name != "img" {
			return
		}
		for _, attr := range attributes(tag) {
			if n := attrName(attr); n != nil && strings.EqualFold(c.text(n), "alt") {
				return
			}
		}
		c.report(tag, `<img> is missing required "alt" attribute`)
	})
}

func closeOrder(c *ruleContext, root *sitter.Node) {
	walk(root, func(n *sitter.Node) bool {
		if n.Type() != "erroneous_end_tag" {
			return true
		}
		name := ""
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); child.Type() == "erroneous_end_tag_name" {
				name = strings.ToLower(c.text(child))
			}
		}
		c.report(n, "Stray end tag '</%s>'", name)
		return false
	})
}

func emptyTitle(c *ruleContext, root *sitter.Node) {
	walk(root, func(n *sitter.Node) bool {
		if n.Type() != "element" || n.NamedChildCount() == 0 {
			return true
		}
		start := n.NamedChild(0)
		if start.Type() != "start_tag" || !strings.EqualFold(tagName(c, start), "title") {
			return true
		}
		var text strings.Builder
		for i := 1; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); child.Type() != "end_tag" {
				text.WriteString(c.text(child))
			}
		}
		if strings.TrimSpace(text.String()) == "" {
			c.report(start, "<title> cannot be empty, must have text content")
		}
		return false
	})
}

func noTrailingWhitespace(c *ruleContext, _ *sitter.Node) {
	for i, line := range strings.Split(string(c.src), "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimRight(line, " \t")
		if len(trimmed) < len(line) {
			c.reportAt(i+1, utf8.RuneCountInString(trimmed)+1, "Trailing whitespace")
		}
	}
}

func parserError(c *ruleContext, root *sitter.Node) {
	walk(root, func(n *sitter.Node) bool {
		switch {
		case n.IsMissing():
			c.report(n, "Missing %s", n.Type())
			return false
		case n.IsError():
			near := strings.TrimSpace(c.text(n))
			if len(near) > 30 {
				near = near[:30]
			}
			c.report(n, "Unable to parse markup near %q", near)
			return false
		}
		return true
	})
}

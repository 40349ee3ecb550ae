package jslint

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fatih/camelcase"
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
	c.findings = append(c.findings, finding{
		line:    int(n.StartPoint().Row) + 1,
		column:  runeColumn(c.src, n.StartByte(), n.StartPoint()),
		message: fmt.Sprintf(format, args...),
	})
}

func (c *ruleContext) reportAfter(n *sitter.Node, format string, args ...any) {
	c.findings = append(c.findings, finding{
		line:    int(n.EndPoint().Row) + 1,
		column:  runeColumn(c.src, n.EndByte(), n.EndPoint()),
		message: fmt.Sprintf(format, args...),
	})
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

type rule func(c *ruleContext, root *sitter.Node)

var catalog = map[string]rule{
	"no-unused-vars": noUnusedVars,
	"no-var":         noVar,
	"eqeqeq":         eqeqeq,
	"no-debugger":    noDebugger,
	"no-console":     noConsole,
	"no-empty":       noEmpty,
	"no-dupe-keys":   noDupeKeys,
	"camelcase":      camelCase,
	"semi":           semi,
}

// walk visits n and all of its descendants, named or not, in document order.
func walk(n *sitter.Node, visit func(*sitter.Node)) {
	visit(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

func noVar(c *ruleContext, root *sitter.Node) {
	walk(root, func(n *sitter.Node) {
		if n.Type() == "variable_declaration" {
			c.report(n, "Unexpected var, use let or const instead.")
		}
	})
}

func eqeqeq(c *ruleContext, root *sitter.Node) {
	walk(root, func(n *sitter.Node) {
		if n.Type() != "binary_expression" {
			return
		}
		op := n.ChildByFieldName("operator")
		if op == nil {
			return
		}
		switch op.Type() {
		case "==":
			c.report(op, "Expected '===' and instead saw '=='.")
		case "!=":
			c.report(op, "Expected '!==' and instead saw '!='.")
		}
	})
}

func noDebugger(c *ruleContext, root *sitter.Node) {
	walk(root, func(n *sitter.Node) {
		if n.Type() == "debugger_statement" {
			c.report(n, "Unexpected 'debugger' statement.")
		}
	})
}

func noConsole(c *ruleContext, root *sitter.Node) {
	walk(root, func(n *sitter.Node) {
		if n.Type() != "call_expression" {
			return
		}
		fn := n.ChildByFieldName("function")
		if fn == nil || fn.Type() != "member_expression" {
			return
		}
		obj := fn.ChildByFieldName("object")
		if obj != nil && obj.Type() == "identifier" && c.text(obj) == "console" {
			c.report(fn, "Unexpected console statement.")
		}
	})
}

var functionBodies = map[string]bool{
	"function_declaration":           true,
	"function":                       true,
	"function_expression":            true,
	"arrow_function":                 true,
	"method_definition":              true,
	"generator_function":             true,
	"generator_function_declaration": true,
	"class_static_block":             true,
}

func noEmpty(c *ruleContext, root *sitter.Node) {
	walk(root, func(n *sitter.Node) {
		if n.Type() != "statement_block" || n.NamedChildCount() > 0 {
			return
		}
		if p := n.Parent(); p != nil && functionBodies[p.Type()] {
			return
		}
		c.report(n, "Empty block statement.")
	})
}

func noDupeKeys(c *ruleContext, root *sitter.Node) {
	walk(root, func(n *sitter.Node) {
		if n.Type() != "object" {
			return
		}
		seen := make(map[string]bool)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			var key *sitter.Node
			switch child.Type() {
			case "pair":
				key = child.ChildByFieldName("key")
			case "shorthand_property_identifier":
				key = child
			}
			if key == nil || key.Type() == "computed_property_name" {
				continue
			}
			name := strings.Trim(c.text(key), `"'`)
			if seen[name] {
				c.report(key, "Duplicate key '%s'.", name)
			}
			seen[name] = true
		}
	})
}

func camelCase(c *ruleContext, root *sitter.Node) {
	walk(root, func(n *sitter.Node) {
		var ids []*sitter.Node
		switch n.Type() {
		case "variable_declarator", "function_declaration", "class_declaration", "generator_function_declaration":
			if name := n.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
				ids = append(ids, name)
			}
		case "formal_parameters":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				if p := n.NamedChild(i); p.Type() == "identifier" {
					ids = append(ids, p)
				}
			}
		}
		for _, id := range ids {
			if name := c.text(id); isUnderscored(name) {
				c.report(id, "Identifier '%s' is not in camel case.", name)
			}
		}
	})
}

// isUnderscored reports whether name has an inner underscore. Leading and
// trailing underscores and ALL_CAPS constants are allowed.
func isUnderscored(name string) bool {
	trimmed := strings.Trim(name, "_")
	if trimmed == "" || trimmed == strings.ToUpper(trimmed) {
		return false
	}
	for _, part := range camelcase.Split(trimmed) {
		if strings.Contains(part, "_") {
			return true
		}
	}
	return false
}

var semicolonStatements = map[string]bool{
	"expression_statement": true,
	"lexical_declaration":  true,
	"variable_declaration": true,
	"return_statement":     true,
	"throw_statement":      true,
	"break_statement":      true,
	"continue_statement":   true,
	"debugger_statement":   true,
	"import_statement":     true,
}

func semi(c *ruleContext, root *sitter.Node) {
	walk(root, func(n *sitter.Node) {
		t := n.Type()
		if t == "export_statement" {
			if n.ChildByFieldName("declaration") != nil || blockValued(n.ChildByFieldName("value")) {
				return
			}
		} else if !semicolonStatements[t] {
			return
		}
		if count := int(n.ChildCount()); count > 0 && n.Child(count-1).Type() == ";" {
			return
		}
		c.reportAfter(n, "Missing semicolon.")
	})
}

// blockValued reports whether an export default value ends in a body,
// which takes no semicolon.
func blockValued(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case "function", "function_expression", "generator_function", "class":
		return true
	}
	return false
}

type declared struct {
	id       *sitter.Node
	assigned bool
}

func noUnusedVars(c *ruleContext, root *sitter.Node) {
	refs := make(map[string]int)
	var decls []declared

	walk(root, func(n *sitter.Node) {
		switch n.Type() {
		case "identifier", "shorthand_property_identifier", "shorthand_property_identifier_pattern":
			refs[c.text(n)]++
		case "variable_declarator":
			if exported(n.Parent()) {
				return
			}
			assigned := n.ChildByFieldName("value") != nil
			for _, id := range bindingNames(n.ChildByFieldName("name")) {
				decls = append(decls, declared{id: id, assigned: assigned})
			}
		case "function_declaration", "generator_function_declaration", "class_declaration":
			if exported(n) {
				return
			}
			if name := n.ChildByFieldName("name"); name != nil {
				decls = append(decls, declared{id: name})
			}
		}
	})

	for _, d := range decls {
		name := c.text(d.id)
		if refs[name] > 1 {
			continue
		}
		if d.assigned {
			c.report(d.id, "'%s' is assigned a value but never used.", name)
		} else {
			c.report(d.id, "'%s' is defined but never used.", name)
		}
	}
}

// bindingNames returns the identifiers bound by a declarator's name,
// descending into destructuring patterns.
func bindingNames(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return []*sitter.Node{n}
	case "pair_pattern":
		return bindingNames(n.ChildByFieldName("value"))
	case "assignment_pattern", "object_assignment_pattern":
		return bindingNames(n.ChildByFieldName("left"))
	}
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, bindingNames(n.NamedChild(i))...)
	}
	return out
}

func exported(decl *sitter.Node) bool {
	p := decl.Parent()
	return p != nil && p.Type() == "export_statement"
}

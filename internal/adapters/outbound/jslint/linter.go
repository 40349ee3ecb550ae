// Package jslint is a rule-based JavaScript checker built on tree-sitter.
//
// Its result shape follows ESLint's: per-file error and warning counts plus
// positioned messages with a rule id and a numeric severity (1 = warning,
// 2 = error). A source that fails to parse produces a single fatal message
// and no rule runs.
package jslint

import (
	"context"
	"fmt"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/assetlint/assetlint/internal/domain"
)

const (
	SeverityWarning = 1
	SeverityError   = 2
)

// Message is one finding. Line and Column are 1-based; zero means unknown.
type Message struct {
	RuleID   string `json:"rule_id,omitempty"`
	Severity int    `json:"severity"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
	Fatal    bool   `json:"fatal,omitempty"`
}

// Result is the outcome of linting one source text.
type Result struct {
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
	Messages     []Message `json:"messages"`
}

// Linter checks JavaScript against a fixed rule set.
type Linter struct {
	rules domain.RuleSet
}

// New creates a Linter. Rules not in the catalog are ignored.
func New(rules domain.RuleSet) *Linter {
	return &Linter{rules: rules}
}

// LintText parses src and runs every enabled rule over it. An error is
// returned only when the parser itself could not run.
func (l *Linter) LintText(ctx context.Context, src string) (*Result, error) {
	content := []byte(src)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing javascript: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return fatalResult(root, content), nil
	}

	res := &Result{}
	for _, name := range l.rules.Names() {
		check, ok := catalog[name]
		if !ok {
			continue
		}
		severity := SeverityWarning
		switch l.rules.Level(name) {
		case domain.LevelOff:
			continue
		case domain.LevelError:
			severity = SeverityError
		}

		rc := &ruleContext{src: content}
		check(rc, root)
		for _, f := range rc.findings {
			res.Messages = append(res.Messages, Message{
				RuleID:   name,
				Severity: severity,
				Line:     f.line,
				Column:   f.column,
				Message:  f.message,
			})
			if severity == SeverityError {
				res.ErrorCount++
			} else {
				res.WarningCount++
			}
		}
	}

	slices.SortStableFunc(res.Messages, func(a, b Message) int {
		if a.Line != b.Line {
			return a.Line - b.Line
		}
		return a.Column - b.Column
	})
	return res, nil
}

func fatalResult(root *sitter.Node, content []byte) *Result {
	msg := Message{Severity: SeverityError, Fatal: true, Message: "Parsing error"}
	if n := firstError(root); n != nil {
		msg.Line = int(n.StartPoint().Row) + 1
		msg.Column = runeColumn(content, n.StartByte(), n.StartPoint())
		if n.IsMissing() {
			msg.Message = fmt.Sprintf("Parsing error: Missing %s", n.Type())
		} else if tok := firstToken(n.Content(content)); tok != "" {
			msg.Message = fmt.Sprintf("Parsing error: Unexpected token %s", tok)
		}
	}
	return &Result{ErrorCount: 1, Messages: []Message{msg}}
}

// firstError returns the first ERROR or MISSING node in document order.
func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.HasError() || child.IsMissing() {
			if found := firstError(child); found != nil {
				return found
			}
		}
	}
	return nil
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	tok := fields[0]
	if len(tok) > 20 {
		tok = tok[:20]
	}
	return tok
}

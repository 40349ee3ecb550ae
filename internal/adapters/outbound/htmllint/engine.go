// Package htmllint is a declarative rule engine for HTML source text.
//
// Rules run over a tree-sitter HTML tree of the raw text, so every message
// carries a source position. The report shape follows html-validate: a
// validity flag and positioned messages with a rule id and severity.
package htmllint

import (
	"context"
	"fmt"
	"slices"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"

	"github.com/assetlint/assetlint/internal/domain"
)

const (
	SeverityWarning = 1
	SeverityError   = 2
)

// Message is one positioned finding. Line and Column are 1-based.
type Message struct {
	RuleID   string `json:"rule_id"`
	Severity int    `json:"severity"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
}

// Report is the outcome of validating one document.
type Report struct {
	Valid    bool      `json:"valid"`
	Messages []Message `json:"messages"`
}

// Engine validates markup against a rule set.
type Engine struct {
	rules domain.RuleSet
}

func New(rules domain.RuleSet) *Engine {
	return &Engine{rules: rules}
}

// ValidateString runs every enabled rule over src.
func (e *Engine) ValidateString(ctx context.Context, src string) (*Report, error) {
	content := []byte(src)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(html.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	report := &Report{Valid: true}
	for _, name := range e.rules.Names() {
		check, ok := catalog[name]
		if !ok {
			continue
		}
		severity := SeverityWarning
		switch e.rules.Level(name) {
		case domain.LevelOff:
			continue
		case domain.LevelError:
			severity = SeverityError
		}

		rc := &ruleContext{src: content}
		check(rc, root)
		for _, f := range rc.findings {
			report.Messages = append(report.Messages, Message{
				RuleID:   name,
				Severity: severity,
				Line:     f.line,
				Column:   f.column,
				Message:  f.message,
			})
			if severity == SeverityError {
				report.Valid = false
			}
		}
	}

	slices.SortStableFunc(report.Messages, func(a, b Message) int {
		if a.Line != b.Line {
			return a.Line - b.Line
		}
		return a.Column - b.Column
	})
	return report, nil
}

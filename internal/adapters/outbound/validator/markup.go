package validator

import (
	"context"
	"fmt"

	"github.com/assetlint/assetlint/internal/adapters/outbound/htmllint"
	"github.com/assetlint/assetlint/internal/domain"
)

// MarkupValidator runs structural checks through a DocumentParser, then
// lints the raw text with the markup rule engine.
type MarkupValidator struct {
	parser domain.DocumentParser
	engine *htmllint.Engine
}

func NewMarkupValidator(parser domain.DocumentParser, rules domain.RuleSet) *MarkupValidator {
	return &MarkupValidator{parser: parser, engine: htmllint.New(rules)}
}

// Validate reports a single error and skips linting when the document
// cannot be parsed.
func (v *MarkupValidator) Validate(ctx context.Context, content string) ([]domain.Diagnostic, error) {
	doc, err := v.parser.Parse(content)
	if err != nil {
		return []domain.Diagnostic{structural(err.Error())}, nil
	}

	diags := structuralChecks(doc)

	report, err := v.engine.ValidateString(ctx, content)
	if err != nil {
		return nil, err
	}
	for _, m := range report.Messages {
		sev := domain.SeverityWarning
		if m.Severity == htmllint.SeverityError {
			sev = domain.SeverityError
		}
		diags = append(diags, domain.Diagnostic{
			Severity: sev,
			Line:     m.Line,
			Column:   m.Column,
			Message:  m.Message,
			RuleID:   m.RuleID,
		})
	}
	return diags, nil
}

func structural(msg string) domain.Diagnostic {
	return domain.Diagnostic{Severity: domain.SeverityError, Message: msg}
}

func structuralChecks(doc domain.Document) []domain.Diagnostic {
	var diags []domain.Diagnostic
	if !doc.HasDoctype() {
		diags = append(diags, structural("Missing <!DOCTYPE html> declaration"))
	}
	if roots := doc.RootElements(); len(roots) != 1 || roots[0] != "html" {
		diags = append(diags, structural("Document must have exactly one <html> root element"))
	}
	if !doc.HasElement("head") {
		diags = append(diags, structural("Missing <head> element"))
	}
	if !doc.HasElement("body") {
		diags = append(diags, structural("Missing <body> element"))
	}

	counts := make(map[string]int)
	var order []string
	for _, id := range doc.IDs() {
		// Empty ids are not tracked.
		if id == "" {
			continue
		}
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	for _, id := range order {
		if n := counts[id]; n > 1 {
			diags = append(diags, structural(fmt.Sprintf("Duplicate id %q found (%d occurrences)", id, n)))
		}
	}
	return diags
}

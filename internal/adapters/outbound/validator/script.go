// Package validator adapts the script and markup checkers to the uniform
// domain.Validator contract.
package validator

import (
	"context"

	"github.com/assetlint/assetlint/internal/adapters/outbound/jslint"
	"github.com/assetlint/assetlint/internal/domain"
)

// ScriptValidator wraps the JavaScript checker.
type ScriptValidator struct {
	linter *jslint.Linter
}

func NewScriptValidator(rules domain.RuleSet) *ScriptValidator {
	return &ScriptValidator{linter: jslint.New(rules)}
}

func (v *ScriptValidator) Validate(ctx context.Context, content string) ([]domain.Diagnostic, error) {
	result, err := v.linter.LintText(ctx, content)
	if err != nil {
		return nil, err
	}

	diags := make([]domain.Diagnostic, 0, len(result.Messages))
	for _, m := range result.Messages {
		d := domain.Diagnostic{
			Severity: scriptSeverity(m.Severity),
			Line:     max(m.Line, 0),
			Column:   max(m.Column, 0),
			Message:  m.Message,
		}
		if !m.Fatal {
			d.RuleID = m.RuleID
		}
		diags = append(diags, d)
	}
	return diags, nil
}

func scriptSeverity(s int) domain.Severity {
	if s == jslint.SeverityError {
		return domain.SeverityError
	}
	return domain.SeverityWarning
}

// ForConfig builds one validator per kind from the project's rule sets.
func ForConfig(cfg domain.ProjectConfig, parser domain.DocumentParser) map[domain.Kind]domain.Validator {
	return map[domain.Kind]domain.Validator{
		domain.KindScript: NewScriptValidator(cfg.Script.Rules),
		domain.KindMarkup: NewMarkupValidator(parser, cfg.Markup.Rules),
	}
}

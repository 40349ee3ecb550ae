package domain

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// RuleLevel is how strictly a rule is enforced.
type RuleLevel string

const (
	LevelOff     RuleLevel = "off"
	LevelWarning RuleLevel = "warning"
	LevelError   RuleLevel = "error"
)

// RuleSet maps a rule name to its enforcement level.
type RuleSet map[string]RuleLevel

// Level returns the configured level, treating unknown rules as off.
func (r RuleSet) Level(rule string) RuleLevel {
	if lvl, ok := r[rule]; ok {
		return lvl
	}
	return LevelOff
}

// Names returns the rule names in sorted order.
func (r RuleSet) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

// Merge returns a copy of r with override's levels applied on top.
func (r RuleSet) Merge(override RuleSet) RuleSet {
	out := maps.Clone(r)
	if out == nil {
		out = RuleSet{}
	}
	maps.Copy(out, override)
	return out
}

// DefaultScriptRules is the rule catalog of the script checker with its default levels.
func DefaultScriptRules() RuleSet {
	return RuleSet{
		"no-unused-vars": LevelWarning,
		"no-var":         LevelWarning,
		"eqeqeq":         LevelError,
		"no-debugger":    LevelError,
		"no-console":     LevelOff,
		"no-empty":       LevelWarning,
		"no-dupe-keys":   LevelError,
		"camelcase":      LevelOff,
		"semi":           LevelError,
	}
}

// DefaultMarkupRules is the rule catalog of the markup engine with its default levels.
func DefaultMarkupRules() RuleSet {
	return RuleSet{
		"attr-case":              LevelError,
		"no-dup-attr":            LevelError,
		"no-inline-style":        LevelWarning,
		"deprecated":             LevelError,
		"wcag/h37":               LevelError,
		"close-order":            LevelError,
		"empty-title":            LevelError,
		"no-trailing-whitespace": LevelWarning,
		"parser-error":           LevelError,
	}
}

// KindConfig holds per-kind settings.
type KindConfig struct {
	Rules RuleSet `yaml:"rules" json:"rules,omitempty" validate:"dive,keys,required,endkeys,oneof=off warning error"`
}

// ProjectConfig holds project-level configuration loaded from .assetlint.yaml.
// Roots, suffixes and exclusions are fixed policy and not configurable.
type ProjectConfig struct {
	Script KindConfig `yaml:"script" json:"script"`
	Markup KindConfig `yaml:"markup" json:"markup"`
}

// DefaultConfig returns the built-in rule sets.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		Script: KindConfig{Rules: DefaultScriptRules()},
		Markup: KindConfig{Rules: DefaultMarkupRules()},
	}
}

// WithDefaults overlays c on the built-in rule sets.
func (c ProjectConfig) WithDefaults() ProjectConfig {
	return ProjectConfig{
		Script: KindConfig{Rules: DefaultScriptRules().Merge(c.Script.Rules)},
		Markup: KindConfig{Rules: DefaultMarkupRules().Merge(c.Markup.Rules)},
	}
}

// Validate rejects rule names that no checker implements.
func (c ProjectConfig) Validate() error {
	var errs []string
	check := func(kind Kind, rules, catalog RuleSet) {
		for _, name := range rules.Names() {
			if _, ok := catalog[name]; !ok {
				errs = append(errs, fmt.Sprintf("%s.rules: unknown rule %q (valid: %s)",
					kind, name, strings.Join(catalog.Names(), ", ")))
			}
		}
	}
	check(KindScript, c.Script.Rules, DefaultScriptRules())
	check(KindMarkup, c.Markup.Rules, DefaultMarkupRules())
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// ExcludedDirs returns the directory names discovery never descends into.
func ExcludedDirs() []string {
	return []string{"node_modules", ".git", "dist", "build", "uploads"}
}

// PublicDir is the subdirectory holding markup assets.
const PublicDir = "public"

// Target describes one kind's validation sweep.
type Target struct {
	Kind   Kind   `json:"kind"`
	Root   string `json:"root"`
	Suffix string `json:"suffix"`
}

// DefaultTargets returns the fixed sweep policy for a project root:
// scripts anywhere under the root, markup under its public directory.
func DefaultTargets(projectPath string) []Target {
	return []Target{
		{Kind: KindScript, Root: projectPath, Suffix: ".js"},
		{Kind: KindMarkup, Root: filepath.Join(projectPath, PublicDir), Suffix: ".html"},
	}
}

// KindForPath infers the kind from a file suffix.
func KindForPath(path string) (Kind, bool) {
	for _, t := range DefaultTargets("") {
		if strings.HasSuffix(path, t.Suffix) {
			return t.Kind, true
		}
	}
	return "", false
}

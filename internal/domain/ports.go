package domain

import "context"

// FileDiscoverer enumerates candidate files under a root.
type FileDiscoverer interface {
	Discover(root, suffix string) ([]string, error)
}

// ContentReader loads a discovered file.
type ContentReader interface {
	ReadFile(path string) ([]byte, error)
}

// Validator checks the content of one file and returns its diagnostics.
// Malformed input is reported through diagnostics. A returned error means
// the validator itself failed.
type Validator interface {
	Validate(ctx context.Context, content string) ([]Diagnostic, error)
}

// Document is the navigable tree returned by a DocumentParser.
type Document interface {
	HasDoctype() bool
	// RootElements lists the tag names of the document's top-level elements.
	RootElements() []string
	HasElement(tag string) bool
	// IDs lists every id attribute value in document order.
	IDs() []string
}

// DocumentParser builds a Document from raw markup, or fails when the
// content cannot be parsed at all.
type DocumentParser interface {
	Parse(content string) (Document, error)
}

// RunReporter receives progress from a validation run.
type RunReporter interface {
	RunStarted(kind Kind, root string)
	FileValidated(result FileResult)
	RunFinished(summary *RunSummary)
}

// ConfigLoader loads project configuration.
type ConfigLoader interface {
	Load(projectPath string) (ProjectConfig, error)
}

// GitInfo provides VCS metadata for a project.
type GitInfo interface {
	CommitHash(projectPath string) (string, error)
}

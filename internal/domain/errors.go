package domain

import (
	"errors"
	"fmt"
)

// ErrDocumentParse is wrapped by DocumentParser failures.
var ErrDocumentParse = errors.New("document parse failed")

// DiscoveryError reports a root that is missing or unreadable.
type DiscoveryError struct {
	Root string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovering files in %s: %v", e.Root, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

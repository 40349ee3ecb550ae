package application

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/assetlint/assetlint/internal/domain"
	"github.com/assetlint/assetlint/internal/logger"
)

// RunService validates every file of one kind under a root.
type RunService struct {
	discoverer domain.FileDiscoverer
	reader     domain.ContentReader
	validators map[domain.Kind]domain.Validator
	logger     *zap.Logger
}

// NewRunService creates a RunService. A nil logger discards output.
func NewRunService(
	discoverer domain.FileDiscoverer,
	reader domain.ContentReader,
	validators map[domain.Kind]domain.Validator,
	log *zap.Logger,
) *RunService {
	return &RunService{
		discoverer: discoverer,
		reader:     reader,
		validators: validators,
		logger:     logger.OrNop(log).Named(logger.ComponentRunner),
	}
}

// Run discovers the target's files, validates them in sorted order and
// reports progress to reporter. A discovery failure yields a failed summary
// rather than an error. An error is returned only when no validator is
// registered for the target's kind.
func (s *RunService) Run(ctx context.Context, target domain.Target, reporter domain.RunReporter) (*domain.RunSummary, error) {
	v, ok := s.validators[target.Kind]
	if !ok {
		return nil, fmt.Errorf("no validator registered for kind %q", target.Kind)
	}
	if reporter == nil {
		reporter = nopReporter{}
	}

	reporter.RunStarted(target.Kind, target.Root)

	files, err := s.discoverer.Discover(target.Root, target.Suffix)
	if err != nil {
		s.logger.Warn("discovery failed", zap.String("kind", string(target.Kind)), zap.Error(err))
		summary := domain.FailedRun(target.Kind, target.Root, err.Error())
		summary.Finalize()
		reporter.RunFinished(summary)
		return summary, nil
	}
	slices.Sort(files)
	s.logger.Debug("discovered files",
		zap.String("kind", string(target.Kind)),
		zap.String("root", target.Root),
		zap.Int("count", len(files)))

	summary := &domain.RunSummary{Kind: target.Kind, Root: target.Root}
	for _, path := range files {
		result := s.validateFile(ctx, v, path)
		summary.Add(result)
		reporter.FileValidated(result)
	}
	summary.Finalize()
	reporter.RunFinished(summary)
	return summary, nil
}

// ValidateFile validates a single file, inferring its kind from the suffix.
func (s *RunService) ValidateFile(ctx context.Context, path string) (domain.Kind, domain.FileResult, error) {
	kind, ok := domain.KindForPath(path)
	if !ok {
		return "", domain.FileResult{}, fmt.Errorf("unsupported file type: %s", path)
	}
	v, ok := s.validators[kind]
	if !ok {
		return "", domain.FileResult{}, fmt.Errorf("no validator registered for kind %q", kind)
	}
	return kind, s.validateFile(ctx, v, path), nil
}

func (s *RunService) validateFile(ctx context.Context, v domain.Validator, path string) domain.FileResult {
	data, err := s.reader.ReadFile(path)
	if err != nil {
		s.logger.Warn("reading file failed", zap.String("file", path), zap.Error(err))
		return domain.NewFileResult(path, []domain.Diagnostic{{
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("reading file: %v", err),
		}})
	}

	diags, err := safeValidate(ctx, v, string(data))
	if err != nil {
		s.logger.Warn("validator failed", zap.String("file", path), zap.Error(err))
		return domain.NewFileResult(path, []domain.Diagnostic{{
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("validator failed: %v", err),
		}})
	}
	return domain.NewFileResult(path, diags)
}

func safeValidate(ctx context.Context, v domain.Validator, content string) (diags []domain.Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			diags, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return v.Validate(ctx, content)
}

type nopReporter struct{}

func (nopReporter) RunStarted(domain.Kind, string)  {}
func (nopReporter) FileValidated(domain.FileResult) {}
func (nopReporter) RunFinished(*domain.RunSummary)  {}

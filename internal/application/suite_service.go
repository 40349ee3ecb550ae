package application

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/assetlint/assetlint/internal/domain"
	"github.com/assetlint/assetlint/internal/logger"
)

// KindRunner runs the validation sweep for one target.
type KindRunner interface {
	Run(ctx context.Context, target domain.Target, reporter domain.RunReporter) (*domain.RunSummary, error)
}

// ReporterFactory creates the reporter a run writes its progress through.
type ReporterFactory func(w io.Writer) domain.RunReporter

// SuiteService runs every kind concurrently and combines the verdicts.
type SuiteService struct {
	runner      KindRunner
	git         domain.GitInfo
	newReporter ReporterFactory
	out         io.Writer
	logger      *zap.Logger
}

// NewSuiteService creates a SuiteService. Run output is buffered per kind
// and written to out in target order once every run has finished. git may
// be nil, in which case no commit is recorded.
func NewSuiteService(runner KindRunner, git domain.GitInfo, newReporter ReporterFactory, out io.Writer, log *zap.Logger) *SuiteService {
	if out == nil {
		out = io.Discard
	}
	return &SuiteService{
		runner:      runner,
		git:         git,
		newReporter: newReporter,
		out:         out,
		logger:      logger.OrNop(log).Named(logger.ComponentSuite),
	}
}

// RunProject validates the fixed targets of a project root and records
// its HEAD commit when the root is inside a git repository.
func (s *SuiteService) RunProject(ctx context.Context, projectPath string) *domain.SuiteVerdict {
	verdict := s.RunSuite(ctx, domain.DefaultTargets(projectPath))
	if s.git != nil {
		if hash, err := s.git.CommitHash(projectPath); err == nil {
			verdict.Commit = hash
		} else {
			s.logger.Debug("no commit recorded", zap.Error(err))
		}
	}
	return verdict
}

// RunSuite runs each target concurrently. A run that panics or returns an
// error becomes a failed summary for its kind only.
func (s *SuiteService) RunSuite(ctx context.Context, targets []domain.Target) *domain.SuiteVerdict {
	summaries := make([]*domain.RunSummary, len(targets))
	buffers := make([]bytes.Buffer, len(targets))

	g, gCtx := errgroup.WithContext(ctx)
	for i, target := range targets {
		g.Go(func() error {
			summaries[i] = s.runOne(gCtx, target, &buffers[i])
			return nil
		})
	}
	_ = g.Wait()

	for i := range buffers {
		if _, err := buffers[i].WriteTo(s.out); err != nil {
			s.logger.Warn("writing run output failed", zap.Error(err))
		}
	}
	return domain.NewSuiteVerdict(summaries)
}

func (s *SuiteService) runOne(ctx context.Context, target domain.Target, buf *bytes.Buffer) (summary *domain.RunSummary) {
	var reporter domain.RunReporter
	if s.newReporter != nil {
		reporter = s.newReporter(buf)
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("run panicked", zap.String("kind", string(target.Kind)), zap.Any("panic", r))
			summary = s.failed(target, reporter, fmt.Sprintf("%s run panicked: %v", target.Kind, r))
		}
	}()

	summary, err := s.runner.Run(ctx, target, reporter)
	if err != nil {
		s.logger.Warn("run failed", zap.String("kind", string(target.Kind)), zap.Error(err))
		return s.failed(target, reporter, fmt.Sprintf("%s run failed: %v", target.Kind, err))
	}
	if summary == nil {
		return s.failed(target, reporter, fmt.Sprintf("%s run produced no summary", target.Kind))
	}
	return summary
}

func (s *SuiteService) failed(target domain.Target, reporter domain.RunReporter, failure string) *domain.RunSummary {
	summary := domain.FailedRun(target.Kind, target.Root, failure)
	summary.Finalize()
	if reporter != nil {
		reporter.RunFinished(summary)
	}
	return summary
}

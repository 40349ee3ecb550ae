package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/assetlint/assetlint/internal/adapters/outbound/config"
	"github.com/assetlint/assetlint/internal/adapters/outbound/document"
	"github.com/assetlint/assetlint/internal/adapters/outbound/gitinfo"
	"github.com/assetlint/assetlint/internal/adapters/outbound/scanner"
	"github.com/assetlint/assetlint/internal/adapters/outbound/tui"
	"github.com/assetlint/assetlint/internal/adapters/outbound/validator"
	"github.com/assetlint/assetlint/internal/application"
	"github.com/assetlint/assetlint/internal/domain"
	"github.com/assetlint/assetlint/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
)

// ErrValidationFailed is returned when the suite verdict is a failure.
// The report has already been printed, so Execute does not print it again.
var ErrValidationFailed = errors.New("validation failed")

func newRootCmd() *cobra.Command {
	var (
		projectPath string
		jsonOutput  bool
	)
	loader := config.New()

	cmd := &cobra.Command{
		Use:   "assetlint",
		Short: "Validate the static JavaScript and HTML assets of a project",
		Long: "assetlint checks every *.js file under the project root and every *.html file under its public/ " +
			"directory, prints a per-file report and exits non-zero when any error is found.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(projectPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			log := logger.FromEnv()
			defer func() { _ = log.Sync() }()

			runner, err := newRunService(loader, absPath, log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			report := out
			if jsonOutput {
				report = io.Discard
			}

			suite := application.NewSuiteService(runner, gitinfo.New(), newTUIReporter, report, log)
			verdict := suite.RunProject(cmd.Context(), absPath)

			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(verdict); err != nil {
					return fmt.Errorf("encoding verdict: %w", err)
				}
			} else {
				fmt.Fprint(out, tui.RenderSuiteVerdict(verdict))
			}

			if !verdict.OverallSuccess {
				return ErrValidationFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", ".", "Project root to validate")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the verdict as JSON instead of the report")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newMCPCmd(loader))
	return cmd
}

// newRunService builds the run coordinator with the project's rule sets.
func newRunService(loader domain.ConfigLoader, projectPath string, log *zap.Logger) (*application.RunService, error) {
	cfg, err := loader.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	sc := scanner.New()
	return application.NewRunService(sc, sc, validator.ForConfig(cfg, document.New()), log), nil
}

func newTUIReporter(w io.Writer) domain.RunReporter {
	return tui.NewRunReporter(w)
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	err := newRootCmd().Execute()
	if err != nil && !errors.Is(err, ErrValidationFailed) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

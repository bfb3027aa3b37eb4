package cmd

import (
	"fmt"
	"strings"

	"importmover/internal/adapter/outbound/filesystem"
	"importmover/internal/adapter/outbound/movemap"
	"importmover/internal/adapter/outbound/report"
	"importmover/internal/adapter/outbound/treesitter"
	"importmover/internal/application/common/logging"
	"importmover/internal/application/common/slogger"
	"importmover/internal/application/dto"
	"importmover/internal/application/service"
	"importmover/internal/config"

	"github.com/spf13/cobra"
)

// runRefactor wires the adapters into a RefactorService and runs it. The
// decision report goes to the command's stdout; logs go where cfg.Log says.
func runRefactor(cmd *cobra.Command, cfg *config.Config) error {
	logger, err := logging.NewApplicationLogger(logging.Config{
		Level:  strings.ToUpper(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	slogger.SetGlobalLogger(logger)

	locator, err := treesitter.NewImportLocator()
	if err != nil {
		return err
	}

	svc, err := service.NewRefactorService(service.RefactorDependencies{
		Loader:     movemap.NewLoader(),
		Enumerator: filesystem.NewGlobEnumerator("."),
		Locator:    locator,
		Store:      filesystem.NewSourceStore("."),
		Reporter:   report.NewConsoleReporter(cmd.OutOrStdout(), report.ConsoleOptions{Diff: cfg.Refactor.Diff}),
		Logger:     logger.WithComponent("refactor-service"),
	}, dto.RefactorRequest{
		MapFile:         cfg.Refactor.MapFile,
		Pattern:         cfg.Refactor.Pattern,
		OriginalBase:    cfg.Refactor.OriginalBase,
		DestinationBase: cfg.Refactor.DestinationBase,
		DryRun:          cfg.Refactor.DryRun,
	})
	if err != nil {
		return err
	}

	summary, runErr := svc.Run(cmd.Context())

	if cfg.Refactor.ReportPath != "" {
		if err := report.WriteYAML(cfg.Refactor.ReportPath, summary); err != nil {
			if runErr != nil {
				logger.ErrorWithError(cmd.Context(), err, "Failed to write run report", logging.Fields{
					"report_path": cfg.Refactor.ReportPath,
				})
				return runErr
			}
			return err
		}
	}

	return runErr
}

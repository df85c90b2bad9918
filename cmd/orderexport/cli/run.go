package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/order_export_app/internal/adapters/storage"
	"github.com/SscSPs/order_export_app/internal/core/domain"
	"github.com/SscSPs/order_export_app/internal/middleware"
	"github.com/SscSPs/order_export_app/internal/platform/bootstrap"
	"github.com/SscSPs/order_export_app/internal/platform/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type runOptions struct {
	format   string
	outDir   string
	filename string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the export once and write the file",
		Long: `Fetches the three upstream feeds concurrently, joins orders to items and
writes the export into the output directory. The run fails without writing
anything when any feed is unavailable or malformed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	runCmd.Flags().StringVarP(&opts.format, "format", "f", string(domain.FormatCSV), "Export format (csv or xlsx)")
	runCmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Output directory (default OUTPUT_DIR)")
	runCmd.Flags().StringVar(&opts.filename, "filename", "", "File name without extension (default EXPORT_FILENAME)")
	return runCmd
}

func runExport(cmd *cobra.Command, opts *runOptions) error {
	format, err := domain.ParseExportFormat(opts.format)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.outDir != "" {
		cfg.OutputDir = opts.outDir
	}
	if opts.filename != "" {
		cfg.ExportFilename = opts.filename
	}

	level := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	logger := bootstrap.NewLogger(cmd.ErrOrStderr(), level)

	services, err := bootstrap.NewServices(cfg, nil)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger = logger.With(slog.String("run_id", runID), slog.String("format", string(format)))
	ctx := middleware.WithLogger(cmd.Context(), logger)

	state := domain.ExportState{Status: domain.ExportIdle}.Start(runID, time.Now())
	logger.Info("Export started", slog.String("status", string(state.Status)))

	file, err := services.Export.Export(middleware.WithRunID(ctx, runID), format)
	if err == nil {
		saver := storage.NewLocalFileSaver(cfg.OutputDir)
		if err = saver.Save(ctx, file.Filename, file.Content); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (matched %d, unmatched %d)\n",
				saver.Path(file.Filename), file.Summary.Matched, file.Summary.Unmatched)
		}
	}

	state = state.Finish(err, time.Now())
	if err != nil {
		logger.Error("Export failed", slog.String("status", string(state.Status)), slog.String("error", err.Error()))
		return err
	}
	logger.Info("Export finished",
		slog.String("status", string(state.Status)),
		slog.Duration("elapsed", state.FinishedAt.Sub(*state.StartedAt)),
		slog.Int("matched", file.Summary.Matched),
		slog.Int("unmatched", file.Summary.Unmatched),
		slog.Int("unconverted", file.Summary.Unconverted),
	)
	return nil
}

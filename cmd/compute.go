package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/boxflow/api/schemas"
	"github.com/xkilldash9x/boxflow/internal/config"
	"github.com/xkilldash9x/boxflow/internal/observability"
	"github.com/xkilldash9x/boxflow/internal/scenario"
)

// newComputeCmd creates and configures the `compute` command.
func newComputeCmd() *cobra.Command {
	computeCmd := &cobra.Command{
		Use:   "compute [files...]",
		Short: "Computes the layout of every scenario in the given JSON or YAML files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if err := applyComputeFlags(cmd, cfg); err != nil {
				return err
			}
			return runCompute(cmd.Context(), cfg, args, cmd.OutOrStdout(), observability.GetLogger())
		},
	}

	computeCmd.Flags().StringP("format", "f", "", "Output format, 'json' or 'tree'. (Overrides config/env)")
	computeCmd.Flags().IntP("concurrency", "j", 0, "Number of scenarios computed in parallel. (Overrides config/env)")
	return computeCmd
}

// applyComputeFlags lets explicitly set flags win over config and env.
func applyComputeFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		f, _ := flags.GetString("format")
		cfg.SetOutputFormat(f)
	}
	if flags.Changed("concurrency") {
		n, _ := flags.GetInt("concurrency")
		cfg.SetOutputConcurrency(n)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

type computeJob struct {
	source string
	sc     schemas.Scenario
}

// runCompute lays out every scenario in files, each on its own tree, and
// writes the results to out in input order.
func runCompute(ctx context.Context, cfg config.Interface, files []string, out io.Writer, logger *zap.Logger) error {
	runID := uuid.New().String()
	logger = logger.With(zap.String("runID", runID))

	var jobs []computeJob
	for _, path := range files {
		list, err := scenario.LoadFile(path)
		if err != nil {
			return err
		}
		for _, sc := range list {
			jobs = append(jobs, computeJob{source: path, sc: sc})
		}
	}

	format := cfg.Output().Format
	logger.Info("Computing layouts",
		zap.Int("files", len(files)),
		zap.Int("scenarios", len(jobs)),
		zap.Int("concurrency", cfg.Output().Concurrency),
		zap.String("format", format),
	)

	results := make([]*schemas.Result, len(jobs))
	dumps := make([]bytes.Buffer, len(jobs))
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Output().Concurrency)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := computeOne(cfg.Engine(), job, runID, format, &dumps[i], logger)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Compute aborted", zap.Error(err))
		} else {
			logger.Error("Compute failed", zap.Error(err))
		}
		return err
	}

	logger.Info("Layouts computed", zap.Int("scenarios", len(jobs)), zap.Duration("elapsed", time.Since(start)))

	if format == config.FormatTree {
		for i := range dumps {
			if _, err := dumps[i].WriteTo(out); err != nil {
				return fmt.Errorf("write tree: %w", err)
			}
		}
		return nil
	}
	return scenario.EncodeResults(out, results)
}

func computeOne(engine config.EngineConfig, job computeJob, runID, format string, dump *bytes.Buffer, logger *zap.Logger) (*schemas.Result, error) {
	m, err := scenario.NewMaterializer(engine, logger)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	start := time.Now()
	doc, err := m.Compute(job.sc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.source, err)
	}
	root, err := doc.Collect()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.source, err)
	}

	if format == config.FormatTree {
		fmt.Fprintf(dump, "# %s (%s)\n", job.sc.Name, job.source)
		if err := doc.Tree.PrintTree(doc.Root, dump); err != nil {
			return nil, err
		}
	}

	logger.Debug("Computed scenario",
		zap.String("scenario", job.sc.Name),
		zap.Int("nodes", doc.Tree.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &schemas.Result{RunID: runID, Scenario: job.sc.Name, Source: job.source, Root: root}, nil
}

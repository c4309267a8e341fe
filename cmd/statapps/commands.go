package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mwaskom/StatApps/internal/config"
	"github.com/mwaskom/StatApps/internal/engine"
	"github.com/mwaskom/StatApps/internal/presenter"
	"github.com/mwaskom/StatApps/pkg/rng"
)

// app carries the state shared by the subcommands once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	src    *rng.Source
	eng    *engine.Engine
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "statapps",
		Short: "Interactive statistics demos: regression, bootstrap, sampling and t-tests",
		Long: `statapps simulates the classic teaching demos of introductory statistics:
confidence bands of a regression line, bootstrapped regression fits,
the sampling distribution of the mean and the behaviour of t-tests.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	config.Bind(rootCmd.PersistentFlags(), cfg)

	rootCmd.AddCommand(
		a.regressionCmd(),
		a.bootstrapCmd(),
		a.scoreCmd(),
		a.summaryCmd(),
		a.samplingCmd(),
		a.ttestCmd(),
		a.allCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if a.cfg.Verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if a.cfg.Seed == 0 {
		a.src = rng.NewUnseeded()
	} else {
		a.src = rng.New(a.cfg.Seed)
	}
	a.logger.Debug("configuration", "config", a.cfg.ToString(), "seed", a.src.Seed())

	eng, err := engine.New(a.cfg, a.src, a.logger)
	if err != nil {
		return err
	}
	a.eng = eng
	return nil
}

// demo is one rendered result: its encodable value, text form and figure.
type demo struct {
	value  any
	text   func(io.Writer) error
	figure func() (*presenter.Figure, error)
}

func (a *app) emit(w io.Writer, d demo, plotFile string) error {
	if err := presenter.Write(w, a.cfg.Format, d.value, d.text); err != nil {
		return err
	}
	if plotFile == "" || d.figure == nil {
		return nil
	}
	fig, err := d.figure()
	if err != nil {
		return err
	}
	if err := fig.Save(plotFile); err != nil {
		return fmt.Errorf("save %s: %w", plotFile, err)
	}
	a.logger.Info("figure saved", "file", plotFile)
	return nil
}

func (a *app) regressionCmd() *cobra.Command {
	req := engine.RegressionRequest{ErrorAt: -1, ErrorPoints: 200}
	cmd := &cobra.Command{
		Use:   "regression",
		Short: "Fit a line and draw its confidence band",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.regression(req)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), d, a.cfg.PlotFile)
		},
	}
	cmd.Flags().IntVar(&req.ErrorAt, "error-at", req.ErrorAt, "grid index at which to show the error distribution (-1 for none)")
	cmd.Flags().IntVar(&req.ErrorPoints, "error-points", req.ErrorPoints, "points of the error density curve")
	return cmd
}

func (a *app) regression(req engine.RegressionRequest) (demo, error) {
	req.Confidence = a.cfg.Confidence
	res, err := a.eng.Regression(req)
	if err != nil {
		return demo{}, err
	}
	return demo{
		value:  res,
		text:   presenter.RegressionText(res),
		figure: func() (*presenter.Figure, error) { return presenter.RegressionFigure(res) },
	}, nil
}

func (a *app) bootstrapCmd() *cobra.Command {
	req := engine.BootstrapRequest{Highlight: -1}
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Resample the data and fit a line to every bootstrap sample",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.bootstrap(req)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), d, a.cfg.PlotFile)
		},
	}
	cmd.Flags().IntVar(&req.Highlight, "highlight", req.Highlight, "bootstrap sample to highlight (-1 for none)")
	return cmd
}

func (a *app) bootstrap(req engine.BootstrapRequest) (demo, error) {
	req.NumBoot = a.cfg.NumBoot
	res, err := a.eng.Bootstrap(req)
	if err != nil {
		return demo{}, err
	}
	return demo{
		value:  res,
		text:   presenter.BootstrapText(res),
		figure: func() (*presenter.Figure, error) { return presenter.BootstrapFigure(res) },
	}, nil
}

func (a *app) scoreCmd() *cobra.Command {
	var req engine.ScoreRequest
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a hand-picked line by its sum of squared residuals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Без флагов берется случайная стартовая линия
			start := a.eng.StartingLine()
			if !cmd.Flags().Changed("intercept") {
				req.Intercept = start.Intercept
			}
			if !cmd.Flags().Changed("slope") {
				req.Slope = start.Slope
			}
			d, err := a.score(req)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), d, a.cfg.PlotFile)
		},
	}
	cmd.Flags().Float64Var(&req.Intercept, "intercept", 0, "intercept of the line, in [-2, 6]")
	cmd.Flags().Float64Var(&req.Slope, "slope", 0, "slope of the line, in [-1, 3]")
	return cmd
}

func (a *app) score(req engine.ScoreRequest) (demo, error) {
	res, err := a.eng.Score(req)
	if err != nil {
		return demo{}, err
	}
	return demo{
		value:  res,
		text:   presenter.ScoreText(res),
		figure: func() (*presenter.Figure, error) { return presenter.ScoreFigure(res) },
	}, nil
}

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the OLS report of the fitting dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.summary()
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), d, "")
		},
	}
}

func (a *app) summary() (demo, error) {
	res, err := a.eng.Summary()
	if err != nil {
		return demo{}, err
	}
	return demo{
		value: res,
		text: func(w io.Writer) error {
			_, err := io.WriteString(w, res.String())
			return err
		},
	}, nil
}

func (a *app) samplingCmd() *cobra.Command {
	req := engine.SamplingRequest{PopulationSD: 2, SampleSize: 30}
	cmd := &cobra.Command{
		Use:   "sampling",
		Short: "Simulate the sampling distribution of the mean",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.sampling(req)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), d, a.cfg.PlotFile)
		},
	}
	cmd.Flags().Float64Var(&req.PopulationSD, "sd", req.PopulationSD, "population standard deviation, in [1, 5]")
	cmd.Flags().IntVar(&req.SampleSize, "sample-size", req.SampleSize, "observations per sample")
	return cmd
}

func (a *app) sampling(req engine.SamplingRequest) (demo, error) {
	req.NumSim = a.cfg.NumSim
	res, err := a.eng.Sampling(req)
	if err != nil {
		return demo{}, err
	}
	return demo{
		value:  res,
		text:   presenter.SamplingText(res),
		figure: func() (*presenter.Figure, error) { return presenter.SamplingFigure(res) },
	}, nil
}

func (a *app) ttestCmd() *cobra.Command {
	req := engine.TTestRequest{EffectSize: .5, SampleSize: 20}
	cmd := &cobra.Command{
		Use:   "ttest",
		Short: "Simulate one-sample t-tests and compare with theoretical power",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.ttest(req)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), d, a.cfg.PlotFile)
		},
	}
	cmd.Flags().Float64Var(&req.EffectSize, "effect-size", req.EffectSize, "true effect size, in [0, 1]")
	cmd.Flags().IntVar(&req.SampleSize, "sample-size", req.SampleSize, "observations per experiment, in [2, 50]")
	return cmd
}

func (a *app) ttest(req engine.TTestRequest) (demo, error) {
	req.NumSim = a.cfg.NumSim
	req.Alpha = a.cfg.Alpha
	res, err := a.eng.TTest(req)
	if err != nil {
		return demo{}, err
	}
	return demo{
		value:  res,
		text:   presenter.TTestText(res),
		figure: func() (*presenter.Figure, error) { return presenter.TTestFigure(res) },
	}, nil
}

func (a *app) allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every demo with default inputs concurrently",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runAll(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (a *app) runAll(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := a.eng.StartingLine()
	runs := []struct {
		name string
		run  func() (demo, error)
	}{
		{"regression", func() (demo, error) {
			return a.regression(engine.RegressionRequest{ErrorAt: -1})
		}},
		{"bootstrap", func() (demo, error) {
			return a.bootstrap(engine.BootstrapRequest{Highlight: -1})
		}},
		{"score", func() (demo, error) {
			return a.score(engine.ScoreRequest{Intercept: start.Intercept, Slope: start.Slope})
		}},
		{"summary", a.summary},
		{"sampling", func() (demo, error) {
			return a.sampling(engine.SamplingRequest{PopulationSD: 2, SampleSize: 30})
		}},
		{"ttest", func() (demo, error) {
			return a.ttest(engine.TTestRequest{EffectSize: .5, SampleSize: 20})
		}},
	}

	outputs := make([]bytes.Buffer, len(runs))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range runs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := r.run()
			if err != nil {
				return fmt.Errorf("%s: %w", r.name, err)
			}
			if err := a.emit(&outputs[i], d, plotName(a.cfg.PlotFile, r.name)); err != nil {
				return fmt.Errorf("%s: %w", r.name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, r := range runs {
		switch a.cfg.Format {
		case presenter.FormatYAML:
			if i > 0 {
				fmt.Fprintln(w, "---")
			}
		case presenter.FormatText, "":
			fmt.Fprintf(w, "==> %s\n", r.name)
		}
		if _, err := outputs[i].WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

// plotName derives a per-demo file name: out.png becomes out-ttest.png.
func plotName(base, name string) string {
	if base == "" {
		return ""
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "-" + name + ext
}

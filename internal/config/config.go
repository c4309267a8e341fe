package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes the environment variables that override flag defaults.
const EnvPrefix = "STATAPPS_"

// Config holds the fixed parameters of a run. Per-request parameters (slider
// values) live in the engine request types.
type Config struct {
	Seed    uint64 `yaml:"seed"`
	Verbose bool   `yaml:"verbose"`

	// Regression and bootstrap demo dataset.
	NumObsBootstrap int     `validate:"gte=30,lte=50" yaml:"num_obs_bootstrap"`
	NumObsFitting   int     `validate:"gte=30,lte=50" yaml:"num_obs_fitting"`
	NumBoot         int     `validate:"gte=1,lte=10000" yaml:"num_boot"`
	Confidence      float64 `validate:"gt=0,lt=1" yaml:"confidence"`
	GridMin         float64 `yaml:"grid_min"`
	GridMax         float64 `validate:"gtfield=GridMin" yaml:"grid_max"`
	GridPoints      int     `validate:"gte=2" yaml:"grid_points"`
	DataFile        string  `yaml:"data_file"`

	// Simulation demos.
	NumSim int     `validate:"gte=1,lte=1000000" yaml:"num_sim"`
	Alpha  float64 `validate:"gt=0,lt=1" yaml:"alpha"`

	Format   string `validate:"oneof=text json yaml" yaml:"format"`
	PlotFile string `validate:"omitempty,endswith=.pdf|endswith=.png" yaml:"plot_file"`
}

// Default returns the configuration the demos ship with.
func Default() *Config {
	return &Config{
		NumObsBootstrap: 30,
		NumObsFitting:   50,
		NumBoot:         20,
		Confidence:      .95,
		GridMin:         -3.5,
		GridMax:         3.5,
		GridPoints:      101,
		NumSim:          1000,
		Alpha:           .05,
		Format:          "text",
	}
}

// Bind registers the configuration flags on fs. Defaults come from cfg,
// which Load may already have adjusted from the environment.
func Bind(fs *pflag.FlagSet, cfg *Config) {
	// define flags
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 draws one from the runtime)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "debug logging")
	fs.IntVar(&cfg.NumObsBootstrap, "n-obs-bootstrap", cfg.NumObsBootstrap, "observations in the bootstrap demo dataset")
	fs.IntVar(&cfg.NumObsFitting, "n-obs-fitting", cfg.NumObsFitting, "observations in the fitting demo dataset")
	fs.IntVar(&cfg.NumBoot, "n-boot", cfg.NumBoot, "number of bootstrap samples")
	fs.Float64Var(&cfg.Confidence, "confidence", cfg.Confidence, "confidence level of the regression band")
	fs.Float64Var(&cfg.GridMin, "grid-min", cfg.GridMin, "left end of the evaluation grid")
	fs.Float64Var(&cfg.GridMax, "grid-max", cfg.GridMax, "right end of the evaluation grid")
	fs.IntVar(&cfg.GridPoints, "grid-points", cfg.GridPoints, "number of evaluation grid points")
	fs.StringVar(&cfg.DataFile, "data", cfg.DataFile, "two-column x/y file replacing the bootstrap demo dataset")
	fs.IntVar(&cfg.NumSim, "n-sim", cfg.NumSim, "number of simulated experiments")
	fs.Float64Var(&cfg.Alpha, "alpha", cfg.Alpha, "significance level of the t-test")
	fs.StringVarP(&cfg.Format, "format", "f", cfg.Format, "output format: text, json or yaml")
	fs.StringVar(&cfg.PlotFile, "plot", cfg.PlotFile, "render the figure to this .pdf or .png file")
}

// Load returns the defaults overridden by STATAPPS_* environment variables.
// A .env file in the working directory is read first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	env := map[string]any{
		"SEED":              &cfg.Seed,
		"NUM_OBS_BOOTSTRAP": &cfg.NumObsBootstrap,
		"NUM_OBS_FITTING":   &cfg.NumObsFitting,
		"NUM_BOOT":          &cfg.NumBoot,
		"CONFIDENCE":        &cfg.Confidence,
		"NUM_SIM":           &cfg.NumSim,
		"ALPHA":             &cfg.Alpha,
		"FORMAT":            &cfg.Format,
		"DATA_FILE":         &cfg.DataFile,
	}
	for name, dst := range env {
		raw, ok := os.LookupEnv(EnvPrefix + name)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if err := setFromString(dst, strings.TrimSpace(raw)); err != nil {
			return nil, fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
	}
	return cfg, nil
}

func setFromString(dst any, raw string) error {
	switch p := dst.(type) {
	case *uint64:
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		*p = v
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		*p = v
	case *float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		*p = v
	case *string:
		*p = raw
	default:
		return fmt.Errorf("unsupported type %T", dst)
	}
	return nil
}

var validate = validator.New()

// Validate checks the configuration ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.ActualTag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) ToString() string {
	return fmt.Sprintf("seed=%d n_obs=%d/%d n_boot=%d confidence=%.3f grid=[%g,%g]x%d n_sim=%d alpha=%.3f format=%s",
		c.Seed, c.NumObsBootstrap, c.NumObsFitting, c.NumBoot, c.Confidence,
		c.GridMin, c.GridMax, c.GridPoints, c.NumSim, c.Alpha, c.Format)
}

package engine

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mwaskom/StatApps/internal/simerr"
)

// RegressionRequest asks for the OLS fit and confidence band of the
// bootstrap demo dataset. When ErrorAt is not negative the t density of the
// fitted mean at that grid index is included.
type RegressionRequest struct {
	Confidence  float64 `json:"confidence" validate:"gt=0,lt=1"`
	ErrorAt     int     `json:"error_at" validate:"gte=-1"`
	ErrorPoints int     `json:"error_points" validate:"gte=0,lte=10000"`
}

// BootstrapRequest asks for an ensemble of NumBoot refits. Highlight selects
// one replicate whose inclusion pattern is reported (-1 for none).
type BootstrapRequest struct {
	NumBoot   int `json:"num_boot" validate:"gte=1,lte=100000"`
	Highlight int `json:"highlight" validate:"gte=-1,ltfield=NumBoot"`
}

// ScoreRequest is a hand-picked line for the fitting demo.
type ScoreRequest struct {
	Intercept float64 `json:"intercept" validate:"gte=-2,lte=6"`
	Slope     float64 `json:"slope" validate:"gte=-1,lte=3"`
}

// SamplingRequest drives the sampling distribution demo. A zero sample size
// passes validation and is rejected by the simulator as degenerate.
type SamplingRequest struct {
	PopulationSD float64 `json:"population_sd" validate:"gte=1,lte=5"`
	SampleSize   int     `json:"sample_size" validate:"gte=0,lte=200"`
	NumSim       int     `json:"num_sim" validate:"gte=1,lte=1000000"`
}

// TTestRequest drives the t-test demo.
type TTestRequest struct {
	EffectSize float64 `json:"effect_size" validate:"gte=0,lte=1"`
	SampleSize int     `json:"sample_size" validate:"gte=2,lte=50"`
	NumSim     int     `json:"num_sim" validate:"gte=1,lte=1000000"`
	Alpha      float64 `json:"alpha" validate:"gt=0,lt=1"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// check validates req and converts failures to InvalidParameter errors.
func (e *Engine) check(op string, req any) error {
	err := e.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return simerr.Invalid(op, "%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s=%v violates %s=%s", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
	}
	return simerr.Invalid(op, "%s", strings.Join(msgs, "; "))
}

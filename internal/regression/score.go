package regression

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// ScoreResult compares a hand-picked line against a reference line and the
// least-squares fit on the same data.
type ScoreResult struct {
	Candidate Fit       `json:"candidate" yaml:"candidate"`
	Reference Fit       `json:"reference" yaml:"reference"`
	OLS       Fit       `json:"ols" yaml:"ols"`
	Residuals []float64 `json:"residuals" yaml:"residuals"`

	SSR          float64 `json:"ssr" yaml:"ssr"`
	ReferenceSSR float64 `json:"reference_ssr" yaml:"reference_ssr"`
	OLSSSR       float64 `json:"ols_ssr" yaml:"ols_ssr"`
	// BestFit is set when the candidate is exactly the reference line.
	BestFit bool `json:"best_fit" yaml:"best_fit"`
}

// Score evaluates candidate on (x, y).
func Score(x, y []float64, candidate, reference Fit) (*ScoreResult, error) {
	ols, err := OLS(x, y)
	if err != nil {
		return nil, err
	}
	return &ScoreResult{
		Candidate:    candidate,
		Reference:    reference,
		OLS:          ols,
		Residuals:    Residuals(x, y, candidate),
		SSR:          SSR(x, y, candidate),
		ReferenceSSR: SSR(x, y, reference),
		OLSSSR:       SSR(x, y, ols),
		BestFit:      candidate == reference,
	}, nil
}

// InterceptOptions lists the selectable intercepts: -2 to 6 in steps of 0.5.
func InterceptOptions() []float64 {
	return floats.Span(make([]float64, 17), -2, 6)
}

// SlopeOptions lists the selectable slopes: -1 to 3 in steps of 0.25.
func SlopeOptions() []float64 {
	return floats.Span(make([]float64, 17), -1, 3)
}

// RandomStart picks a starting line uniformly from the selectable options.
func RandomStart(src rand.Source) Fit {
	r := rand.New(src)
	is, ss := InterceptOptions(), SlopeOptions()
	return Fit{Intercept: is[r.IntN(len(is))], Slope: ss[r.IntN(len(ss))]}
}

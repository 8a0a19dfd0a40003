// Package distributions provides reference distributions backed by gonum's
// distuv package, addressed by short textual specs such as "normal:0,1".
package distributions

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"gofscan/domain/core"
	"gofscan/ports"
)

// Discrete adapts a gonum integer-valued distribution to
// ports.DiscreteDistribution.
type Discrete struct {
	dist interface {
		Prob(x float64) float64
		CDF(x float64) float64
	}
}

func (d Discrete) Prob(k int) float64 { return d.dist.Prob(float64(k)) }
func (d Discrete) CDF(k int) float64  { return d.dist.CDF(float64(k)) }

// NewPoisson returns a Poisson(lambda) reference distribution.
func NewPoisson(lambda float64) (Discrete, error) {
	if !(lambda > 0) || math.IsInf(lambda, 1) {
		return Discrete{}, core.NewArgumentError("lambda", "must be positive")
	}
	return Discrete{dist: distuv.Poisson{Lambda: lambda}}, nil
}

// NewBinomial returns a Binomial(n, p) reference distribution.
func NewBinomial(n int, p float64) (Discrete, error) {
	if n < 1 {
		return Discrete{}, core.NewArgumentError("n", "must be >= 1")
	}
	if !(p >= 0 && p <= 1) {
		return Discrete{}, core.NewArgumentError("p", "must lie in [0,1]")
	}
	return Discrete{dist: distuv.Binomial{N: float64(n), P: p}}, nil
}

// Parse builds a continuous reference distribution from a spec of the form
// "name:p1,p2". Supported: uniform:a,b  normal:mu,sigma  exponential:rate
// lognormal:mu,sigma  gamma:alpha,beta  weibull:k,lambda  chi2:k.
func Parse(spec string) (ports.ContinuousDistribution, error) {
	name, params, err := splitSpec(spec)
	if err != nil {
		return nil, err
	}

	switch name {
	case "uniform":
		if err := arity(name, params, 2); err != nil {
			return nil, err
		}
		if !(params[0] < params[1]) {
			return nil, core.NewArgumentErrorf("uniform needs a < b, got %g, %g", params[0], params[1])
		}
		return distuv.Uniform{Min: params[0], Max: params[1]}, nil
	case "normal":
		if err := arity(name, params, 2); err != nil {
			return nil, err
		}
		if err := positive(name, "sigma", params[1]); err != nil {
			return nil, err
		}
		return distuv.Normal{Mu: params[0], Sigma: params[1]}, nil
	case "exponential":
		if err := arity(name, params, 1); err != nil {
			return nil, err
		}
		if err := positive(name, "rate", params[0]); err != nil {
			return nil, err
		}
		return distuv.Exponential{Rate: params[0]}, nil
	case "lognormal":
		if err := arity(name, params, 2); err != nil {
			return nil, err
		}
		if err := positive(name, "sigma", params[1]); err != nil {
			return nil, err
		}
		return distuv.LogNormal{Mu: params[0], Sigma: params[1]}, nil
	case "gamma":
		if err := arity(name, params, 2); err != nil {
			return nil, err
		}
		if err := positive(name, "alpha", params[0]); err != nil {
			return nil, err
		}
		if err := positive(name, "beta", params[1]); err != nil {
			return nil, err
		}
		return distuv.Gamma{Alpha: params[0], Beta: params[1]}, nil
	case "weibull":
		if err := arity(name, params, 2); err != nil {
			return nil, err
		}
		if err := positive(name, "k", params[0]); err != nil {
			return nil, err
		}
		if err := positive(name, "lambda", params[1]); err != nil {
			return nil, err
		}
		return distuv.Weibull{K: params[0], Lambda: params[1]}, nil
	case "chi2":
		if err := arity(name, params, 1); err != nil {
			return nil, err
		}
		if err := positive(name, "k", params[0]); err != nil {
			return nil, err
		}
		return distuv.ChiSquared{K: params[0]}, nil
	}
	return nil, core.NewArgumentErrorf("unknown continuous distribution %q", name)
}

// ParseDiscrete builds a discrete reference distribution from
// "poisson:lambda" or "binomial:n,p".
func ParseDiscrete(spec string) (ports.DiscreteDistribution, error) {
	name, params, err := splitSpec(spec)
	if err != nil {
		return nil, err
	}
	switch name {
	case "poisson":
		if err := arity(name, params, 1); err != nil {
			return nil, err
		}
		return NewPoisson(params[0])
	case "binomial":
		if err := arity(name, params, 2); err != nil {
			return nil, err
		}
		if params[0] != math.Trunc(params[0]) {
			return nil, core.NewArgumentErrorf("binomial n must be an integer, got %g", params[0])
		}
		return NewBinomial(int(params[0]), params[1])
	}
	return nil, core.NewArgumentErrorf("unknown discrete distribution %q", name)
}

// FitNormal estimates a normal distribution from a sample using the mean and
// the sample standard deviation.
func FitNormal(data []float64) (distuv.Normal, error) {
	if len(data) < 2 {
		return distuv.Normal{}, fmt.Errorf("%w: fitting a normal needs at least 2 values, got %d",
			core.ErrInsufficientData, len(data))
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return distuv.Normal{}, fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
	}
	sd, err := stats.StandardDeviationSample(data)
	if err != nil {
		return distuv.Normal{}, fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
	}
	if !(sd > 0) {
		return distuv.Normal{}, core.NewArgumentError("data", "has zero spread")
	}
	return distuv.Normal{Mu: mean, Sigma: sd}, nil
}

// FitExponential estimates an exponential distribution by its mean.
func FitExponential(data []float64) (distuv.Exponential, error) {
	if len(data) == 0 {
		return distuv.Exponential{}, core.ErrEmptySample
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return distuv.Exponential{}, fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
	}
	if !(mean > 0) {
		return distuv.Exponential{}, core.NewArgumentError("data", "mean must be positive")
	}
	return distuv.Exponential{Rate: 1 / mean}, nil
}

// Resolve picks the distribution that maps a sample to uniforms. A non-empty
// fit ("normal" or "exponential") estimates it from sample; otherwise spec is
// parsed. The standard uniform yields nil, meaning the values are used as
// they are. The returned string names the distribution actually used.
func Resolve(spec, fit string, sample []float64) (ports.ContinuousDistribution, string, error) {
	switch strings.ToLower(strings.TrimSpace(fit)) {
	case "":
	case "normal":
		n, err := FitNormal(sample)
		if err != nil {
			return nil, "", err
		}
		return n, fmt.Sprintf("normal:%g,%g", n.Mu, n.Sigma), nil
	case "exponential":
		e, err := FitExponential(sample)
		if err != nil {
			return nil, "", err
		}
		return e, fmt.Sprintf("exponential:%g", e.Rate), nil
	default:
		return nil, "", core.NewArgumentErrorf("cannot fit %q", fit)
	}

	if strings.ReplaceAll(strings.ToLower(spec), " ", "") == "uniform:0,1" {
		return nil, "uniform:0,1", nil
	}
	dist, err := Parse(spec)
	if err != nil {
		return nil, "", err
	}
	return dist, spec, nil
}

func splitSpec(spec string) (string, []float64, error) {
	name, rest, _ := strings.Cut(strings.TrimSpace(spec), ":")
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", nil, core.NewArgumentError("distribution", "empty spec")
	}
	var params []float64
	if strings.TrimSpace(rest) != "" {
		for _, field := range strings.Split(rest, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return "", nil, core.NewArgumentErrorf("distribution %q: bad parameter %q", name, field)
			}
			params = append(params, v)
		}
	}
	return name, params, nil
}

func arity(name string, params []float64, want int) error {
	if len(params) != want {
		return core.NewArgumentErrorf("%s takes %d parameter(s), got %d", name, want, len(params))
	}
	return nil
}

func positive(dist, field string, v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return core.NewArgumentErrorf("%s: %s must be positive, got %g", dist, field, v)
	}
	return nil
}

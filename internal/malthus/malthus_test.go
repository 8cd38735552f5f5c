package malthus

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AskerNC/projects-2021-concatenaters/internal/solver"
)

func baseParams() Params {
	return Params{Technology: 1, Land: 1, Alpha: 0.5, Eta: 0.04, Mu: 0.02}
}

// TestSteadyStateIsFixedPoint: the closed-form steady state satisfies L* = Next(L*).
func TestSteadyStateIsFixedPoint(t *testing.T) {
	p := baseParams()
	ss := p.SteadyState()
	require.InDelta(t, 4.0, ss, 1e-12, "L* = A*X*(eta/mu)^(1/alpha) = (0.04/0.02)^2")
	require.InDelta(t, ss, p.Next(ss), 1e-12)
}

// TestTransitionMonotoneConvergence: starting below the steady state the
// population rises toward it without overshooting; starting above it falls.
func TestTransitionMonotoneConvergence(t *testing.T) {
	p := baseParams()
	ss := p.SteadyState()

	rising, err := p.Transition(zap.NewNop(), ss*0.5, 200)
	require.NoError(t, err)
	require.Len(t, rising, 201)
	for i := 1; i < len(rising); i++ {
		require.Greater(t, rising[i], rising[i-1])
		require.LessOrEqual(t, rising[i], ss+1e-9)
	}

	falling, err := p.Transition(zap.NewNop(), ss*1.3, 200)
	require.NoError(t, err)
	for i := 1; i < len(falling); i++ {
		require.Less(t, falling[i], falling[i-1])
		require.GreaterOrEqual(t, falling[i], ss-1e-9)
	}
}

func TestTransitionZeroSteps(t *testing.T) {
	p := baseParams()
	path, err := p.Transition(zap.NewNop(), 2, 0)
	require.NoError(t, err)
	require.Equal(t, []float64{2}, path)
}

// TestTransitionNilLogger: a nil logger falls back to a nop logger.
func TestTransitionNilLogger(t *testing.T) {
	p := baseParams()
	path, err := p.Transition(nil, 2, 3)
	require.NoError(t, err)
	require.Len(t, path, 4)
}

func TestConvergedBy(t *testing.T) {
	p := baseParams()
	ss := p.SteadyState()

	steps, ok := p.ConvergedBy(ss*0.5, 1e-3, 10000)
	require.True(t, ok)
	require.Greater(t, steps, 0)

	level := ss * 0.5
	for i := 0; i < steps; i++ {
		level = p.Next(level)
	}
	require.InDelta(t, ss, level, 1e-3*ss)

	// A tolerance the dynamics cannot reach within the cap.
	_, ok = p.ConvergedBy(ss*0.5, 1e-12, 10)
	require.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{"Zero technology", func(p *Params) { p.Technology = 0 }, "malthus.technology"},
		{"Negative land", func(p *Params) { p.Land = -1 }, "malthus.land"},
		{"Alpha at one", func(p *Params) { p.Alpha = 1 }, "malthus.alpha"},
		{"Zero eta", func(p *Params) { p.Eta = 0 }, "malthus.eta"},
		{"Mu above one", func(p *Params) { p.Mu = 1.5 }, "malthus.mu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			tt.mutate(&p)
			err := p.Validate()
			var invalid solver.InvalidInputError
			require.True(t, errors.As(err, &invalid))
			require.Equal(t, tt.field, invalid.Field)
		})
	}

	require.NoError(t, baseParams().Validate())
}

func TestTransitionInvalidInputs(t *testing.T) {
	p := baseParams()

	_, err := p.Transition(zap.NewNop(), 0, 10)
	var invalid solver.InvalidInputError
	require.True(t, errors.As(err, &invalid))
	require.Equal(t, "malthus.initial", invalid.Field)

	_, err = p.Transition(zap.NewNop(), 2, -1)
	require.True(t, errors.As(err, &invalid))

	bad := p
	bad.Mu = 0
	_, err = bad.Transition(zap.NewNop(), 2, 10)
	require.True(t, errors.As(err, &invalid))
}

func TestOutputScale(t *testing.T) {
	p := baseParams()
	// Doubling population scales output by 2^(1-alpha).
	require.InDelta(t, math.Pow(2, 1-p.Alpha), p.Output(2)/p.Output(1), 1e-12)
}

package complexity

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/retain"
	"github.com/gogpu/retain/displaylist"
)

// DefaultCeiling is the ceiling of calculators created without
// WithCeiling.
const DefaultCeiling uint = 1 << 30

// Calculator scores display lists.
type Calculator interface {
	// Compute returns the score of dl, or Ceiling()+1 when it exceeds the
	// ceiling. A nil list scores zero.
	Compute(dl *displaylist.DisplayList) uint
	// ShouldBeCached reports whether a list with score is expensive enough
	// to be worth caching as a texture.
	ShouldBeCached(score uint) bool
	SetCeiling(ceiling uint)
	Ceiling() uint
}

// IsComplex reports whether score was cut off at the ceiling of c.
func IsComplex(c Calculator, score uint) bool {
	return score > c.Ceiling()
}

// Option configures a calculator.
type Option func(*options)

type options struct {
	ceiling uint
}

// WithCeiling sets the score above which a calculator stops walking.
func WithCeiling(ceiling uint) Option {
	return func(o *options) { o.ceiling = min(ceiling, maxScore) }
}

func applyOptions(opts []Option) options {
	o := options{ceiling: DefaultCeiling}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ForBackend returns the calculator tuned for backend: Metal for
// BackendMetal, GL for BackendGL and the op-counting Naive calculator for
// every other backend.
func ForBackend(backend gputypes.Backend, opts ...Option) Calculator {
	switch backend {
	case gputypes.BackendMetal:
		return NewMetal(opts...)
	case gputypes.BackendGL:
		return NewGL(opts...)
	default:
		retain.Logger().Debug("complexity: no cost model for backend, counting ops",
			"backend", backend.String())
		return NewNaive(opts...)
	}
}

// Naive scores a list by its op count, nested lists included.
type Naive struct {
	ceiling uint
}

// NewNaive creates an op-counting calculator.
func NewNaive(opts ...Option) *Naive {
	return &Naive{ceiling: applyOptions(opts).ceiling}
}

// Compute counts the ops of dl, nested lists included.
func (n *Naive) Compute(dl *displaylist.DisplayList) uint {
	if dl == nil {
		return 0
	}
	count := uint(dl.OpCount(true))
	if count > n.ceiling {
		return n.ceiling + 1
	}
	return count
}

// ShouldBeCached reports true for lists of more than five ops.
func (n *Naive) ShouldBeCached(score uint) bool { return score > 5 }

// SetCeiling caps later scores.
func (n *Naive) SetCeiling(ceiling uint) { n.ceiling = min(ceiling, maxScore) }

// Ceiling returns the cap set by SetCeiling or WithCeiling.
func (n *Naive) Ceiling() uint { return n.ceiling }

// Estimator scores lists with a per-backend linear cost model. Use
// NewMetal or NewGL to create one.
type Estimator struct {
	model   *costModel
	ceiling uint
}

// NewMetal returns the calculator calibrated for Metal.
func NewMetal(opts ...Option) *Estimator {
	return &Estimator{model: &metalModel, ceiling: applyOptions(opts).ceiling}
}

// NewGL returns the calculator calibrated for OpenGL and GLES.
func NewGL(opts ...Option) *Estimator {
	return &Estimator{model: &glModel, ceiling: applyOptions(opts).ceiling}
}

// Name returns the backend the cost model was calibrated on.
func (e *Estimator) Name() string { return e.model.name }

// Compute walks dl and sums the model cost of each draw. Scores past the
// ceiling stop the walk early.
func (e *Estimator) Compute(dl *displaylist.DisplayList) uint {
	if dl == nil {
		return 0
	}
	w := newWalker(e.model, e.ceiling)
	dl.Dispatch(w)
	return w.result()
}

// ShouldBeCached compares score with the threshold of the backend.
func (e *Estimator) ShouldBeCached(score uint) bool { return score > e.model.cacheThreshold }

// SetCeiling caps later scores.
func (e *Estimator) SetCeiling(ceiling uint) { e.ceiling = min(ceiling, maxScore) }

// Ceiling returns the current cap.
func (e *Estimator) Ceiling() uint { return e.ceiling }

// Package complexity estimates how expensive a display list is to render
// on a given GPU backend.
//
// A Calculator walks a list's op stream without drawing anything and
// returns a score. Scores are only comparable between lists scored by the
// same calculator; they feed the decision whether a subtree is worth
// rasterizing into a cached texture (ShouldBeCached).
//
// Calculators stop accumulating once the score passes their ceiling and
// report Ceiling()+1 from then on, which bounds the time spent on very
// large lists:
//
//	calc := complexity.ForBackend(gputypes.BackendMetal, complexity.WithCeiling(500_000))
//	score := calc.Compute(dl)
//	if complexity.IsComplex(calc, score) || calc.ShouldBeCached(score) {
//	    // raster cache the layer
//	}
package complexity

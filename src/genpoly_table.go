package rsfec

// Generator polynomials for the small symbol sizes used on constrained
// targets, precomputed offline.  Leading coefficient first.
// TestPrecomputedGenerators checks them against computeGenerator.

var precomputedGenerators = []struct {
	m, t   int
	coeffs []Symbol
}{
	{4, 1, []Symbol{1, 1}},
	{4, 2, []Symbol{1, 3, 2}},
	{4, 3, []Symbol{1, 7, 14, 8}},
	{4, 4, []Symbol{1, 15, 3, 1, 12}},
	{4, 5, []Symbol{1, 12, 1, 4, 15, 7}},
	{4, 6, []Symbol{1, 10, 15, 2, 4, 3, 1}},
	{4, 7, []Symbol{1, 6, 14, 10, 15, 6, 6, 12}},
	{4, 8, []Symbol{1, 13, 1, 2, 13, 5, 9, 3, 13}},

	{5, 1, []Symbol{1, 1}},
	{5, 2, []Symbol{1, 3, 2}},
	{5, 3, []Symbol{1, 7, 14, 8}},
	{5, 4, []Symbol{1, 15, 19, 23, 10}},
	{5, 5, []Symbol{1, 31, 24, 15, 24, 17}},
	{5, 6, []Symbol{1, 26, 20, 24, 14, 6, 31}},
	{5, 7, []Symbol{1, 16, 11, 4, 5, 5, 6, 24}},
	{5, 8, []Symbol{1, 4, 12, 12, 31, 11, 8, 15, 22}},
}

func precomputedGenerator(m, t int) ([]Symbol, bool) {
	for _, p := range precomputedGenerators {
		if p.m == m && p.t == t {
			return p.coeffs, true
		}
	}
	return nil, false
}

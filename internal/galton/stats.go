package galton

import "math"

// Stats summarises a sealed distribution against the binomial law it should
// follow. A board with n bins has n-1 rows, so the landing index is
// (n-1) - Binomial(n-1, 1/2).
type Stats struct {
	Trials         int64
	Mean           float64
	StdDev         float64
	ExpectedMean   float64
	ExpectedStdDev float64
	// Peak is the index of the fullest bin; ties resolve to the lowest index.
	Peak int
	// ChiSquare is Pearson's statistic against the binomial expectation, with
	// len(bins)-1 degrees of freedom.
	ChiSquare float64
}

// ComputeStats derives Stats from sealed bins.
func ComputeStats(bins []Bin) Stats {
	var st Stats
	if len(bins) == 0 {
		return st
	}
	rows := len(bins) - 1
	st.ExpectedMean = float64(rows) / 2
	st.ExpectedStdDev = math.Sqrt(float64(rows)) / 2

	var weighted float64
	for _, b := range bins {
		st.Trials += b.Count
		weighted += float64(b.Index) * float64(b.Count)
		if b.Count > bins[st.Peak].Count {
			st.Peak = b.Index
		}
	}
	if st.Trials == 0 {
		return st
	}
	st.Mean = weighted / float64(st.Trials)

	var sq float64
	for _, b := range bins {
		d := float64(b.Index) - st.Mean
		sq += d * d * float64(b.Count)
	}
	st.StdDev = math.Sqrt(sq / float64(st.Trials))

	for _, b := range bins {
		expected := float64(st.Trials) * BinomialPMF(rows, b.Index)
		if expected > 0 {
			d := float64(b.Count) - expected
			st.ChiSquare += d * d / expected
		}
	}
	return st
}

// BinomialPMF returns P(X = k) for X ~ Binomial(n, 1/2). It is symmetric, so
// it is also the probability of landing in bin k of a board with n rows.
func BinomialPMF(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	lnChoose := lgamma(n+1) - lgamma(k+1) - lgamma(n-k+1)
	return math.Exp(lnChoose - float64(n)*math.Ln2)
}

func lgamma(x int) float64 {
	v, _ := math.Lgamma(float64(x))
	return v
}

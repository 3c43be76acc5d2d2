package promptbudget

import "strings"

// Estimator approximates how many encoder tokens a piece of text costs.
// The default whitespace estimator can be swapped for a real tokenizer
// without touching the composition/truncation contract.
type Estimator interface {
	EstimateUnits(text string) int
}

// WordCountEstimator approximates token usage as whitespace-delimited word
// count. Cheap and close enough for the 75-token CLIP encoder window.
type WordCountEstimator struct{}

func (WordCountEstimator) EstimateUnits(text string) int {
	return len(strings.Fields(text))
}

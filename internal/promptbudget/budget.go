// Package promptbudget compresses composed prompts into a fixed token
// budget while keeping high-priority style cues intact. The downstream
// text encoder silently drops everything past its window, so losing
// trailing content deliberately beats losing style fragments accidentally.
package promptbudget

import "strings"

// DefaultMaxUnits matches the CLIP text encoder window.
const DefaultMaxUnits = 75

// minTruncateUnits is the smallest leftover budget worth spending on a
// partial content segment.
const minTruncateUnits = 3

// maxStyleSegments caps how many style segments are kept verbatim.
const maxStyleSegments = 5

// priorityKeywords marks a comma segment as a style segment. Matching is
// case-insensitive substring search.
var priorityKeywords = []string{
	"style",
	"art",
	"illustration",
	"character",
	"storybook",
	"fantasy",
	"cartoon",
	"anime",
	"watercolor",
	"photorealistic",
	"cinematic",
	"whimsical",
}

// Budgeter fits prompts into a unit budget. The zero value is not usable;
// construct with New.
type Budgeter struct {
	maxUnits  int
	estimator Estimator
}

// New returns a Budgeter with the given budget. maxUnits <= 0 selects
// DefaultMaxUnits; a nil estimator selects WordCountEstimator.
func New(maxUnits int, est Estimator) *Budgeter {
	if maxUnits <= 0 {
		maxUnits = DefaultMaxUnits
	}
	if est == nil {
		est = WordCountEstimator{}
	}
	return &Budgeter{maxUnits: maxUnits, estimator: est}
}

// MaxUnits reports the configured budget.
func (b *Budgeter) MaxUnits() int { return b.maxUnits }

// Budget returns prompt unchanged when it fits the budget; otherwise it
// returns a compressed prompt and true. Compression keeps the first five
// style segments verbatim (later style segments are dropped), then greedily
// appends content segments in order,
// truncating at most the first content segment that overflows. Any panic inside
// the heuristic falls back to plain whole-prompt word truncation.
func (b *Budgeter) Budget(prompt string) (compressed string, truncated bool) {
	if b.estimator.EstimateUnits(prompt) <= b.maxUnits {
		return prompt, false
	}
	defer func() {
		if r := recover(); r != nil {
			compressed = truncateWords(prompt, b.maxUnits)
			truncated = true
		}
	}()
	return b.compress(prompt), true
}

func (b *Budgeter) compress(prompt string) string {
	var style, content []string
	for _, seg := range strings.Split(prompt, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if isStyleSegment(seg) {
			// Style segments past the cap are dropped outright. They never
			// compete for content budget and are never word-truncated.
			if len(style) < maxStyleSegments {
				style = append(style, seg)
			}
			continue
		}
		content = append(content, seg)
	}

	kept := style
	used := 0
	for _, seg := range kept {
		used += b.estimator.EstimateUnits(seg)
	}

	remaining := b.maxUnits - used
	for _, seg := range content {
		cost := b.estimator.EstimateUnits(seg)
		if cost <= remaining {
			kept = append(kept, seg)
			remaining -= cost
			continue
		}
		// First segment that does not fully fit: spend the leftover budget
		// on a word-level prefix, then stop. Later segments are dropped.
		if remaining > minTruncateUnits {
			kept = append(kept, b.truncateToUnits(seg, remaining))
		}
		break
	}
	return strings.Join(kept, ", ")
}

// truncateToUnits returns the longest word-prefix of text that costs at
// most units under the configured estimator.
func (b *Budgeter) truncateToUnits(text string, units int) string {
	words := strings.Fields(text)
	best := ""
	for i := 1; i <= len(words); i++ {
		candidate := strings.Join(words[:i], " ")
		if b.estimator.EstimateUnits(candidate) > units {
			break
		}
		best = candidate
	}
	return best
}

func isStyleSegment(seg string) bool {
	lower := strings.ToLower(seg)
	for _, kw := range priorityKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// truncateWords is the failure-path fallback: keep the first n
// whitespace-delimited words verbatim.
func truncateWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ")
}

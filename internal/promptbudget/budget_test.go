package promptbudget

import (
	"strings"
	"testing"
)

func TestBudgetShortPromptUnchanged(t *testing.T) {
	b := New(75, nil)
	for _, prompt := range []string{
		"",
		"a cat",
		"cartoon style, a boy and his dog",
		strings.TrimSpace(strings.Repeat("word ", 75)),
	} {
		got, truncated := b.Budget(prompt)
		if truncated {
			t.Fatalf("prompt %q: expected no truncation", prompt)
		}
		if got != prompt {
			t.Fatalf("prompt %q: expected unchanged, got %q", prompt, got)
		}
	}
}

func TestBudgetPreservesStyleSegments(t *testing.T) {
	b := New(75, nil)
	prompt := "illustration, storybook art, a boy and his dog walk through " + strings.Repeat("word ", 100)
	got, truncated := b.Budget(prompt)
	if !truncated {
		t.Fatalf("expected truncation")
	}
	if !strings.HasPrefix(got, "illustration, storybook art, ") {
		t.Fatalf("style segments not preserved verbatim: %q", got)
	}
	if n := len(strings.Fields(got)); n > 75 {
		t.Fatalf("compressed prompt has %d units, budget is 75", n)
	}
}

func TestBudgetKeepsAtMostFiveStyleSegments(t *testing.T) {
	b := New(20, nil)
	segs := []string{
		"cartoon style", "anime style", "watercolor art", "storybook art",
		"fantasy illustration", "cinematic style",
	}
	prompt := strings.Join(segs, ", ") + ", " + strings.Repeat("filler ", 50)
	got, truncated := b.Budget(prompt)
	if !truncated {
		t.Fatalf("expected truncation")
	}
	for _, s := range segs[:5] {
		if !strings.Contains(got, s) {
			t.Fatalf("expected style segment %q kept, got %q", s, got)
		}
	}
	// The sixth style segment is dropped outright; it is never demoted to
	// content or word-truncated into the leftover budget.
	if strings.Contains(got, "cinematic") {
		t.Fatalf("expected sixth style segment dropped, got %q", got)
	}
}

func TestBudgetDropsSegmentsAfterFirstTruncation(t *testing.T) {
	b := New(10, nil)
	prompt := "cartoon style, one two three four five six seven eight nine ten eleven, never appears"
	got, truncated := b.Budget(prompt)
	if !truncated {
		t.Fatalf("expected truncation")
	}
	if strings.Contains(got, "never appears") {
		t.Fatalf("segments after the truncated one must be dropped: %q", got)
	}
	if n := len(strings.Fields(got)); n > 10 {
		t.Fatalf("compressed prompt has %d units, budget is 10", n)
	}
}

func TestBudgetSkipsTinyLeftoverBudget(t *testing.T) {
	// Style segment costs 2 units; with budget 5 the leftover is 3, which
	// is not worth a partial content segment.
	b := New(5, nil)
	prompt := "cartoon style, alpha beta gamma delta epsilon zeta"
	got, truncated := b.Budget(prompt)
	if !truncated {
		t.Fatalf("expected truncation")
	}
	if got != "cartoon style" {
		t.Fatalf("expected bare style segment, got %q", got)
	}
}

func TestBudgetContentOrderPreserved(t *testing.T) {
	b := New(12, nil)
	prompt := "anime style, first chunk here, second chunk there, " + strings.Repeat("pad ", 40)
	got, truncated := b.Budget(prompt)
	if !truncated {
		t.Fatalf("expected truncation")
	}
	i := strings.Index(got, "first chunk here")
	j := strings.Index(got, "second chunk there")
	if i < 0 || j < 0 || j < i {
		t.Fatalf("content segments out of order: %q", got)
	}
}

// panicEstimator triggers the fallback path.
type panicEstimator struct{ calls int }

func (p *panicEstimator) EstimateUnits(text string) int {
	p.calls++
	if p.calls == 1 {
		return len(strings.Fields(text)) // let the over-budget check pass
	}
	panic("estimator blew up")
}

func TestBudgetFallbackOnPanic(t *testing.T) {
	b := New(5, &panicEstimator{})
	got, truncated := b.Budget("one two three four five six seven")
	if !truncated {
		t.Fatalf("expected truncation on fallback path")
	}
	if got != "one two three four five" {
		t.Fatalf("expected plain word truncation fallback, got %q", got)
	}
}

func TestNewDefaults(t *testing.T) {
	b := New(0, nil)
	if b.MaxUnits() != DefaultMaxUnits {
		t.Fatalf("expected default budget %d, got %d", DefaultMaxUnits, b.MaxUnits())
	}
}

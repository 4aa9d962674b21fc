package bid

import (
	"math"
	"testing"
)

func TestScoreFormula(t *testing.T) {
	got := Score(50000, 4.5)
	want := 0.7*(1.0/50000) + 0.3*(4.5/5.0)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("Score(50000, 4.5) = %v, want %v", got, want)
	}
}

func TestScoreOrdering(t *testing.T) {
	if Score(100, 3) <= Score(200, 3) {
		t.Fatalf("expected cheaper rate to score higher at equal rating")
	}
	if Score(100, 5) <= Score(100, 3) {
		t.Fatalf("expected higher rating to score higher at equal rate")
	}
}

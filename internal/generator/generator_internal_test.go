package generator

import (
	"math/rand/v2"
	"testing"
)

func TestClamp(t *testing.T) {
	for in, want := range map[float64]float64{-0.2: 0, 0.4: 0.4, 1.3: 1} {
		if got := clamp(in); got != want {
			t.Fatalf("clamp(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestWeightedIndex_FollowsWeights(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	counts := make([]int, len(deviceWeights))
	const n = 20000
	for range n {
		counts[weightedIndex(r, deviceWeights)]++
	}
	// 60/30/10 split within a generous tolerance
	for i, w := range deviceWeights {
		share := float64(counts[i]) * 100 / n
		if share < float64(w)-3 || share > float64(w)+3 {
			t.Fatalf("index %d share %.1f%%, want about %d%%", i, share, w)
		}
	}

	never := []int{0, 5, 0}
	for range 100 {
		if got := weightedIndex(r, never); got != 1 {
			t.Fatalf("zero-weight bucket chosen: %d", got)
		}
	}
}

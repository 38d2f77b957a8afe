// Package scoring aggregates per-dimension subscores into the job's overall
// score.
package scoring

import "math"

// Overall returns the arithmetic mean of the subscores rounded to the
// nearest integer, clamped to [0, 100]. With no subscores it returns 0.
func Overall(subscores []int) int {
	if len(subscores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range subscores {
		sum += s
	}
	mean := float64(sum) / float64(len(subscores))
	score := int(math.Round(mean))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

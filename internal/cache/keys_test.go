package cache

import (
	"testing"

	"github.com/google/uuid"
)

func TestAnalysisKey(t *testing.T) {
	id := uuid.MustParse("7f9c24e5-2b3a-4b8e-9f10-aabbccddeeff")
	got := AnalysisKey(id)
	want := "analysis:7f9c24e5-2b3a-4b8e-9f10-aabbccddeeff"
	if got != want {
		t.Errorf("AnalysisKey = %q, want %q", got, want)
	}
}

func TestRateLimitKey(t *testing.T) {
	got := RateLimitKey("rl_abc12")
	if got != "ratelimit:rl_abc12" {
		t.Errorf("RateLimitKey = %q", got)
	}
}

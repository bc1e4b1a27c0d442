package ratelimit

import "testing"

func TestIsRateLimitedBoundary(t *testing.T) {
	cases := []struct {
		count int
		want  bool
	}{
		{0, false},
		{1, false},
		{59, false},
		{60, true},
		{61, true},
		{100000, true},
	}
	for _, tc := range cases {
		if got := isRateLimited(tc.count, DefaultMaxRequests); got != tc.want {
			t.Fatalf("isRateLimited(%d, %d)=%v, want %v", tc.count, DefaultMaxRequests, got, tc.want)
		}
	}
}

func TestRateKey(t *testing.T) {
	if got := rateKey("203.0.113.7"); got != "rate:203.0.113.7" {
		t.Fatalf("rateKey: got=%q", got)
	}
	if got := rateKey("unknown"); got != "rate:unknown" {
		t.Fatalf("rateKey: got=%q", got)
	}
}

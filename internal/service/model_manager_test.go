package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsTransientFailure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"timeout", errors.New("context deadline exceeded: timeout"), true},
		{"etimedout", errors.New("dial tcp: ETIMEDOUT"), true},
		{"connection refused", errors.New("connection refused"), true},
		{"connection reset", errors.New("connection reset by peer"), true},
		{"bare 503", errors.New("server returned 503"), true},
		{"gemini 503 body", fmt.Errorf(`googleapi: Error {"code":503,"message":"unavailable"}`), true},
		{"gemini 500 body", fmt.Errorf(`{"code":500,"message":"internal"}`), true},
		{"openai 502 prefix", errors.New("502 Bad Gateway"), true},
		{"quota", errors.New("quota exceeded for project"), false},
		{"rate limit", errors.New("429 Rate limit reached"), false},
		{"bad api key", errors.New("API key invalid"), false},
		{"permission denied", errors.New("PERMISSION_DENIED"), false},
		{"gemini 429 body", fmt.Errorf(`{"code":429,"message":"resource exhausted"}`), false},
		{"plain failure", errors.New("something else went wrong"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTransientFailure(tc.err); got != tc.want {
				t.Errorf("IsTransientFailure(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsAuthOrQuotaFailure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"401", errors.New("401 Unauthorized"), true},
		{"403", errors.New("http status 403"), true},
		{"429", errors.New("429 Too Many Requests"), true},
		{"quota", errors.New("quota exceeded"), true},
		{"api key", errors.New("API key not valid"), true},
		{"unauthenticated", errors.New("rpc error: UNAUTHENTICATED"), true},
		{"gemini 403 body", fmt.Errorf(`{"code":403,"message":"forbidden"}`), true},
		{"server error", errors.New("server returned 503"), false},
		{"timeout", errors.New("timeout waiting for response"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAuthOrQuotaFailure(tc.err); got != tc.want {
				t.Errorf("IsAuthOrQuotaFailure(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestEmbeddedStatusCode(t *testing.T) {
	cases := []struct {
		msg      string
		wantCode int
		wantOK   bool
	}{
		{`{"code":503,"message":"unavailable"}`, 503, true},
		{`{"code":429,"message":"exhausted"}`, 429, true},
		{"502 Bad Gateway", 502, true},
		{"no codes here", 0, false},
	}

	for _, tc := range cases {
		code, ok := embeddedStatusCode(tc.msg)
		if code != tc.wantCode || ok != tc.wantOK {
			t.Errorf("embeddedStatusCode(%q) = (%d, %v), want (%d, %v)",
				tc.msg, code, ok, tc.wantCode, tc.wantOK)
		}
	}
}

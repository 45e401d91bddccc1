package inference

import (
	"math"
	"reflect"
	"testing"
)

func TestResolveRequestDefaults(t *testing.T) {
	t.Parallel()

	req := ResolveRequest(RequestOptions{}, GenDefaults{})
	if req.Steps != DefaultSteps || req.Seed != -1 || req.Stop != nil {
		t.Fatalf("unexpected defaults %+v", req)
	}
}

func TestResolveRequestPrecedence(t *testing.T) {
	t.Parallel()

	modelSteps, modelSeed := 25, int64(7)
	reqSteps, reqSeed := 4, int64(99)

	req := ResolveRequest(RequestOptions{}, GenDefaults{Steps: &modelSteps, Seed: &modelSeed})
	if req.Steps != 25 || req.Seed != 7 {
		t.Fatalf("model defaults not applied: %+v", req)
	}

	req = ResolveRequest(
		RequestOptions{Steps: &reqSteps, Seed: &reqSeed, Stop: []string{"."}},
		GenDefaults{Steps: &modelSteps, Seed: &modelSeed},
	)
	if req.Steps != 4 || req.Seed != 99 || !reflect.DeepEqual(req.Stop, []string{"."}) {
		t.Fatalf("request options should win: %+v", req)
	}

	zero := 0
	req = ResolveRequest(RequestOptions{Steps: &zero}, GenDefaults{})
	if req.Steps != DefaultSteps {
		t.Fatalf("non-positive steps should keep the default, got %d", req.Steps)
	}
}

func TestResolveRequestClampsSteps(t *testing.T) {
	t.Parallel()

	huge := 1 << 62
	req := ResolveRequest(RequestOptions{Steps: &huge}, GenDefaults{})
	if req.Steps != MaxSteps {
		t.Fatalf("expected steps clamped to %d, got %d", MaxSteps, req.Steps)
	}

	modelSteps := MaxSteps + 1
	req = ResolveRequest(RequestOptions{}, GenDefaults{Steps: &modelSteps})
	if req.Steps != MaxSteps {
		t.Fatalf("model default should be clamped too, got %d", req.Steps)
	}
}

func TestDeriveSeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seed     int64
		i        int
		expected int64
	}{
		{-1, 3, -1},
		{0, 0, 0},
		{7, 2, 9},
		{math.MaxInt64, 0, math.MaxInt64},
		{math.MaxInt64, 1, 0},
		{math.MaxInt64 - 1, 3, 1},
	}
	for _, tc := range tests {
		if got := DeriveSeed(tc.seed, tc.i); got != tc.expected {
			t.Errorf("DeriveSeed(%d, %d): expected %d, got %d", tc.seed, tc.i, tc.expected, got)
		}
	}
}

func TestParseStop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    any
		expected []string
	}{
		{nil, nil},
		{".", []string{"."}},
		{"  ", nil},
		{[]any{".", 3, "!", ""}, []string{".", "!"}},
		{[]string{"?"}, []string{"?"}},
	}
	for _, tc := range tests {
		got := ParseStop(tc.input)
		if len(got) == 0 && len(tc.expected) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("ParseStop(%v): expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}

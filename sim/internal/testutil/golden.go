// Package testutil provides shared test infrastructure for the allocator
// simulator: golden scenario types and assertion helpers used across the
// sim/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenStep is one scripted allocation request.
type GoldenStep struct {
	Size    int `json:"size"`
	Hold    int `json:"hold"`
	Arrival int `json:"arrival"`
}

// GoldenTestCase is a scripted run together with its expected outcome.
type GoldenTestCase struct {
	Name     string        `json:"name"`
	Capacity int           `json:"capacity"`
	Budget   int           `json:"budget"`
	Steps    []GoldenStep  `json:"steps"`
	Expect   GoldenOutcome `json:"expect"`
}

// GoldenOutcome is the expected end state of a golden run.
type GoldenOutcome struct {
	State          string `json:"state"`
	Clock          int64  `json:"clock"`
	Allocations    int    `json:"allocations"`
	Releases       int    `json:"releases"`
	FreeBlockSizes []int  `json:"free_block_sizes"` // address order
	TotalFree      int    `json:"total_free"`
	TotalAllocated int    `json:"total_allocated"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

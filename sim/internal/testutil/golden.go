// Package testutil provides shared test infrastructure for the queue simulator.
// It holds the golden scenario types and assertion helpers used by sim/ tests.
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

// GoldenTestCase is one hand-computed simulation scenario.
// An empty Configs list means the expectation holds for every discipline/sort pair.
type GoldenTestCase struct {
	Name      string           `json:"name"`
	Configs   []GoldenConfig   `json:"configs"`
	Customers []GoldenCustomer `json:"customers"`
	Expected  GoldenExpected   `json:"expected"`
}

// GoldenConfig names a discipline/sort pair.
type GoldenConfig struct {
	Discipline string `json:"discipline"`
	Sort       string `json:"sort"`
}

// GoldenCustomer is one input record.
type GoldenCustomer struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	ServiceDuration float64 `json:"service_duration"`
	ArrivalTime     float64 `json:"arrival_time"`
}

// GoldenExpected holds the expected dispatch schedule and statistics.
type GoldenExpected struct {
	ServedOrder   []string  `json:"served_order"`
	ServiceStarts []float64 `json:"service_starts"`

	Count        int     `json:"count"`
	TotalWait    float64 `json:"total_wait"`
	MeanWait     float64 `json:"mean_wait"`
	TotalService float64 `json:"total_service"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
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

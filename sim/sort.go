package sim

import (
	"cmp"
	"fmt"
)

// SortAlgorithm names the comparison sort used to order arrivals.
type SortAlgorithm string

const (
	SortMerge SortAlgorithm = "merge"
	SortQuick SortAlgorithm = "quick"
)

// validSortAlgorithms is the set of recognized sort names. Empty defaults to merge.
var validSortAlgorithms = map[string]bool{"": true, "merge": true, "quick": true}

// IsValidSortAlgorithm returns true if name is a recognized sort algorithm.
func IsValidSortAlgorithm(name string) bool {
	return validSortAlgorithms[name]
}

// ValidSortAlgorithmNames returns the accepted names for CLI help text.
func ValidSortAlgorithmNames() []string {
	return []string{string(SortMerge), string(SortQuick)}
}

// Sorter returns a new slice of customers ordered ascending by key.
// Implementations never modify their input.
type Sorter func(customers []*Customer, key func(*Customer) float64) []*Customer

// NewSorter creates a Sorter by name.
// Empty string defaults to merge sort.
// Panics on unrecognized names.
func NewSorter(name SortAlgorithm) Sorter {
	if !IsValidSortAlgorithm(string(name)) {
		panic(fmt.Sprintf("unknown sort algorithm %q", name))
	}
	switch name {
	case "", SortMerge:
		return MergeSort[*Customer, float64]
	case SortQuick:
		return QuickSort[*Customer, float64]
	default:
		panic(fmt.Sprintf("unhandled sort algorithm %q", name))
	}
}

// ComplexityHint returns the report's textual complexity note for a sort algorithm.
func ComplexityHint(name SortAlgorithm) string {
	switch name {
	case "", SortMerge:
		return "O(n log n)"
	case SortQuick:
		return "O(n log n) average, O(n^2) worst case (bad pivot)"
	default:
		return "unknown"
	}
}

// MergeSort is a top-down merge sort. Stable: on equal keys the merge takes from the left run.
// Always O(n log n).
func MergeSort[T any, K cmp.Ordered](items []T, key func(T) K) []T {
	if len(items) <= 1 {
		return append([]T(nil), items...)
	}
	mid := len(items) / 2
	left := MergeSort(items[:mid], key)
	right := MergeSort(items[mid:], key)

	merged := make([]T, 0, len(items))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if key(left[i]) <= key(right[j]) {
			merged = append(merged, left[i])
			i++
		} else {
			merged = append(merged, right[j])
			j++
		}
	}
	merged = append(merged, left[i:]...)
	merged = append(merged, right[j:]...)
	return merged
}

// QuickSort sorts a copy of items with a three-way partition around the middle element.
// Elements equal to the pivot are grouped together, so relative order among equal keys
// is not preserved. Average O(n log n), worst case O(n^2).
func QuickSort[T any, K cmp.Ordered](items []T, key func(T) K) []T {
	out := append([]T(nil), items...)
	quickSort(out, key)
	return out
}

// quickSort recurses into the smaller partition and loops on the larger,
// keeping stack depth at O(log n) even when partitions are unbalanced.
func quickSort[T any, K cmp.Ordered](a []T, key func(T) K) {
	for len(a) > 1 {
		pivot := key(a[len(a)/2])
		// Dijkstra partition: a[:lt] < pivot, a[lt:i] == pivot, a[gt+1:] > pivot
		lt, i, gt := 0, 0, len(a)-1
		for i <= gt {
			switch k := key(a[i]); {
			case k < pivot:
				a[lt], a[i] = a[i], a[lt]
				lt++
				i++
			case k > pivot:
				a[i], a[gt] = a[gt], a[i]
				gt--
			default:
				i++
			}
		}
		left, right := a[:lt], a[gt+1:]
		if len(left) < len(right) {
			quickSort(left, key)
			a = right
		} else {
			quickSort(right, key)
			a = left
		}
	}
}

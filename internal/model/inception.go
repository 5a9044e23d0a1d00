package model

import "fmt"

// InceptionKind identifies which form of creation date was recognized
type InceptionKind string

const (
	InceptionExact       InceptionKind = "exact"        // Single known year
	InceptionExactApprox InceptionKind = "exact_approx" // Circa year
	InceptionExactAfter  InceptionKind = "exact_after"  // Lower bound only
	InceptionRange       InceptionKind = "range"        // Year span
	InceptionRangeApprox InceptionKind = "range_approx" // Circa year span
)

// Inception is a normalized creation date for an artwork. Exactly one kind
// is set per value; Year is used for the exact kinds, Start/End for ranges.
type Inception struct {
	Kind  InceptionKind `json:"kind" yaml:"kind"`
	Year  int           `json:"year,omitempty" yaml:"year,omitempty"`
	Start int           `json:"start,omitempty" yaml:"start,omitempty"`
	End   int           `json:"end,omitempty" yaml:"end,omitempty"`
}

// IsRange reports whether the inception is a year span
func (i Inception) IsRange() bool {
	return i.Kind == InceptionRange || i.Kind == InceptionRangeApprox
}

// Approx reports whether the year or span is an estimate (circa)
func (i Inception) Approx() bool {
	return i.Kind == InceptionExactApprox || i.Kind == InceptionRangeApprox
}

func (i Inception) String() string {
	switch i.Kind {
	case InceptionExact:
		return fmt.Sprintf("%d", i.Year)
	case InceptionExactApprox:
		return fmt.Sprintf("c. %d", i.Year)
	case InceptionExactAfter:
		return fmt.Sprintf("after %d", i.Year)
	case InceptionRange:
		return fmt.Sprintf("%d-%d", i.Start, i.End)
	case InceptionRangeApprox:
		return fmt.Sprintf("c. %d-%d", i.Start, i.End)
	default:
		return "unknown"
	}
}

package experiment

import (
	"fmt"
	"strings"
)

// Size buckets a query graph by vertex count.
type Size string

const (
	SizeSmall  Size = "small"  // fewer than 10 vertices
	SizeMedium Size = "medium" // 10 to 20 vertices
	SizeLarge  Size = "large"  // more than 20 vertices
)

// Density buckets a query graph by average degree.
type Density string

const (
	DensitySparse Density = "sparse" // average degree below 5
	DensityDense  Density = "dense"
)

// Classification thresholds.
const (
	smallBelow    = 10
	mediumUpTo    = 20
	denseAtDegree = 5.0
)

// Category is the pattern category of a query graph, e.g. small_dense.
type Category struct {
	Size    Size
	Density Density
}

// String returns "<size>_<density>".
func (c Category) String() string { return string(c.Size) + "_" + string(c.Density) }

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CategoryOrder is the order in which categories are run.
var CategoryOrder = []Category{
	{SizeSmall, DensityDense},
	{SizeSmall, DensitySparse},
	{SizeMedium, DensityDense},
	{SizeMedium, DensitySparse},
	{SizeLarge, DensityDense},
	{SizeLarge, DensitySparse},
}

// ParseCategory parses a category name such as "medium_sparse".
func ParseCategory(s string) (Category, error) {
	for _, c := range CategoryOrder {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("unknown pattern category %q", s)
}

// Classify assigns the category of a query with the given vertex and edge
// counts as declared in its header. The average degree is 2E/V, zero for
// an empty graph.
func Classify(vertices, edges int) Category {
	var c Category
	switch {
	case vertices < smallBelow:
		c.Size = SizeSmall
	case vertices <= mediumUpTo:
		c.Size = SizeMedium
	default:
		c.Size = SizeLarge
	}

	avg := 0.0
	if vertices > 0 {
		avg = 2 * float64(edges) / float64(vertices)
	}
	if avg < denseAtDegree {
		c.Density = DensitySparse
	} else {
		c.Density = DensityDense
	}
	return c
}

// Limits are the engine limits applied to one query.
type Limits struct {
	TimeoutSeconds int
	ResultLimit    int64
}

// AdaptiveLimits picks the limits for a query category: small queries get
// the short timeout, everything else the long one.
func (l LimitsConfig) AdaptiveLimits(c Category) Limits {
	timeout := l.DefaultTimeoutSeconds
	if c.Size == SizeSmall {
		timeout = l.SmallTimeoutSeconds
	}
	return Limits{TimeoutSeconds: timeout, ResultLimit: l.ResultLimit}
}

package shape

import (
	"fmt"
	"math"
)

// Bound is a cardinality limit: a non-negative count or Many (unbounded).
type Bound struct {
	n    int
	many bool
}

var (
	// Zero is the bound 0.
	Zero = Bound{n: 0}
	// One is the bound 1.
	One = Bound{n: 1}
	// Many is the unbounded limit.
	Many = Bound{many: true}
)

// Exactly returns the bound n. A negative n is kept as given and rejected
// by NewCardinality.
func Exactly(n int) Bound {
	return Bound{n: n}
}

// IsMany reports whether the bound is unbounded.
func (b Bound) IsMany() bool { return b.many }

// Value returns the numeric bound, or math.MaxInt for Many.
func (b Bound) Value() int {
	if b.many {
		return math.MaxInt
	}
	return b.n
}

func (b Bound) String() string {
	if b.many {
		return "many"
	}
	return fmt.Sprintf("%d", b.n)
}

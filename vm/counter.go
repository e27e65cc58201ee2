package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Counter: unbounded non-negative integer
// ---------------------------------------------------------------------------

const (
	// GroupRadix is the base of one digit group.
	GroupRadix = 1_000_000

	// GroupDigits is the number of decimal digits in a full group.
	GroupDigits = 6
)

// Counter is an arbitrary-precision non-negative integer stored as base
// 1_000_000 digit groups, least significant group first.
//
// The representation is never empty (zero is a single 0 group) and never
// carries a most-significant zero group beyond that single-group zero.
type Counter struct {
	groups []uint32
}

// NewCounter returns a counter holding zero.
func NewCounter() *Counter {
	return &Counter{groups: []uint32{0}}
}

// Increment adds one, carrying into higher groups as needed.
func (c *Counter) Increment() {
	c.init()
	for i := range c.groups {
		c.groups[i]++
		if c.groups[i] < GroupRadix {
			return
		}
		c.groups[i] -= GroupRadix
	}
	c.groups = append(c.groups, 1)
}

// Decrement subtracts one. It returns false and leaves the counter
// unchanged when the counter is already zero.
func (c *Counter) Decrement() bool {
	if c.IsZero() {
		return false
	}
	for i := range c.groups {
		if c.groups[i] > 0 {
			c.groups[i]--
			break
		}
		c.groups[i] = GroupRadix - 1
	}
	c.trim()
	return true
}

// Add adds the value of other to c. Adding a counter to itself doubles it.
func (c *Counter) Add(other *Counter) {
	c.init()
	src := other.groups
	if other == c {
		src = append([]uint32(nil), c.groups...)
	}
	if len(src) == 0 {
		return
	}

	work := max(len(c.groups), len(src))
	for len(c.groups) < work {
		c.groups = append(c.groups, 0)
	}

	var carry uint32
	i := 0
	for ; i < len(src); i++ {
		sum := c.groups[i] + src[i] + carry
		if sum >= GroupRadix {
			c.groups[i] = sum - GroupRadix
			carry = 1
		} else {
			c.groups[i] = sum
			carry = 0
		}
	}
	for ; carry == 1 && i < len(c.groups); i++ {
		c.groups[i]++
		if c.groups[i] < GroupRadix {
			carry = 0
		} else {
			c.groups[i] -= GroupRadix
		}
	}
	if carry == 1 {
		c.groups = append(c.groups, 1)
	}
}

// Clear resets the counter to zero.
func (c *Counter) Clear() {
	if cap(c.groups) == 0 {
		c.groups = []uint32{0}
		return
	}
	c.groups = c.groups[:1]
	c.groups[0] = 0
}

// IsZero reports whether the counter holds zero.
func (c *Counter) IsZero() bool {
	return len(c.groups) == 0 || (len(c.groups) == 1 && c.groups[0] == 0)
}

// String renders the counter as a base-10 string without leading zeros.
func (c *Counter) String() string {
	if c.IsZero() {
		return "0"
	}
	var sb strings.Builder
	sb.Grow(len(c.groups) * GroupDigits)
	top := len(c.groups) - 1
	sb.WriteString(strconv.FormatUint(uint64(c.groups[top]), 10))
	for i := top - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%0*d", GroupDigits, c.groups[i])
	}
	return sb.String()
}

// Len returns the number of digit groups.
func (c *Counter) Len() int {
	if len(c.groups) == 0 {
		return 1
	}
	return len(c.groups)
}

// Groups returns a copy of the digit groups, least significant first.
func (c *Counter) Groups() []uint32 {
	if len(c.groups) == 0 {
		return []uint32{0}
	}
	return append([]uint32(nil), c.groups...)
}

// Copy returns an independent counter with the same value.
func (c *Counter) Copy() *Counter {
	return &Counter{groups: c.Groups()}
}

// Check verifies the representation invariants. It returns nil for every
// counter produced by the exported operations.
func (c *Counter) Check() error {
	if len(c.groups) == 0 {
		return fmt.Errorf("counter: empty representation")
	}
	for i, g := range c.groups {
		if g >= GroupRadix {
			return fmt.Errorf("counter: group %d holds %d, radix is %d", i, g, GroupRadix)
		}
	}
	if len(c.groups) > 1 && c.groups[len(c.groups)-1] == 0 {
		return fmt.Errorf("counter: leading zero group in %d-group value", len(c.groups))
	}
	return nil
}

// init gives a zero-value Counter its canonical zero representation.
func (c *Counter) init() {
	if len(c.groups) == 0 {
		c.groups = append(c.groups, 0)
	}
}

// trim drops a most-significant group emptied by a borrow.
func (c *Counter) trim() {
	if n := len(c.groups); n > 1 && c.groups[n-1] == 0 {
		c.groups = c.groups[:n-1]
	}
}

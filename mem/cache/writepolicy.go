package cache

import "fmt"

// A WritePolicy decides how writes propagate to the next level.
type WritePolicy int

// The supported write policies.
const (
	// WriteBack dirties the block on a write and defers the traffic to the
	// eviction of the block.
	WriteBack WritePolicy = iota

	// WriteThrough mirrors every write to the next level and never leaves a
	// block dirty.
	WriteThrough
)

func (p WritePolicy) String() string {
	switch p {
	case WriteBack:
		return "writeBack"
	case WriteThrough:
		return "writeThrough"
	default:
		panic("invalid write policy")
	}
}

// ParseWritePolicy converts a write policy name into a WritePolicy.
func ParseWritePolicy(name string) (WritePolicy, error) {
	switch name {
	case "writeBack", "writeback", "write-back", "wb":
		return WriteBack, nil
	case "writeThrough", "writethrough", "write-through", "wt":
		return WriteThrough, nil
	default:
		return WriteBack, fmt.Errorf("unknown write policy %q", name)
	}
}

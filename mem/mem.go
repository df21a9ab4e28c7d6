// Package mem provides the definitions shared by all the memory system
// models in the simulator.
package mem

// Common byte size units.
const (
	KB = 1 << 10
	MB = 1 << 20
	GB = 1 << 30
)

// An Access is a single memory reference from a trace. Only the address and
// the access direction matter; data bytes are not modeled.
type Access struct {
	Address uint64
	IsWrite bool
}

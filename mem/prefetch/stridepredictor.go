package prefetch

// strideEntry tracks the access pattern observed through one coarse PC.
type strideEntry struct {
	lastAddress uint64
	stride      int64
	lastStride  int64
	confidence  uint8
	valid       bool
}

const maxConfidence = 3

// confidenceThreshold is the minimum confidence at which a stored stride is
// reported as a prediction.
const confidenceThreshold = 2

// A StridePredictor is a direct-mapped table of stride entries keyed by a
// coarse PC proxy. Real program counters are absent in address-only traces,
// so the high 16 bits of the address stand in for the PC.
type StridePredictor struct {
	table []strideEntry

	updates     uint64
	predictions uint64
	correct     uint64
}

// NewStridePredictor creates a predictor with a table of size entries.
func NewStridePredictor(size int) *StridePredictor {
	if size <= 0 {
		size = 1
	}

	return &StridePredictor{
		table: make([]strideEntry, size),
	}
}

func (p *StridePredictor) index(addr uint64) int {
	coarsePC := addr >> 16
	return int(coarsePC % uint64(len(p.table)))
}

// Update records an observed access. A repeated stride raises the entry's
// confidence toward saturation; a broken stride replaces the stride and
// lowers the confidence.
func (p *StridePredictor) Update(addr uint64) {
	p.updates++

	entry := &p.table[p.index(addr)]
	if !entry.valid {
		entry.valid = true
		entry.stride = 0
		entry.confidence = 0
		entry.lastAddress = addr

		return
	}

	currentStride := int64(addr) - int64(entry.lastAddress)
	p.predictions++

	if currentStride == entry.stride {
		if entry.confidence < maxConfidence {
			entry.confidence++
		}
		p.correct++
	} else {
		entry.lastStride = entry.stride
		entry.stride = currentStride
		if entry.confidence > 0 {
			entry.confidence--
		}
	}

	entry.lastAddress = addr
}

// GetStride returns the stride predicted for addr, or 0 when the entry has
// not yet reached the confidence threshold.
func (p *StridePredictor) GetStride(addr uint64) int64 {
	entry := &p.table[p.index(addr)]
	if !entry.valid || entry.confidence < confidenceThreshold {
		return 0
	}

	return entry.stride
}

// Confidence returns the confidence counter of the entry mapped by addr.
func (p *StridePredictor) Confidence(addr uint64) uint8 {
	return p.table[p.index(addr)].confidence
}

// Accuracy returns the fraction of stride checks that matched the stored
// stride.
func (p *StridePredictor) Accuracy() float64 {
	if p.predictions == 0 {
		return 0
	}

	return float64(p.correct) / float64(p.predictions)
}

// TableSize returns the number of entries in the table.
func (p *StridePredictor) TableSize() int {
	return len(p.table)
}

// Reset invalidates every entry and zeroes the counters.
func (p *StridePredictor) Reset() {
	for i := range p.table {
		p.table[i] = strideEntry{}
	}
	p.updates = 0
	p.predictions = 0
	p.correct = 0
}

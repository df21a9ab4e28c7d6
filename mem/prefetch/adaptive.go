package prefetch

// A Mode selects how prefetch addresses are synthesized.
type Mode int

// The prefetching modes. Adaptive switches between Sequential and Stride
// based on which has the higher observed confidence.
const (
	Sequential Mode = iota
	Stride
	Adaptive
)

func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Stride:
		return "stride"
	case Adaptive:
		return "adaptive"
	default:
		panic("invalid prefetch mode")
	}
}

// ema smoothing factor for the per-mode confidence estimates.
const confidenceAlpha = 0.1

// An AdaptivePrefetcher tracks how useful issued prefetches turn out to be
// and tunes the prefetch distance and, in Adaptive mode, the synthesis mode.
type AdaptivePrefetcher struct {
	mode   Mode
	active Mode

	seqConfidence    float64
	strideConfidence float64

	distance    int
	maxDistance int

	useful  uint64
	useless uint64
	issued  uint64
}

// NewAdaptivePrefetcher creates a prefetcher in the given mode with a
// starting distance of one block and the given distance cap.
func NewAdaptivePrefetcher(mode Mode, maxDistance int) *AdaptivePrefetcher {
	if maxDistance < 1 {
		maxDistance = 1
	}

	active := mode
	if mode == Adaptive {
		active = Sequential
	}

	return &AdaptivePrefetcher{
		mode:        mode,
		active:      active,
		distance:    1,
		maxDistance: maxDistance,
	}
}

// RecordIssue counts a prefetch sent toward the next level.
func (p *AdaptivePrefetcher) RecordIssue() {
	p.issued++
}

// RecordOutcome feeds the usefulness of one finished prefetch into the
// moving confidence estimate of the active mode.
func (p *AdaptivePrefetcher) RecordOutcome(useful bool) {
	gain := 0.0
	if useful {
		gain = confidenceAlpha
		p.useful++
	} else {
		p.useless++
	}

	switch p.active {
	case Stride:
		p.strideConfidence = p.strideConfidence*(1-confidenceAlpha) + gain
	default:
		p.seqConfidence = p.seqConfidence*(1-confidenceAlpha) + gain
	}
}

// Adapt reconsiders the prefetch distance and, in Adaptive mode, the active
// synthesis mode. Called periodically by the hierarchy.
func (p *AdaptivePrefetcher) Adapt() {
	total := p.useful + p.useless

	var accuracy float64
	if total > 0 {
		accuracy = float64(p.useful) / float64(total)

		if accuracy > 0.8 {
			p.distance *= 2
			if p.distance > p.maxDistance {
				p.distance = p.maxDistance
			}
		} else if accuracy < 0.5 {
			p.distance /= 2
			if p.distance < 1 {
				p.distance = 1
			}
		}
	}

	if p.mode == Adaptive {
		p.adaptMode(total, accuracy)
	}
}

// adaptMode moves to the mode with the higher confidence. Outcomes only
// feed the active mode, so a tie with a failing active mode probes the
// other one instead of staying put forever.
func (p *AdaptivePrefetcher) adaptMode(total uint64, accuracy float64) {
	switch {
	case p.strideConfidence > p.seqConfidence:
		p.active = Stride
	case p.seqConfidence > p.strideConfidence:
		p.active = Sequential
	case total > 0 && accuracy < 0.5:
		if p.active == Sequential {
			p.active = Stride
		} else {
			p.active = Sequential
		}
	}
}

// PrefetchAddress synthesizes the next prefetch address for addr. In stride
// mode a zero detected stride falls back to sequential synthesis.
func (p *AdaptivePrefetcher) PrefetchAddress(
	addr uint64,
	detectedStride int64,
	blockSize uint64,
) uint64 {
	if p.active == Stride && detectedStride != 0 {
		return uint64(int64(addr) + detectedStride*int64(p.distance))
	}

	return addr + uint64(p.distance)*blockSize
}

// Distance returns the current prefetch distance in blocks.
func (p *AdaptivePrefetcher) Distance() int {
	return p.distance
}

// ActiveMode returns the mode currently used for address synthesis.
func (p *AdaptivePrefetcher) ActiveMode() Mode {
	return p.active
}

// Accuracy returns useful prefetches as a fraction of finished prefetches.
func (p *AdaptivePrefetcher) Accuracy() float64 {
	total := p.useful + p.useless
	if total == 0 {
		return 0
	}

	return float64(p.useful) / float64(total)
}

// Useful returns the number of prefetches that served a later access.
func (p *AdaptivePrefetcher) Useful() uint64 {
	return p.useful
}

// Useless returns the number of prefetches evicted without any use.
func (p *AdaptivePrefetcher) Useless() uint64 {
	return p.useless
}

// Issued returns the number of prefetches sent toward the next level.
func (p *AdaptivePrefetcher) Issued() uint64 {
	return p.issued
}

package cache

// DecodeAddress splits an address into the tag and the set index for a
// cache with the given geometry. The block offset is discarded since data
// bytes are not modeled.
func DecodeAddress(addr uint64, blockSize uint64, numSets int) (tag uint64, setID int) {
	blockAddr := addr / blockSize
	tag = blockAddr / uint64(numSets)
	setID = int(blockAddr % uint64(numSets))

	return tag, setID
}

// EncodeAddress is the exact inverse of DecodeAddress. Writeback addresses
// are reconstructed with it so that they round-trip through the decoder.
func EncodeAddress(tag uint64, setID int, blockSize uint64, numSets int) uint64 {
	return (tag*uint64(numSets) + uint64(setID)) * blockSize
}

func (c *Cache) decode(addr uint64) (tag uint64, setID int) {
	return DecodeAddress(addr, c.blockSize, c.numSets)
}

func (c *Cache) encode(tag uint64, setID int) uint64 {
	return EncodeAddress(tag, setID, c.blockSize, c.numSets)
}

func (c *Cache) blockAlign(addr uint64) uint64 {
	return addr / c.blockSize * c.blockSize
}

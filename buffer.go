package main

// ByteBuffer is the sparse byte-offset->byte map described in spec §3.
// Positions are always final-image byte offsets; callers translate
// word-addressed PCs into byte offsets using the configured word width
// (see Assembler.bytesPerWord). Unwritten positions dump as zero; the
// maximum written offset fixes the output image size.
type ByteBuffer struct {
	bytes  map[uint64]byte
	maxPos uint64
	any    bool
}

func NewByteBuffer() *ByteBuffer {
	return &ByteBuffer{bytes: make(map[uint64]byte)}
}

// WriteByte stores a single byte at the given byte offset.
func (b *ByteBuffer) WriteByte(pos uint64, v byte) {
	b.bytes[pos] = v
	if !b.any || pos > b.maxPos {
		b.maxPos = pos
	}
	b.any = true
}

// WriteBytes stores consecutive bytes starting at pos.
func (b *ByteBuffer) WriteBytes(pos uint64, vs []byte) {
	for i, v := range vs {
		b.WriteByte(pos+uint64(i), v)
	}
}

// ReadByte returns the byte at pos, or zero if unwritten.
func (b *ByteBuffer) ReadByte(pos uint64) byte {
	return b.bytes[pos]
}

// Reset clears the buffer for a fresh pass.
func (b *ByteBuffer) Reset() {
	b.bytes = make(map[uint64]byte)
	b.maxPos = 0
	b.any = false
}

// Dump flattens the buffer to one contiguous image from offset 0 to
// the highest written offset, inclusive; gaps read as zero.
func (b *ByteBuffer) Dump() []byte {
	if !b.any {
		return nil
	}
	out := make([]byte, b.maxPos+1)
	for pos, v := range b.bytes {
		out[pos] = v
	}
	return out
}

// WordToBytes truncates/masks w to nbytes bytes and serializes it
// big- or little-endian, per the `.bits` configuration (spec §4.6/§6).
func WordToBytes(w Int256, nbytes int, bigEndian bool) []byte {
	return w.Bytes(nbytes, bigEndian)
}

// BytesToInt256BigEndian reads bs as a big-endian unsigned value.
func BytesToInt256BigEndian(bs []byte) Int256 {
	v := zero256()
	for _, b := range bs {
		v = v.Shl(8).Or(FromInt64(int64(b)))
	}
	return v
}

package argv

// Block is a contiguous argument buffer plus the offset vector into it.
// Offsets are strictly increasing and each argument is independently
// NUL-terminated inside the buffer.
type Block struct {
	buf     []byte
	offsets []int
}

// Build flattens args into a single contiguous block.
//
// The block size is the sum of each argument's byte length plus one
// terminator byte per argument. An empty args yields a zero-length block and
// an empty offset vector; the engine is still started with argc 0.
func Build(args []string) *Block {
	total := 0
	for _, a := range args {
		total += len(a) + 1
	}

	// Zero-initialized, so the terminator after each copy is already in place.
	b := &Block{
		buf:     make([]byte, total),
		offsets: make([]int, 0, len(args)),
	}

	pos := 0
	for _, a := range args {
		b.offsets = append(b.offsets, pos)
		copy(b.buf[pos:], a)
		pos += len(a) + 1
	}

	return b
}

// Argc returns the number of arguments in the block.
func (b *Block) Argc() int {
	return len(b.offsets)
}

// Len returns the total byte size of the block, terminators included.
func (b *Block) Len() int {
	return len(b.buf)
}

// Offsets returns the start offset of each argument within the block.
func (b *Block) Offsets() []int {
	return b.offsets
}

// Arg returns argument i as a string, without its terminator.
func (b *Block) Arg(i int) string {
	start := b.offsets[i]
	end := start
	for end < len(b.buf) && b.buf[end] != 0 {
		end++
	}
	return string(b.buf[start:end])
}

// Args returns all arguments decoded from the block.
func (b *Block) Args() []string {
	out := make([]string, len(b.offsets))
	for i := range b.offsets {
		out[i] = b.Arg(i)
	}
	return out
}

// Bytes exposes the raw block for the engine's startup call.
// The returned slice aliases the block; it is invalid after Free.
func (b *Block) Bytes() []byte {
	return b.buf
}

// Free releases the block. Safe to call more than once.
func (b *Block) Free() {
	b.buf = nil
	b.offsets = nil
}

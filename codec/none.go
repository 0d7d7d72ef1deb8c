package codec

// None is the identity codec. Use it when snapshots are small or already
// live behind a compressing transport.
type None struct{}

// Compress returns a copy of src.
func (None) Compress(src []byte) ([]byte, error) {
	out := make([]byte, len(src))
	copy(out, src)
	return out, nil
}

// Decompress returns a copy of src.
func (None) Decompress(src []byte) ([]byte, error) {
	out := make([]byte, len(src))
	copy(out, src)
	return out, nil
}

// Name returns the unique name of the codec ("none").
func (None) Name() string { return "none" }

package compress

// noopCodec never compresses; quicklist uses it when compress=0 disables
// compression entirely.
type noopCodec struct{}

func (noopCodec) Compress(data []byte) ([]byte, bool) { return nil, false }

func (noopCodec) Decompress(data []byte, outLen int) ([]byte, error) { return data, nil }

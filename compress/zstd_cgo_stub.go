//go:build !gozstd

package compress

import "fmt"

// newZstdCGOCodec reports that the cgo zstd binding wasn't built in. Build
// with -tags gozstd (and a working cgo toolchain) to enable it.
func newZstdCGOCodec() (Codec, error) {
	return nil, fmt.Errorf("compress: zstd-cgo codec requires building with -tags gozstd")
}

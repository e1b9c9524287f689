package rsakit

import (
	"io"
	"math/big"
)

// os2ip interprets a big-endian byte string as a non-negative integer
func os2ip(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// i2osp emits x as a big-endian byte string of exactly n bytes,
// left-padded with zeros. x must fit in n bytes
func i2osp(x *big.Int, n int) []byte {
	out := make([]byte, n)
	return x.FillBytes(out)
}

// zero wipes a buffer that carried secret material
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// nonZeroRandomBytes fills s with random non-zero bytes.
// Randomness is drawn a block at a time; zero bytes are skipped and the
// block is refilled from the reader until s is full
func nonZeroRandomBytes(random io.Reader, s []byte) error {
	buf := make([]byte, len(s))
	defer zero(buf)

	filled := 0
	for filled < len(s) {
		block := buf[:len(s)-filled]
		if _, err := io.ReadFull(random, block); err != nil {
			return err
		}
		for _, b := range block {
			if b != 0 {
				s[filled] = b
				filled++
			}
		}
	}
	return nil
}

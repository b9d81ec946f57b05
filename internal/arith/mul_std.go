//go:build !gmp

package arith

import "math/big"

// Backend names the multiplication implementation compiled in.
const Backend = "math/big"

func multiply(a, b *big.Int) *big.Int {
	return new(big.Int).Mul(a, b)
}

//go:build gmp

package arith

import (
	"math/big"

	"github.com/ncw/gmp"
)

// Backend names the multiplication implementation compiled in.
const Backend = "gmp"

func multiply(a, b *big.Int) *big.Int {
	x, _ := new(gmp.Int).SetString(a.String(), 10)
	y, _ := new(gmp.Int).SetString(b.String(), 10)
	z := new(gmp.Int).Mul(x, y)
	out, _ := new(big.Int).SetString(z.String(), 10)
	return out
}

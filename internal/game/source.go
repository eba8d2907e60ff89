package game

import (
	"crypto/rand"
	"math/big"
)

// Source yields uniform integers in [0, n).
type Source interface {
	IntN(n int) int
}

// CryptoSource draws from the operating system CSPRNG.
type CryptoSource struct{}

func (CryptoSource) IntN(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("game: crypto/rand unavailable: " + err.Error())
	}
	return int(v.Int64())
}

// FixedSource replays a fixed sequence of indices, wrapping around. Used by
// tests and the load bot's deterministic mode.
type FixedSource struct {
	Seq []int
	pos int
}

func (f *FixedSource) IntN(n int) int {
	if len(f.Seq) == 0 {
		return 0
	}
	v := f.Seq[f.pos%len(f.Seq)] % n
	f.pos++
	return v
}

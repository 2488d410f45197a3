package generate

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	mrand "math/rand"
	"strings"
)

// processRand is a package-level, process-wide random source, seeded
// from crypto/rand. It backs the integer, decimal and boolean
// generators, whose values become reproducible once a seed is injected
// via SeedForTest; hex and string values are drawn from crypto/rand and
// UUIDs from google/uuid, so seeding does not affect them.
var processRand = mrand.New(mrand.NewSource(seedFromCryptoRand()))

func seedFromCryptoRand() int64 {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return 1
	}
	var n int64
	for _, by := range b {
		n = (n << 8) | int64(by)
	}
	if n < 0 {
		n = -n
	}
	return n
}

// SeedForTest reseeds the generator engine's random source. Only
// intended for deterministic tests; production code never calls this.
func SeedForTest(seed int64) {
	processRand = mrand.New(mrand.NewSource(seed))
}

func randomInt(min, max int) int {
	if max <= min {
		return min
	}
	return min + processRand.Intn(max-min+1)
}

func randomDecimal(digits int) string {
	if digits <= 0 {
		digits = 1
	}
	intPart := processRand.Intn(1000)
	var frac strings.Builder
	for i := 0; i < digits; i++ {
		fmt.Fprintf(&frac, "%d", processRand.Intn(10))
	}
	return fmt.Sprintf("%d.%s", intPart, frac.String())
}

func randomHex(size int) string {
	b := make([]byte, (size+1)/2)
	_, _ = rand.Read(b)
	h := hex.EncodeToString(b)
	if len(h) > size {
		h = h[:size]
	}
	return h
}

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomString(size int) string {
	b := make([]byte, size)
	for i := range b {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(alphanumeric))))
		b[i] = alphanumeric[n.Int64()]
	}
	return string(b)
}

func randomBoolean() bool {
	return processRand.Intn(2) == 1
}

package roomid

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Prefix starts every generated room id.
	Prefix = "room-"
	// GeneratedLength is the number of random characters after Prefix.
	GeneratedLength = 24

	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Generate returns Prefix followed by GeneratedLength random lowercase alphanumerics.
func Generate() (string, error) {
	return generate(GeneratedLength)
}

func generate(n int) (string, error) {
	buf := make([]byte, 0, len(Prefix)+n)
	buf = append(buf, Prefix...)

	limit := big.NewInt(int64(len(alphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate room id: %w", err)
		}
		buf = append(buf, alphabet[idx.Int64()])
	}
	return string(buf), nil
}

package hashutil

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"lukechampine.com/blake3"
)

type HashAlgo string

const (
	HashAlgoSHA256 HashAlgo = "sha256"
	HashAlgoSHA384 HashAlgo = "sha384"
	HashAlgoSHA512 HashAlgo = "sha512"
	HashAlgoBLAKE3 HashAlgo = "blake3"
)

// Sum returns the raw digest of data using the specified algorithm.
// Supported algorithms: "sha256", "sha384", "sha512" and "blake3".
func Sum(data []byte, algo HashAlgo) ([]byte, error) {
	switch algo {
	case HashAlgoSHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	case HashAlgoSHA384:
		sum := sha512.Sum384(data)
		return sum[:], nil
	case HashAlgoSHA512:
		sum := sha512.Sum512(data)
		return sum[:], nil
	case HashAlgoBLAKE3:
		sum := blake3.Sum256(data)
		return sum[:], nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", algo)
	}
}

// HashBytes returns the hash of bytes as a hex string using the specified algorithm.
func HashBytes(data []byte, algo HashAlgo) (string, error) {
	sum, err := Sum(data, algo)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

// Size returns the digest length in bytes, or 0 for an unknown algorithm.
func Size(algo HashAlgo) int {
	switch algo {
	case HashAlgoSHA256, HashAlgoBLAKE3:
		return 32
	case HashAlgoSHA384:
		return 48
	case HashAlgoSHA512:
		return 64
	default:
		return 0
	}
}

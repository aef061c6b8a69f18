package pak

import (
	"fmt"

	"golang.org/x/text/encoding"
)

// TrimName cuts the raw name metadata at its two-zero-byte terminator.
// A single zero byte mid-name is not a terminator: the legacy code
// page can produce a zero as the second byte of a double-byte
// character, so the scan only stops on two consecutive zeros. When the
// terminator is missing (truncated tools occur in the wild) the bytes
// are returned whole, except that a lone zero in the final position is
// dropped — it can only be half a terminator, and letting it through
// would put a NUL into the decoded name and every path built from it.
func TrimName(raw []byte) []byte {
	for i := 0; i+1 < len(raw); i++ {
		if raw[i] == 0 && raw[i+1] == 0 {
			return raw[:i]
		}
	}
	if n := len(raw); n > 0 && raw[n-1] == 0 {
		return raw[:n-1]
	}
	return raw
}

// DecodeName trims raw at the double-zero terminator and decodes it
// from the archive's legacy code page to UTF-8.
func DecodeName(raw []byte, enc encoding.Encoding) (string, error) {
	name, err := enc.NewDecoder().Bytes(TrimName(raw))
	if err != nil {
		return "", fmt.Errorf("failed to decode name bytes: %w", err)
	}
	return string(name), nil
}

// EncodeName converts a UTF-8 name back to the archive's legacy code
// page, the byte form the path hash is computed over.
func EncodeName(name string, enc encoding.Encoding) ([]byte, error) {
	b, err := enc.NewEncoder().Bytes([]byte(name))
	if err != nil {
		return nil, fmt.Errorf("failed to encode name %q: %w", name, err)
	}
	return b, nil
}

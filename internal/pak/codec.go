package pak

import (
	"bytes"
	"fmt"

	"github.com/rasky/go-lzo"
)

// Codec decompresses a record payload. The archive format stores the
// expected output length in the record, so implementations receive it
// up front rather than discovering it from the stream.
type Codec interface {
	Decompress(src []byte, originalSize int) ([]byte, error)
}

// LZOCodec decompresses LZO1X payloads, the only scheme the game's
// packer ever emitted.
type LZOCodec struct{}

func (LZOCodec) Decompress(src []byte, originalSize int) ([]byte, error) {
	out, err := lzo.Decompress1X(bytes.NewReader(src), len(src), originalSize)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress payload: %w", err)
	}
	if len(out) != originalSize {
		return nil, fmt.Errorf("decompressed size mismatch: got %d, want %d", len(out), originalSize)
	}
	return out, nil
}

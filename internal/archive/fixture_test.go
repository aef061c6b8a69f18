package archive_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"
	"testing"

	"github.com/ossyrian/mintypak/internal/archive"
	"github.com/ossyrian/mintypak/internal/pak"
)

// fixtureRecord describes one slot of a synthetic archive. The builder
// lays payloads and trailing name metadata out in slot order and fills
// in offsets and sizes.
type fixtureRecord struct {
	id       uint32
	parent   uint32
	flags    uint32
	payload  []byte
	name     string // written as name + double-zero terminator
	rawName  []byte // overrides name verbatim when non-nil
	origSize uint32 // overrides OriginalSize when non-zero
}

const (
	flagFile = pak.FlagValid
	flagDir  = pak.FlagValid | pak.FlagDirectory
)

// buildArchive serializes fixture records into a complete archive:
// header, record table, then the payload+name body.
func buildArchive(t *testing.T, recs []fixtureRecord) []byte {
	t.Helper()

	slots := uint32(len(recs))
	bodyStart := uint32(pak.HeaderSize) + slots*pak.RecordSize

	body := new(bytes.Buffer)
	records := make([]pak.Record, 0, slots)
	var live uint32

	for _, fr := range recs {
		nameBytes := fr.rawName
		if nameBytes == nil && fr.name != "" {
			nameBytes = append([]byte(fr.name), 0x00, 0x00)
		}

		rec := pak.Record{
			ID:           fr.id,
			ParentID:     fr.parent,
			Flags:        fr.flags,
			StartOffset:  bodyStart + uint32(body.Len()),
			PackedSize:   uint32(len(fr.payload)),
			OriginalSize: uint32(len(fr.payload)),
			NameSize:     uint32(len(nameBytes)),
		}
		if fr.origSize != 0 {
			rec.OriginalSize = fr.origSize
		}
		if rec.Live() {
			live++
		}

		body.Write(fr.payload)
		body.Write(nameBytes)
		records = append(records, rec)
	}

	header := pak.Header{
		Magic:       pak.Magic,
		Version:     pak.Version,
		TableOffset: pak.HeaderSize,
		FileCount:   live,
		MaxFiles:    slots,
		TableCount:  live,
		MaxTables:   slots,
	}

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, header)
	binary.Write(buf, binary.LittleEndian, records)
	buf.Write(body.Bytes())

	return buf.Bytes()
}

// twoLevelArchive is the canonical fixture: root -> "data" directory
// (id 5) -> "a.txt" file (id 9) with an 11-byte stored payload.
func twoLevelArchive(t *testing.T) ([]byte, []byte) {
	t.Helper()

	payload := []byte("hello world")
	data := buildArchive(t, []fixtureRecord{
		{id: 5, parent: 0, flags: flagDir, name: "data"},
		{id: 9, parent: 5, flags: flagFile, payload: payload, name: "a.txt"},
	})
	return data, payload
}

// testLogger discards all output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loadSession builds a loaded session over the archive bytes.
func loadSession(t *testing.T, data []byte, opts ...archive.Option) *archive.Session {
	t.Helper()

	opts = append([]archive.Option{archive.WithLogger(testLogger())}, opts...)
	s := archive.New(bytes.NewReader(data), opts...)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return s
}

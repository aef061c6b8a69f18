package archive

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"

	"github.com/ossyrian/mintypak/internal/pak"
)

// Reader reads header and table records from a PAK archive. All reads
// go through the io.ReaderAt at explicit offsets, so a Reader never
// contends with content readers for a shared file cursor.
type Reader struct {
	src    io.ReaderAt
	logger *slog.Logger
}

// NewReader returns a Reader over src. A nil logger falls back to the
// process default.
func NewReader(src io.ReaderAt, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{src: src, logger: logger}
}

// ReadHeader reads and validates the fixed archive header. Magic,
// version, and every count invariant are checked here, atomically,
// before any record is read; a violation returns ErrFormat and the
// archive must be discarded.
func (r *Reader) ReadHeader() (*pak.Header, error) {
	sec := io.NewSectionReader(r.src, 0, pak.HeaderSize)

	h := &pak.Header{}
	if err := binary.Read(sec, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	switch {
	case h.Magic != pak.Magic:
		return nil, fmt.Errorf("%w: bad magic 0x%08X", ErrFormat, h.Magic)
	case h.Version != pak.Version:
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, h.Version)
	case h.TableOffset == 0:
		return nil, fmt.Errorf("%w: zero table offset", ErrFormat)
	case h.FileCount > h.MaxFiles:
		return nil, fmt.Errorf("%w: file count %d exceeds %d slots", ErrFormat, h.FileCount, h.MaxFiles)
	case h.TableCount > h.MaxTables:
		return nil, fmt.Errorf("%w: table count %d exceeds %d slots", ErrFormat, h.TableCount, h.MaxTables)
	case h.FileCount > h.TableCount:
		return nil, fmt.Errorf("%w: file count %d exceeds table count %d", ErrFormat, h.FileCount, h.TableCount)
	}

	r.logger.Debug("header is valid",
		"table_offset", h.TableOffset,
		"file_count", h.FileCount,
		"max_files", h.MaxFiles,
		"table_count", h.TableCount,
		"max_tables", h.MaxTables,
	)

	return h, nil
}

// ReadRecords reads exactly header.MaxFiles fixed-size records starting
// at the table offset. Slot order is preserved; no liveness filtering
// happens here. A source shorter than the declared table is an I/O
// error, not a truncated result.
func (r *Reader) ReadRecords(header *pak.Header) ([]pak.Record, error) {
	size := int64(header.MaxFiles) * pak.RecordSize
	sec := io.NewSectionReader(r.src, int64(header.TableOffset), size)

	records := make([]pak.Record, header.MaxFiles)
	if err := binary.Read(sec, binary.LittleEndian, records); err != nil {
		return nil, fmt.Errorf("failed to read record table: %w", err)
	}

	r.logger.Debug("read record table", "slots", len(records))
	return records, nil
}

// ReadName reads a record's raw trailing name metadata, located
// immediately after its payload.
func (r *Reader) ReadName(rec *pak.Record) ([]byte, error) {
	raw := make([]byte, rec.NameSize)
	if _, err := r.src.ReadAt(raw, rec.NameOffset()); err != nil {
		return nil, fmt.Errorf("failed to read name metadata for record %d: %w", rec.ID, err)
	}
	return raw, nil
}

package archive_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/ossyrian/mintypak/internal/archive"
	"github.com/ossyrian/mintypak/internal/pak"
)

// headerBytes serializes a header verbatim, with no validity checks.
func headerBytes(h pak.Header) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, h)
	return buf.Bytes()
}

func validHeader() pak.Header {
	return pak.Header{
		Magic:       pak.Magic,
		Version:     pak.Version,
		TableOffset: pak.HeaderSize,
		FileCount:   2,
		MaxFiles:    4,
		TableCount:  3,
		MaxTables:   4,
	}
}

func TestReader_ReadHeader(t *testing.T) {
	tests := []struct {
		name       string
		input      []byte
		want       pak.Header
		wantErr    bool
		wantFormat bool
		errMsg     string
	}{
		{
			name:  "valid header",
			input: headerBytes(validHeader()),
			want:  validHeader(),
		},
		{
			name: "bad magic",
			input: headerBytes(func() pak.Header {
				h := validHeader()
				h.Magic = 0x312B4150
				return h
			}()),
			wantErr:    true,
			wantFormat: true,
			errMsg:     "bad magic",
		},
		{
			name: "unsupported version",
			input: headerBytes(func() pak.Header {
				h := validHeader()
				h.Version = 2
				return h
			}()),
			wantErr:    true,
			wantFormat: true,
			errMsg:     "unsupported version",
		},
		{
			name: "zero table offset",
			input: headerBytes(func() pak.Header {
				h := validHeader()
				h.TableOffset = 0
				return h
			}()),
			wantErr:    true,
			wantFormat: true,
			errMsg:     "zero table offset",
		},
		{
			name: "file count exceeds file slots",
			input: headerBytes(func() pak.Header {
				h := validHeader()
				h.FileCount = 5
				h.TableCount = 5
				h.MaxTables = 5
				return h
			}()),
			wantErr:    true,
			wantFormat: true,
			errMsg:     "exceeds 4 slots",
		},
		{
			name: "table count exceeds table slots",
			input: headerBytes(func() pak.Header {
				h := validHeader()
				h.TableCount = 9
				return h
			}()),
			wantErr:    true,
			wantFormat: true,
			errMsg:     "table count 9 exceeds 4 slots",
		},
		{
			name: "file count exceeds table count",
			input: headerBytes(func() pak.Header {
				h := validHeader()
				h.FileCount = 4
				h.TableCount = 3
				return h
			}()),
			wantErr:    true,
			wantFormat: true,
			errMsg:     "file count 4 exceeds table count 3",
		},
		{
			name:    "truncated header",
			input:   headerBytes(validHeader())[:10],
			wantErr: true,
			errMsg:  "failed to read header",
		},
		{
			name:    "empty input",
			input:   nil,
			wantErr: true,
			errMsg:  "failed to read header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := archive.NewReader(bytes.NewReader(tt.input), testLogger())

			got, err := r.ReadHeader()

			if tt.wantErr {
				if err == nil {
					t.Fatal("ReadHeader() succeeded unexpectedly, wanted error")
				}
				if tt.wantFormat && !errors.Is(err, archive.ErrFormat) {
					t.Errorf("ReadHeader() error = %v, want ErrFormat", err)
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ReadHeader() error = %v, should contain %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("ReadHeader() failed: %v", err)
			}
			if *got != tt.want {
				t.Errorf("ReadHeader() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestReader_ReadRecords(t *testing.T) {
	data, _ := twoLevelArchive(t)
	r := archive.NewReader(bytes.NewReader(data), testLogger())

	header, err := r.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader() failed: %v", err)
	}

	records, err := r.ReadRecords(header)
	if err != nil {
		t.Fatalf("ReadRecords() failed: %v", err)
	}

	if len(records) != int(header.MaxFiles) {
		t.Fatalf("ReadRecords() returned %d records, want %d", len(records), header.MaxFiles)
	}
	if records[0].ID != 5 || !records[0].IsDirectory() {
		t.Errorf("slot 0 = %+v, want directory id 5", records[0])
	}
	if records[1].ID != 9 || records[1].ParentID != 5 {
		t.Errorf("slot 1 = %+v, want file id 9 under parent 5", records[1])
	}
}

func TestReader_ReadName_TruncatedMetadata(t *testing.T) {
	// The record's name region extends past the end of the source.
	// That is a surfaced I/O error, not a shorter name.
	data, _ := twoLevelArchive(t)
	r := archive.NewReader(bytes.NewReader(data[:len(data)-4]), testLogger())

	rec := pak.Record{
		ID:          9,
		StartOffset: uint32(len(data)) - 18,
		PackedSize:  11,
		NameSize:    7,
		Flags:       pak.FlagValid,
	}

	if _, err := r.ReadName(&rec); err == nil {
		t.Fatal("ReadName() succeeded on truncated metadata, wanted error")
	} else if !strings.Contains(err.Error(), "failed to read name metadata for record 9") {
		t.Errorf("ReadName() error = %v, should mention the name metadata", err)
	}
}

func TestReader_ReadRecords_TruncatedTable(t *testing.T) {
	// Header declares 4 slots, but the source ends mid-table. That is
	// an I/O error, never a shorter result.
	h := validHeader()
	input := append(headerBytes(h), make([]byte, pak.RecordSize)...)

	r := archive.NewReader(bytes.NewReader(input), testLogger())
	header, err := r.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader() failed: %v", err)
	}

	if _, err := r.ReadRecords(header); err == nil {
		t.Fatal("ReadRecords() succeeded on truncated table, wanted error")
	} else if !strings.Contains(err.Error(), "failed to read record table") {
		t.Errorf("ReadRecords() error = %v, should mention the record table", err)
	}
}

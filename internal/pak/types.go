package pak

// HeaderSize is the fixed byte length of the archive header.
const HeaderSize = 28

// RecordSize is the fixed byte length of one table record.
const RecordSize = 28

// Header is the fixed-layout header at the start of every PAK archive.
// All fields are little-endian uint32 on disk.
type Header struct {
	Magic       uint32 // must equal Magic ("PAK1")
	Version     uint32 // must equal Version
	TableOffset uint32 // absolute offset of the record table, never zero
	FileCount   uint32 // declared live file count
	MaxFiles    uint32 // file slot capacity; also the number of records on disk
	TableCount  uint32 // declared valid table entries
	MaxTables   uint32 // table slot capacity
}

// Record flag bits.
const (
	FlagEmpty      uint32 = 1 << 0
	FlagValid      uint32 = 1 << 1
	FlagDeleted    uint32 = 1 << 2
	FlagDirectory  uint32 = 1 << 3
	FlagCompressed uint32 = 1 << 4
)

// RootID is the synthetic id of the archive root. It has no record of
// its own and no name component; top-level entries carry it as parent.
const RootID uint32 = 0

// Record is one fixed-size slot in the archive table.
type Record struct {
	ID           uint32
	ParentID     uint32
	Flags        uint32
	StartOffset  uint32 // absolute offset of the payload
	PackedSize   uint32 // payload bytes on disk
	OriginalSize uint32 // payload bytes after decompression; == PackedSize when stored
	NameSize     uint32 // trailing name metadata bytes after the payload
}

// Live reports whether the record occupies its slot: non-empty, marked
// valid, and not deleted. Dead records are invisible everywhere.
func (r *Record) Live() bool {
	return r.Flags&FlagEmpty == 0 &&
		r.Flags&FlagValid != 0 &&
		r.Flags&FlagDeleted == 0
}

// IsDirectory reports whether the record is a directory entry.
func (r *Record) IsDirectory() bool {
	return r.Flags&FlagDirectory != 0
}

// IsCompressed reports whether the record's payload is LZO-compressed.
func (r *Record) IsCompressed() bool {
	return r.Flags&FlagCompressed != 0
}

// NameOffset returns the absolute offset of the record's trailing name
// metadata, immediately following the payload.
func (r *Record) NameOffset() int64 {
	return int64(r.StartOffset) + int64(r.PackedSize)
}

package archive

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"

	"github.com/ossyrian/mintypak/internal/pak"
)

// Session states. Queries are only valid once loading has finished;
// calling them earlier is a caller bug and fails with ErrNotLoaded.
// There is no closed state: a session is discarded by dropping it.
const (
	stateUnloaded int32 = iota
	stateLoading
	stateLoaded
)

// nameWorkers bounds concurrent name metadata reads during load.
const nameWorkers = 8

// Session is one loaded archive. After Load succeeds, every derived
// structure (records, index, name table, tree, path-hash map) is
// immutable, so any number of goroutines may query concurrently
// without synchronization. Each Open call returns an independent
// reader over the backing source.
type Session struct {
	src    io.ReaderAt
	logger *slog.Logger
	enc    encoding.Encoding
	codec  pak.Codec

	state  atomic.Int32
	loadMu sync.Mutex

	header  *pak.Header
	records []pak.Record
	idx     *Index
	names   map[uint32]string // live record id -> decoded lower-cased name
	tree    []*Entry
	byHash  map[uint32]uint32 // path hash -> live record id
}

// Option configures a Session before loading.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithEncoding sets the legacy code page used to decode entry names
// and to encode lookup paths for hashing.
func WithEncoding(enc encoding.Encoding) Option {
	return func(s *Session) { s.enc = enc }
}

// WithCodec sets the payload decompression codec.
func WithCodec(codec pak.Codec) Option {
	return func(s *Session) { s.codec = codec }
}

// New returns an unloaded session over src. Defaults: EUC-KR names
// (the "kr" region), LZO payloads, and the process logger.
func New(src io.ReaderAt, opts ...Option) *Session {
	s := &Session{
		src:   src,
		codec: pak.LZOCodec{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.enc == nil {
		enc, _ := pak.EncodingForRegion("kr")
		s.enc = enc
	}
	return s
}

// Load runs the one-time load pipeline: header, record table, index,
// name resolution, tree, path-hash map. Concurrent and repeated calls
// are serialized; once a Load has succeeded, later calls are no-ops.
// On failure the session stays unloaded and may not be queried.
func (s *Session) Load() error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.state.Load() == stateLoaded {
		return nil
	}
	s.state.Store(stateLoading)

	if err := s.load(); err != nil {
		s.state.Store(stateUnloaded)
		return err
	}

	s.state.Store(stateLoaded)
	return nil
}

func (s *Session) load() error {
	reader := NewReader(s.src, s.logger)

	header, err := reader.ReadHeader()
	if err != nil {
		return err
	}

	records, err := reader.ReadRecords(header)
	if err != nil {
		return err
	}

	idx := BuildIndex(records)

	names, err := s.resolveNames(reader, idx, records)
	if err != nil {
		return err
	}

	tree := buildTree(idx, records, names)

	byHash := make(map[uint32]uint32, idx.Len())
	var hashErr error
	walk(tree, func(e *Entry) {
		if hashErr != nil {
			return
		}
		encoded, err := pak.EncodeName(e.Path, s.enc)
		if err != nil {
			hashErr = err
			return
		}
		byHash[pak.Hash(encoded)] = e.Record.ID
	})
	if hashErr != nil {
		return hashErr
	}

	s.header = header
	s.records = records
	s.idx = idx
	s.names = names
	s.tree = tree
	s.byHash = byHash

	s.logger.Info("archive loaded",
		"live_records", idx.Len(),
		"top_level", len(tree),
	)

	return nil
}

// resolveNames reads and decodes the trailing name metadata of every
// live record. Reads go through the ReaderAt at per-record offsets, so
// they are spread over a bounded worker group; no file cursor is
// shared. Name resolution must finish before any path can be built.
func (s *Session) resolveNames(reader *Reader, idx *Index, records []pak.Record) (map[uint32]string, error) {
	type slotName struct {
		id   uint32
		name string
	}

	slots := make([]int, 0, idx.Len())
	for slot := range records {
		if records[slot].Live() {
			if indexed, ok := idx.Slot(records[slot].ID); ok && indexed == slot {
				slots = append(slots, slot)
			}
		}
	}

	resolved := make([]slotName, len(slots))

	var g errgroup.Group
	g.SetLimit(nameWorkers)
	for i, slot := range slots {
		g.Go(func() error {
			rec := &records[slot]
			resolved[i].id = rec.ID

			if rec.NameSize == 0 {
				return nil
			}
			raw, err := reader.ReadName(rec)
			if err != nil {
				return err
			}
			name, err := pak.DecodeName(raw, s.enc)
			if err != nil {
				return fmt.Errorf("record %d: %w", rec.ID, err)
			}
			resolved[i].name = strings.ToLower(name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[uint32]string, len(resolved))
	for _, sn := range resolved {
		names[sn.id] = sn.name
	}
	return names, nil
}

func (s *Session) requireLoaded() error {
	if s.state.Load() != stateLoaded {
		return ErrNotLoaded
	}
	return nil
}

// ListRoot returns the top-level entries of the virtual tree: every
// live record whose parent is the synthetic root.
func (s *Session) ListRoot() ([]*Entry, error) {
	if err := s.requireLoaded(); err != nil {
		return nil, err
	}
	return s.tree, nil
}

// Exists reports whether a live record (file or directory) matches the
// virtual path. An unloaded session has no entries.
func (s *Session) Exists(path string) bool {
	if s.requireLoaded() != nil {
		return false
	}
	_, err := s.lookup(path)
	return err == nil
}

// lookup hashes the normalized path and returns the matching live
// record, directories included.
func (s *Session) lookup(path string) (*pak.Record, error) {
	normalized := strings.ToLower(strings.Trim(path, pak.Separator))

	encoded, err := pak.EncodeName(normalized, s.enc)
	if err != nil {
		return nil, err
	}

	id, ok := s.byHash[pak.Hash(encoded)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
	}
	return s.record(id), nil
}

func (s *Session) record(id uint32) *pak.Record {
	slot, ok := s.idx.Slot(id)
	if !ok {
		return nil
	}
	return &s.records[slot]
}

// Resolve returns the live file record at the virtual path. It fails
// with ErrNotFound when nothing matches and ErrIsDirectory when the
// path names a directory.
func (s *Session) Resolve(path string) (*pak.Record, error) {
	if err := s.requireLoaded(); err != nil {
		return nil, err
	}
	rec, err := s.lookup(path)
	if err != nil {
		return nil, err
	}
	if rec.IsDirectory() {
		return nil, fmt.Errorf("%q: %w", path, ErrIsDirectory)
	}
	return rec, nil
}

// ResolveID is Resolve addressed by record id instead of path.
func (s *Session) ResolveID(id uint32) (*pak.Record, error) {
	if err := s.requireLoaded(); err != nil {
		return nil, err
	}
	rec := s.record(id)
	if rec == nil {
		return nil, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	if rec.IsDirectory() {
		return nil, fmt.Errorf("id %d: %w", id, ErrIsDirectory)
	}
	return rec, nil
}

// Open returns a reader over the entry's content, its size, and
// whether it was stored compressed. Stored entries read straight from
// the source through an independent section reader; compressed entries
// are decompressed up front (the format records the original size) and
// served from memory. Codec failures surface as I/O errors.
func (s *Session) Open(path string) (io.Reader, int64, bool, error) {
	rec, err := s.Resolve(path)
	if err != nil {
		return nil, 0, false, err
	}
	return s.openRecord(rec)
}

// OpenID is Open addressed by record id instead of path.
func (s *Session) OpenID(id uint32) (io.Reader, int64, bool, error) {
	rec, err := s.ResolveID(id)
	if err != nil {
		return nil, 0, false, err
	}
	return s.openRecord(rec)
}

func (s *Session) openRecord(rec *pak.Record) (io.Reader, int64, bool, error) {
	if !rec.IsCompressed() {
		r := io.NewSectionReader(s.src, int64(rec.StartOffset), int64(rec.PackedSize))
		return r, int64(rec.PackedSize), false, nil
	}

	packed := make([]byte, rec.PackedSize)
	if _, err := s.src.ReadAt(packed, int64(rec.StartOffset)); err != nil {
		return nil, 0, false, fmt.Errorf("failed to read payload for record %d: %w", rec.ID, err)
	}

	out, err := s.codec.Decompress(packed, int(rec.OriginalSize))
	if err != nil {
		return nil, 0, false, fmt.Errorf("record %d: %w", rec.ID, err)
	}
	return bytes.NewReader(out), int64(rec.OriginalSize), true, nil
}

// Package snapshot reads and writes the keva store file.
package snapshot

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/nzoba/keva-go/internal/core/domain"
	"github.com/nzoba/keva-go/pkg/crypto/adaptive"
)

// Magic bytes identify keva store files.
var magicBytes = []byte("KEVASNAP")

const checksumSize = 32

var (
	ErrInvalidMagic     = errors.New("snapshot: invalid magic bytes")
	ErrChecksumMismatch = errors.New("snapshot: checksum mismatch")
	ErrNoSnapshot       = errors.New("snapshot: no store file")
	ErrEncrypted        = errors.New("snapshot: store file is encrypted and no key is configured")
	ErrNotEncrypted     = errors.New("snapshot: expected encrypted store file")
	ErrDecrypt          = errors.New("snapshot: decrypt failed")
)

// snapshotHeader is the plaintext metadata block at the front of every
// store file. It stays readable without the encryption key.
type snapshotHeader struct {
	ID         string `json:"id"`
	CreatedAt  int64  `json:"created_at"`
	EntryCount uint64 `json:"entry_count"`
	Encrypted  bool   `json:"encrypted"`
}

type snapshotEntry struct {
	Value     []byte `json:"value"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

func snapshotEntryFromDomain(e *domain.Entry) snapshotEntry {
	return snapshotEntry{
		Value:     e.Value,
		ExpiresAt: e.ExpiresAt,
	}
}

func (e snapshotEntry) toDomain() *domain.Entry {
	return &domain.Entry{
		Value:     e.Value,
		ExpiresAt: e.ExpiresAt,
	}
}

// Config configures the snapshot manager.
type Config struct {
	// Path is the store file location. Writes land in a temp file next
	// to it and are renamed into place.
	Path string

	// Cipher seals the payload block when set. The frame (magic,
	// header, checksum) stays plaintext, with the header bytes bound
	// to the sealed payload as additional data.
	Cipher adaptive.Cipher
}

// Manager persists the entry table to a single store file.
type Manager struct {
	path   string
	cipher adaptive.Cipher
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("snapshot: path is required")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("snapshot: create dir: %w", err)
		}
	}

	return &Manager{
		path:   cfg.Path,
		cipher: cfg.Cipher,
	}, nil
}

// Path returns the store file location.
func (m *Manager) Path() string {
	return m.path
}

// Info contains metadata about a store file.
type Info struct {
	ID         string `json:"id"`
	EntryCount int64  `json:"entry_count"`
	CreatedAt  int64  `json:"created_at"`
	Size       int64  `json:"size"`
	Path       string `json:"path"`
	Checksum   string `json:"checksum,omitempty"`
	Encrypted  bool   `json:"encrypted"`
}

// Write atomically replaces the store file with the given entries.
//
// The file is assembled in a temp file, synced, and renamed into place,
// so a crash mid-write leaves the previous store file intact.
func (m *Manager) Write(entries map[string]*domain.Entry) (*Info, error) {
	now := time.Now()
	id := ulid.Make().String()

	tempPath := m.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("snapshot: create temp file: %w", err)
	}
	defer os.Remove(tempPath)

	hash := sha256.New()
	writer := io.MultiWriter(file, hash)

	if _, err := writer.Write(magicBytes); err != nil {
		file.Close()
		return nil, err
	}

	hdr := snapshotHeader{
		ID:         id,
		CreatedAt:  now.UnixMilli(),
		EntryCount: uint64(len(entries)),
		Encrypted:  m.cipher != nil,
	}

	hdrJSON, err := json.Marshal(hdr)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: marshal header: %w", err)
	}

	var hdrLen [4]byte
	binary.BigEndian.PutUint32(hdrLen[:], uint32(len(hdrJSON)))
	if _, err := writer.Write(hdrLen[:]); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: write header length: %w", err)
	}
	if _, err := writer.Write(hdrJSON); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: write header: %w", err)
	}

	encoded := make(map[string]snapshotEntry, len(entries))
	for key, e := range entries {
		encoded[key] = snapshotEntryFromDomain(e)
	}

	data, err := json.Marshal(encoded)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: marshal entries: %w", err)
	}
	if m.cipher != nil {
		data, err = m.cipher.Encrypt(data, hdrJSON)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("snapshot: encrypt: %w", err)
		}
	}

	var dataLen [4]byte
	binary.BigEndian.PutUint32(dataLen[:], uint32(len(data)))
	if _, err := writer.Write(dataLen[:]); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: write data length: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: write data: %w", err)
	}

	// Finalize checksum trailer (not included in hash).
	sum := hash.Sum(nil)
	if len(sum) != checksumSize {
		file.Close()
		return nil, fmt.Errorf("snapshot: invalid sha256 size: %d", len(sum))
	}
	if _, err := file.Write(sum); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: write checksum: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: sync: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("snapshot: close: %w", err)
	}

	stat, err := os.Stat(tempPath)
	if err != nil {
		return nil, err
	}

	if err := os.Rename(tempPath, m.path); err != nil {
		return nil, fmt.Errorf("snapshot: rename: %w", err)
	}

	return &Info{
		ID:         id,
		EntryCount: int64(len(entries)),
		CreatedAt:  hdr.CreatedAt,
		Size:       stat.Size(),
		Path:       m.path,
		Checksum:   hex.EncodeToString(sum),
		Encrypted:  m.cipher != nil,
	}, nil
}

// Load reads and verifies the store file and returns its entries.
//
// It fails with ErrNoSnapshot when the file does not exist, with
// ErrEncrypted when the file is sealed and the manager has no cipher,
// and with ErrNotEncrypted when a cipher is configured but the file
// payload is plaintext.
func (m *Manager) Load() (map[string]*domain.Entry, *Info, error) {
	return m.read(true)
}

// Verify checks the store file frame and checksum without requiring the
// encryption key. When the payload is readable (plaintext, or a cipher
// is configured) it is parsed as well.
func (m *Manager) Verify() (*Info, error) {
	_, info, err := m.read(false)
	return info, err
}

// read loads the store file. When full is set, an encrypted payload
// without a configured cipher is an error; otherwise the payload block
// is skipped and only the frame is verified.
func (m *Manager) read(full bool) (map[string]*domain.Entry, *Info, error) {
	f, err := os.Open(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNoSnapshot
		}
		return nil, nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if stat.Size() < int64(len(magicBytes))+checksumSize {
		return nil, nil, ErrChecksumMismatch
	}

	// Verify checksum.
	dataLen := stat.Size() - checksumSize
	expected := make([]byte, checksumSize)
	if _, err := io.ReadFull(io.NewSectionReader(f, dataLen, checksumSize), expected); err != nil {
		return nil, nil, err
	}
	h := sha256.New()
	if _, err := io.CopyN(h, io.NewSectionReader(f, 0, dataLen), dataLen); err != nil {
		return nil, nil, err
	}
	if !bytes.Equal(h.Sum(nil), expected) {
		return nil, nil, ErrChecksumMismatch
	}

	br := bufio.NewReader(io.NewSectionReader(f, 0, dataLen))

	hdr, hdrJSON, err := readHeader(br)
	if err != nil {
		return nil, nil, err
	}

	var dataLenBuf [4]byte
	if _, err := io.ReadFull(br, dataLenBuf[:]); err != nil {
		return nil, nil, err
	}
	dataSize := binary.BigEndian.Uint32(dataLenBuf[:])
	data := make([]byte, dataSize)
	if _, err := io.ReadFull(br, data); err != nil {
		return nil, nil, err
	}

	info := &Info{
		ID:         hdr.ID,
		EntryCount: int64(hdr.EntryCount),
		CreatedAt:  hdr.CreatedAt,
		Size:       stat.Size(),
		Path:       m.path,
		Checksum:   hex.EncodeToString(expected),
		Encrypted:  hdr.Encrypted,
	}

	switch {
	case hdr.Encrypted && m.cipher == nil:
		if full {
			return nil, nil, ErrEncrypted
		}
		// Frame and checksum held; the payload stays sealed.
		return nil, info, nil
	case hdr.Encrypted:
		plain, err := m.cipher.Decrypt(data, hdrJSON)
		if err != nil {
			// The checksum already matched, so the ciphertext is intact
			// and the key material is the likely culprit.
			return nil, nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
		}
		data = plain
	case m.cipher != nil:
		return nil, nil, ErrNotEncrypted
	}

	var decoded map[string]snapshotEntry
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, nil, fmt.Errorf("snapshot: unmarshal entries: %w", err)
	}

	entries := make(map[string]*domain.Entry, len(decoded))
	for key, e := range decoded {
		entries[key] = e.toDomain()
	}

	return entries, info, nil
}

// Describe reads only the magic bytes and header of the store file.
// Unlike Verify it does not touch the payload or the checksum, so it is
// cheap even for large files.
func (m *Manager) Describe() (*Info, error) {
	f, err := os.Open(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	hdr, _, err := readHeader(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}

	return &Info{
		ID:         hdr.ID,
		EntryCount: int64(hdr.EntryCount),
		CreatedAt:  hdr.CreatedAt,
		Size:       stat.Size(),
		Path:       m.path,
		Encrypted:  hdr.Encrypted,
	}, nil
}

// Checksum returns the hex-encoded digest stored in the file trailer.
func (m *Manager) Checksum() (string, error) {
	f, err := os.Open(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoSnapshot
		}
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}
	if stat.Size() < int64(len(magicBytes)+checksumSize) {
		return "", ErrChecksumMismatch
	}

	sum := make([]byte, checksumSize)
	if _, err := f.ReadAt(sum, stat.Size()-checksumSize); err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

// readHeader parses the file frame up to the end of the header block.
// The raw header JSON is returned alongside the parsed form because the
// exact bytes serve as additional data when the payload is sealed.
func readHeader(r io.Reader) (*snapshotHeader, []byte, error) {
	magic := make([]byte, len(magicBytes))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, nil, err
	}
	if !bytes.Equal(magic, magicBytes) {
		return nil, nil, ErrInvalidMagic
	}

	var hdrLenBuf [4]byte
	if _, err := io.ReadFull(r, hdrLenBuf[:]); err != nil {
		return nil, nil, err
	}
	hdrLen := binary.BigEndian.Uint32(hdrLenBuf[:])
	if hdrLen == 0 {
		return nil, nil, fmt.Errorf("snapshot: empty header")
	}
	hdrJSON := make([]byte, hdrLen)
	if _, err := io.ReadFull(r, hdrJSON); err != nil {
		return nil, nil, err
	}

	var hdr snapshotHeader
	if err := json.Unmarshal(hdrJSON, &hdr); err != nil {
		return nil, nil, fmt.Errorf("snapshot: unmarshal header: %w", err)
	}
	return &hdr, hdrJSON, nil
}

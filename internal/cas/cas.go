// Package cas caches extracted page records on disk, keyed by a hash of
// everything that determines them.
package cas

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jcdickinson/javadocfetch/internal/docs"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/singleflight"
)

// Store is a sharded content-addressable store of record sets.
type Store struct {
	dir   string
	group singleflight.Group
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Key hashes the page bytes, the policy fingerprint and the page identity.
// Any change to one of them yields a different key.
func Key(page []byte, fingerprint string, id docs.Identity) string {
	h := sha256.New()
	h.Write(page)
	for _, part := range []string{fingerprint, id.Package, id.SimpleName, id.QualifiedName, id.Path} {
		h.Write([]byte{0})
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// path returns the sharded file path for a key: <dir>/<first2>/<rest>.json.zst
func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key[:2], key[2:]+".json.zst")
}

// Has reports whether key is stored.
func (s *Store) Has(key string) bool {
	_, err := os.Stat(s.path(key))
	return err == nil
}

// Write stores records under key. Existing entries are left alone.
func (s *Store) Write(key string, records []json.RawMessage) error {
	p := s.path(key)
	if _, err := os.Stat(p); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("creating CAS directory: %w", err)
	}

	if records == nil {
		records = []json.RawMessage{}
	}
	data, err := docs.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("compressing CAS content: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}

	// write then rename so concurrent readers never see a partial file
	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-*")
	if err != nil {
		return fmt.Errorf("writing CAS file: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing CAS file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing CAS file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing CAS file: %w", err)
	}
	return nil
}

// Read retrieves the records stored under key. A missing entry yields an
// error matching os.ErrNotExist.
func (s *Store) Read(key string) ([]json.RawMessage, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		return nil, fmt.Errorf("reading CAS file %s: %w", key, err)
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing CAS file %s: %w", key, err)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding CAS file %s: %w", key, err)
	}
	return records, nil
}

// GetOrCompute returns the records under key, running compute and storing
// its result on a miss. Concurrent calls for one key share one compute.
// hit reports whether the records came from the store.
func (s *Store) GetOrCompute(key string, compute func() ([]json.RawMessage, error)) (records []json.RawMessage, hit bool, err error) {
	if records, err := s.Read(key); err == nil {
		return records, true, nil
	}
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		records, err := compute()
		if err != nil {
			return nil, err
		}
		if err := s.Write(key, records); err != nil {
			return nil, err
		}
		return records, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]json.RawMessage), false, nil
}

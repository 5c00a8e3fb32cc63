package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"pico/internal/fault"
	"pico/internal/lexer"
	"pico/internal/source"
	"pico/internal/token"
)

// Current schema version - increment when Verdict format changes
const diskCacheSchemaVersion uint16 = 1

// Digest keys cache entries.
type Digest [32]byte

// DiskCache stores recognition verdicts keyed by content and engine.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Verdict is the cached outcome of recognizing one content hash.
type Verdict struct {
	Schema   uint16
	Engine   string
	Accepted bool

	// Заполнено только для отказа
	Kind     uint8
	Expected uint8
	OneOf    []uint8
	Actual   uint8
	Lexeme   string
	Line     uint32
	Column   uint32
	Offset   uint32
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

// VerdictKey mixes the schema and engine into the content hash, so a format
// change or another engine never reads a stale verdict.
func VerdictKey(content [32]byte, engine lexer.Engine) Digest {
	h := sha256.New()
	var schema [2]byte
	binary.BigEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	_, _ = h.Write(schema[:])
	_, _ = h.Write([]byte(engine.String()))
	_, _ = h.Write(content[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "verdicts", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a verdict; the file appears atomically.
func (c *DiskCache) Put(key Digest, v *Verdict) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	v.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(v); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a verdict. Entries of another schema count as misses.
func (c *DiskCache) Get(key Digest, out *Verdict) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode verdict: %w", err)
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll removes every cached verdict.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименовываем, чтобы параллельный pico не увидел полуудалённый кэш
	old := c.dir + ".old-" + time.Now().Format("20060102150405.000000")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func verdictFromError(engine lexer.Engine, fe *fault.Error) *Verdict {
	v := &Verdict{Engine: engine.String(), Accepted: fe == nil}
	if fe == nil {
		return v
	}
	v.Kind = uint8(fe.Kind)
	v.Expected = uint8(fe.Expected)
	v.Actual = uint8(fe.Actual)
	v.Lexeme = fe.Lexeme
	v.Line, v.Column, v.Offset = fe.Pos.Line, fe.Pos.Column, fe.Pos.Offset
	for _, k := range fe.OneOf {
		v.OneOf = append(v.OneOf, uint8(k))
	}
	return v
}

// Err rebuilds the failure; nil for an accepted verdict.
func (v *Verdict) Err() *fault.Error {
	if v.Accepted {
		return nil
	}
	fe := &fault.Error{
		Kind:     fault.Kind(v.Kind),
		Expected: token.Kind(v.Expected),
		Actual:   token.Kind(v.Actual),
		Lexeme:   v.Lexeme,
		Pos:      source.Position{Line: v.Line, Column: v.Column, Offset: v.Offset},
	}
	for _, k := range v.OneOf {
		fe.OneOf = append(fe.OneOf, token.Kind(k))
	}
	return fe
}

package cache

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/expozr/navigator/pkg/types"
)

// cacheFileName is the JSONL index inside the store's data directory.
const cacheFileName = "cache.jsonl"

// File is the synchronous persistent small-capacity store. The whole index
// is read into memory when the store opens, and every write persists the
// full index as JSONL with a temp-file, fsync, rename sequence, so a crash
// leaves either the old or the new file, never a torn one.
//
// Values round-trip through JSON; readers get json.RawMessage back.
type File struct {
	mu      sync.Mutex
	path    string
	entries map[string]types.CacheEntry
	now     func() time.Time
}

// NewFile opens (or creates) the file store rooted at dataDir.
func NewFile(dataDir string) (*File, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, &types.CacheError{Op: "open", Cause: err}
	}

	f := &File{
		path:    filepath.Join(dataDir, cacheFileName),
		entries: make(map[string]types.CacheEntry),
		now:     time.Now,
	}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

// load reads the JSONL index. A missing file is an empty store; malformed
// lines are skipped.
func (f *File) load() error {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &types.CacheError{Op: "open", Cause: err}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry types.CacheEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		f.entries[entry.Key] = entry
	}
	if err := scanner.Err(); err != nil {
		return &types.CacheError{Op: "open", Cause: err}
	}
	return nil
}

// persist atomically rewrites the JSONL index from the in-memory map.
// Callers hold f.mu.
func (f *File) persist() error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", step, err)
	}

	w := bufio.NewWriter(tmp)
	for _, entry := range f.entries {
		line, err := json.Marshal(entry)
		if err != nil {
			return fail("encoding entry", err)
		}
		if _, err := w.Write(line); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Get returns the live value for key as json.RawMessage, lazily evicting
// an expired entry. Eviction persists synchronously; a persist failure on
// the read path is still surfaced as a *CacheError so callers can detect
// persistence problems, but the value is reported as a miss either way.
func (f *File) Get(_ context.Context, key string) (any, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[key]
	if !ok {
		return nil, false, nil
	}
	if entry.Expired(f.now()) {
		delete(f.entries, key)
		if err := f.persist(); err != nil {
			return nil, false, &types.CacheError{Op: "get", Key: key, Cause: err}
		}
		return nil, false, nil
	}
	return entry.Value, true, nil
}

// Set stores value under key and persists synchronously.
func (f *File) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return &types.CacheError{Op: "set", Key: key, Cause: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entry := types.CacheEntry{Key: key, Value: raw}
	if ttl > 0 {
		entry.ExpiresAt = f.now().Add(ttl).UnixMilli()
	}
	f.entries[key] = entry

	if err := f.persist(); err != nil {
		return &types.CacheError{Op: "set", Key: key, Cause: err}
	}
	return nil
}

// Has reports whether a live entry exists.
func (f *File) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := f.Get(ctx, key)
	return ok, err
}

// Delete removes the entry for key and persists synchronously.
func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.entries[key]; !ok {
		return nil
	}
	delete(f.entries, key)
	if err := f.persist(); err != nil {
		return &types.CacheError{Op: "delete", Key: key, Cause: err}
	}
	return nil
}

// Clear removes every entry and persists synchronously.
func (f *File) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = make(map[string]types.CacheEntry)
	if err := f.persist(); err != nil {
		return &types.CacheError{Op: "clear", Cause: err}
	}
	return nil
}

// Size returns the number of entries, including not-yet-evicted expired ones.
func (f *File) Size(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries), nil
}

// CleanExpired removes expired entries and persists once at the end.
func (f *File) CleanExpired(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	removed := 0
	for key, entry := range f.entries {
		if entry.Expired(now) {
			delete(f.entries, key)
			removed++
		}
	}
	if removed > 0 {
		if err := f.persist(); err != nil {
			return removed, &types.CacheError{Op: "clean", Cause: err}
		}
	}
	return removed, nil
}

// Close is a no-op: every write already persisted synchronously.
func (f *File) Close() error { return nil }

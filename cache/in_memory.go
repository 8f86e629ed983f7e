// Package cache provides the extraction cache: a capacity-bounded,
// time-expiring store for structured meeting details keyed by normalized
// request text. Identical requests inside the TTL window skip the expensive
// extraction call entirely.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/calmesh/core"
)

// DefaultMaxSize bounds the number of live entries.
const DefaultMaxSize = 100

// DefaultTTL is how long an entry stays valid after insertion.
const DefaultTTL = 300 * time.Second

// Options configures an InMemoryStore.
type Options struct {
	// MaxSize caps the number of entries; the oldest-inserted entry is
	// evicted when a Set would exceed it.
	MaxSize int
	// TTL is the fixed lifetime applied to every entry at insertion.
	TTL time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

type entry struct {
	key       string
	details   *core.MeetingDetails
	expiresAt time.Time
}

// InMemoryStore is a process-local core.ExtractionCache. Safe for
// concurrent use: a single mutex serializes get/set/evict, held only for
// the duration of the map operation. Entries expire lazily on access; there
// is no reaper goroutine and no persistence across restarts.
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   []string // insertion order, oldest first
	maxSize int
	ttl     time.Duration
	now     func() time.Time

	hits      uint64
	misses    uint64
	evictions uint64
}

var _ core.ExtractionCache = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty extraction cache.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{
		MaxSize: DefaultMaxSize,
		TTL:     DefaultTTL,
		Now:     time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{
		entries: make(map[string]*entry),
		maxSize: opts.MaxSize,
		ttl:     opts.TTL,
		now:     opts.Now,
	}
}

// Key returns the stable cache key for a request: an MD5 digest of the
// lower-cased, whitespace-trimmed text. Exported so telemetry can correlate
// log lines with entries without holding the raw text.
func Key(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Get returns the stored record for text if present and unexpired. Expired
// entries are removed on access.
func (s *InMemoryStore) Get(text string) (*core.MeetingDetails, bool) {
	key := Key(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		s.misses++
		return nil, false
	}
	if !s.now().Before(e.expiresAt) {
		s.removeLocked(key)
		s.misses++
		return nil, false
	}

	s.hits++
	return e.details, true
}

// Set inserts or overwrites the record for text with a fresh expiry. An
// overwrite counts as a re-insertion for eviction ordering.
func (s *InMemoryStore) Set(text string, details *core.MeetingDetails) {
	key := Key(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; ok {
		s.removeLocked(key)
	}

	for len(s.entries) >= s.maxSize && len(s.order) > 0 {
		s.removeLocked(s.order[0])
		s.evictions++
	}

	s.entries[key] = &entry{
		key:       key,
		details:   details,
		expiresAt: s.now().Add(s.ttl),
	}
	s.order = append(s.order, key)
}

// Clear removes all entries. Counters are preserved.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*entry)
	s.order = s.order[:0]
}

// Stats returns a snapshot of cache telemetry.
func (s *InMemoryStore) Stats() core.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return core.CacheStats{
		Size:      len(s.entries),
		MaxSize:   s.maxSize,
		TTL:       s.ttl,
		Hits:      s.hits,
		Misses:    s.misses,
		Evictions: s.evictions,
	}
}

// removeLocked drops an entry and its order slot; caller holds the lock.
func (s *InMemoryStore) removeLocked(key string) {
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

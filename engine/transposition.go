package engine

// Cache maps position fingerprints to static evaluation scores. Entries carry
// no depth or bound, so a cache belongs to one worker for one search and is
// not safe for concurrent use.
type Cache struct {
	entries map[uint64]int32
	hits    uint64
	misses  uint64
}

// NewCache returns an empty cache sized for about sizeHint entries.
func NewCache(sizeHint int) *Cache {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Cache{entries: make(map[uint64]int32, sizeHint)}
}

// Lookup returns the score stored for hash, if any.
func (c *Cache) Lookup(hash uint64) (int32, bool) {
	score, ok := c.entries[hash]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return score, ok
}

// Store records score for hash, replacing any previous entry.
func (c *Cache) Store(hash uint64, score int32) {
	c.entries[hash] = score
}

// Len returns the number of stored entries.
func (c *Cache) Len() int { return len(c.entries) }

// Stats returns the number of lookups that hit and missed.
func (c *Cache) Stats() (hits, misses uint64) { return c.hits, c.misses }

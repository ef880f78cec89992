package device

import (
	"container/list"
	"sync"

	"raid5vol/pkg/raid5"
)

// CachedDevice wraps a SectorDevice with an LRU read cache. Writes are
// write-through: they update the underlying device and the cache
// entry synchronously, so a cached device never reports stale data to
// a later read and never defers durability the way a write-back cache
// would.
type CachedDevice struct {
	mu      sync.Mutex
	device  SectorDevice
	maxSize int
	entries map[int]*list.Element
	order   *list.List

	hits   uint64
	misses uint64
}

type cacheEntry struct {
	sector int
	data   [raid5.SectorSize]byte
}

// NewCachedDevice wraps device with an LRU cache holding up to
// maxSize sectors.
func NewCachedDevice(device SectorDevice, maxSize int) *CachedDevice {
	return &CachedDevice{
		device:  device,
		maxSize: maxSize,
		entries: make(map[int]*list.Element),
		order:   list.New(),
	}
}

func (c *CachedDevice) Read(sector int, buf []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[sector]; ok {
		c.order.MoveToFront(elem)
		c.hits++
		copy(buf, elem.Value.(*cacheEntry).data[:])
		return nil
	}

	c.misses++
	if err := c.device.Read(sector, buf); err != nil {
		return err
	}
	c.insert(sector, buf)
	return nil
}

func (c *CachedDevice) Write(sector int, buf []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.device.Write(sector, buf); err != nil {
		return err
	}

	if elem, ok := c.entries[sector]; ok {
		copy(elem.Value.(*cacheEntry).data[:], buf)
		c.order.MoveToFront(elem)
		return nil
	}
	c.insert(sector, buf)
	return nil
}

func (c *CachedDevice) insert(sector int, data []byte) {
	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	entry := &cacheEntry{sector: sector}
	copy(entry.data[:], data)
	elem := c.order.PushFront(entry)
	c.entries[sector] = elem
}

func (c *CachedDevice) evictOldest() {
	back := c.order.Back()
	if back == nil {
		return
	}
	entry := back.Value.(*cacheEntry)
	delete(c.entries, entry.sector)
	c.order.Remove(back)
}

// Stats reports cache hit/miss counters.
func (c *CachedDevice) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *CachedDevice) SectorCount() int { return c.device.SectorCount() }

func (c *CachedDevice) Close() error { return c.device.Close() }

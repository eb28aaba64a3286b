package thumbnail

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type cachedThumb struct {
	data              []byte
	expireAtTimestamp int64
}

// Cache A TTL cache for rendered thumbnail buffers, so repeated map popup
// loads do not re-fetch and re-encode the same image.
type Cache struct {
	stop chan struct{}

	wg     sync.WaitGroup
	mu     sync.RWMutex
	thumbs map[string]cachedThumb
}

// NewCache Create a cache whose expired entries are swept every
// cleanupInterval.
func NewCache(cleanupInterval time.Duration) *Cache {
	log.Info("Creating thumbnail cache with cleanup interval ", cleanupInterval)
	c := &Cache{
		thumbs: make(map[string]cachedThumb),
		stop:   make(chan struct{}),
	}

	c.wg.Add(1)
	go func(cleanupInterval time.Duration) {
		defer c.wg.Done()
		c.cleanupLoop(cleanupInterval)
	}(cleanupInterval)

	return c
}

// cleanupLoop Drop expired thumbnails until the cache is stopped.
func (c *Cache) cleanupLoop(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-t.C:
			c.mu.Lock()
			for id, thumb := range c.thumbs {
				if thumb.expireAtTimestamp <= time.Now().Unix() {
					log.Debug("Thumbnail expired: ", id)
					delete(c.thumbs, id)
				}
			}
			c.mu.Unlock()
		}
	}
}

// Stop Halt the cleanup goroutine.
func (c *Cache) Stop() {
	close(c.stop)
	c.wg.Wait()
}

// Put Store a rendered thumbnail until expireAtTimestamp.
func (c *Cache) Put(id string, data []byte, expireAtTimestamp int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.thumbs[id] = cachedThumb{
		data:              data,
		expireAtTimestamp: expireAtTimestamp,
	}
}

// Get Read a thumbnail from the cache. Expired entries that the cleanup
// loop has not reached yet are treated as absent.
func (c *Cache) Get(id string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	thumb, ok := c.thumbs[id]
	if !ok || thumb.expireAtTimestamp <= time.Now().Unix() {
		return nil, false
	}
	return thumb.data, true
}

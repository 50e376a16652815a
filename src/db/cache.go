package db

import (
	"fmt"
	"sync"

	"github.com/dgraph-io/ristretto"

	"fintrack-server/src/models"
)

// Cache holds per-user category lists. Keys are tracked per user so every list
// a user owns can be dropped at once when one of their categories changes.
type Cache struct {
	store *ristretto.Cache
	keys  struct {
		sync.Mutex
		m     map[int64]map[string]struct{}
		gen   map[int64]uint64
		epoch uint64
	}
}

// Generation identifies the state of a user's cached lists. It changes on every
// ClearCategories for that user and on ClearAll.
type Generation struct {
	epoch, user uint64
}

func NewCache(maxCost int64) (*Cache, error) {
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCost * 10, // number of keys to track frequency of
		MaxCost:     maxCost,
		BufferItems: 64, // number of keys per Get buffer

		// each cached list costs 1 regardless of its size in memory
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	c := &Cache{store: store}
	c.keys.m = make(map[int64]map[string]struct{})
	c.keys.gen = make(map[int64]uint64)
	return c, nil
}

func categoryCacheKey(userID int64, typ *models.TransactionType) string {
	if typ == nil {
		return fmt.Sprintf("categories:%d:all", userID)
	}
	return fmt.Sprintf("categories:%d:%s", userID, *typ)
}

// GetCategories returns a copy of the cached list. A nil Cache always misses.
func (c *Cache) GetCategories(userID int64, typ *models.TransactionType) ([]models.Category, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.store.Get(categoryCacheKey(userID, typ))
	if !ok {
		return nil, false
	}
	cached := v.([]models.Category)
	out := make([]models.Category, len(cached))
	copy(out, cached)
	return out, true
}

// CategoriesGeneration must be read before loading the list that is later
// passed to SetCategories.
func (c *Cache) CategoriesGeneration(userID int64) Generation {
	if c == nil {
		return Generation{}
	}
	c.keys.Lock()
	defer c.keys.Unlock()
	return Generation{epoch: c.keys.epoch, user: c.keys.gen[userID]}
}

// SetCategories stores categories unless the user's lists were cleared after
// gen was taken, in which case the list may predate the change and is dropped.
func (c *Cache) SetCategories(userID int64, typ *models.TransactionType, categories []models.Category, gen Generation) bool {
	if c == nil {
		return false
	}
	key := categoryCacheKey(userID, typ)
	stored := make([]models.Category, len(categories))
	copy(stored, categories)

	c.keys.Lock()
	defer c.keys.Unlock()
	if gen != (Generation{epoch: c.keys.epoch, user: c.keys.gen[userID]}) {
		return false
	}
	if c.keys.m[userID] == nil {
		c.keys.m[userID] = make(map[string]struct{})
	}
	c.keys.m[userID][key] = struct{}{}

	c.store.Set(key, stored, 1)
	c.store.Wait()
	return true
}

// ClearCategories drops every cached list of userID.
func (c *Cache) ClearCategories(userID int64) {
	if c == nil {
		return
	}
	c.keys.Lock()
	for key := range c.keys.m[userID] {
		c.store.Del(key)
	}
	delete(c.keys.m, userID)
	c.keys.gen[userID]++
	c.keys.Unlock()
}

func (c *Cache) ClearAll() {
	if c == nil {
		return
	}
	c.keys.Lock()
	c.store.Clear()
	c.keys.m = make(map[int64]map[string]struct{})
	c.keys.epoch++
	c.keys.Unlock()
}

func (c *Cache) Close() {
	if c == nil {
		return
	}
	c.store.Close()
}

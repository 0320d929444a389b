package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"go.uber.org/zap"

	"ninernav/domain"
	"ninernav/internal/service/logger"
)

// MapCatalog holds the ids of every playable map. Init must be called once before the
// catalog is used. Maps are never added after Init; ones found missing are removed.
type MapCatalog struct {
	repository domain.GameRepository

	mu   sync.Mutex
	ids  []uint
	rand *rand.Rand
}

func NewMapCatalog(repository domain.GameRepository, seed uint64) *MapCatalog {
	return &MapCatalog{
		repository: repository,
		rand:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (c *MapCatalog) Init(ctx context.Context) error {
	ids, err := c.repository.ListMapIDs(ctx)
	if err != nil {
		return fmt.Errorf("loading map catalog: %w", err)
	}
	if len(ids) == 0 {
		return domain.ErrNoMaps
	}

	c.mu.Lock()
	c.ids = ids
	c.mu.Unlock()

	logger.GameLogger.Info("Map catalog loaded", zap.Int("maps", len(ids)))
	return nil
}

func (c *MapCatalog) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ids)
}

func (c *MapCatalog) Contains(id uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Contains(c.ids, id)
}

// Remove drops a map that has disappeared from the store since Init.
func (c *MapCatalog) Remove(id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = slices.DeleteFunc(c.ids, func(v uint) bool { return v == id })
}

// Shuffle returns a new random permutation of all map ids.
func (c *MapCatalog) Shuffle() []uint {
	c.mu.Lock()
	defer c.mu.Unlock()

	order := make([]uint, len(c.ids))
	copy(order, c.ids)
	c.rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

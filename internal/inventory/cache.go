package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const listCacheTTL = 30 * time.Second

// ListCache is a short-TTL cache over paginated product listings. It is
// strictly an optimization: every error falls through to the database and
// is logged at most.
type ListCache struct {
	rdb    *redis.Client
	logger *log.Logger
}

func NewListCache(rdb *redis.Client, logger *log.Logger) *ListCache {
	return &ListCache{rdb: rdb, logger: logger}
}

func listKey(page, pageSize int) string {
	return fmt.Sprintf("products:%d:%d", page, pageSize)
}

func (c *ListCache) Get(ctx context.Context, page, pageSize int) ([]Product, bool) {
	cached, err := c.rdb.Get(ctx, listKey(page, pageSize)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Printf("product cache get: %v", err)
		}
		return nil, false
	}

	var products []Product
	if err := json.Unmarshal(cached, &products); err != nil {
		c.logger.Printf("product cache decode: %v", err)
		return nil, false
	}
	return products, true
}

func (c *ListCache) Set(ctx context.Context, page, pageSize int, products []Product) {
	body, err := json.Marshal(products)
	if err != nil {
		c.logger.Printf("product cache encode: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, listKey(page, pageSize), body, listCacheTTL).Err(); err != nil {
		c.logger.Printf("product cache set: %v", err)
	}
}

// Package redisx holds the redis client constructor shared by services
// that cache.
package redisx

import (
	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

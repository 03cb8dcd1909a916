package main

import (
	"time"

	"github.com/hukumtek/LexIntel/internal/application/ingestion"
	"github.com/hukumtek/LexIntel/internal/infrastructure/database/redis"
)

// redisLockManager adapts redis.Client to the ingestion lock interface.
type redisLockManager struct {
	client *redis.Client
}

func (m *redisLockManager) NewLock(name string, ttl time.Duration) ingestion.Lock {
	return m.client.NewLock(name, ttl)
}

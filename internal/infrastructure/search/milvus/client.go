// Package milvus stores clause embeddings in a Milvus collection and serves
// the nearest-neighbor queries behind conflict detection.
package milvus

import (
	"context"
	"sync/atomic"

	"github.com/milvus-io/milvus-sdk-go/v2/client"

	"github.com/hukumtek/LexIntel/internal/config"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

// milvusNewClient is swapped out by tests.
var milvusNewClient = client.NewClient

// Client wraps the Milvus SDK client.
type Client struct {
	mc      client.Client
	logger  logging.Logger
	healthy atomic.Bool
}

// NewClient connects to Milvus and verifies the connection.
func NewClient(ctx context.Context, cfg config.MilvusConfig, log logging.Logger) (*Client, error) {
	mc, err := milvusNewClient(ctx, client.Config{
		Address: cfg.Addr,
		DBName:  cfg.DBName,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to connect to milvus")
	}

	c := &Client{mc: mc, logger: log.Named("milvus")}
	if err := c.CheckHealth(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	log.Info("connected to Milvus", logging.String("addr", cfg.Addr))
	return c, nil
}

// NewClientWithMilvus wraps an existing SDK client.  Used by tests.
func NewClientWithMilvus(mc client.Client, log logging.Logger) *Client {
	return &Client{mc: mc, logger: log}
}

// Milvus returns the underlying SDK client.
func (c *Client) Milvus() client.Client {
	return c.mc
}

// CheckHealth verifies the server is reachable and healthy.
func (c *Client) CheckHealth(ctx context.Context) error {
	if _, err := c.mc.CheckHealth(ctx); err != nil {
		c.healthy.Store(false)
		return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "milvus health check failed")
	}
	c.healthy.Store(true)
	return nil
}

// IsHealthy reports the result of the last health check.
func (c *Client) IsHealthy() bool {
	return c.healthy.Load()
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.mc != nil {
		c.mc.Close()
	}
	return nil
}

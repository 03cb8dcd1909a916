// Package opensearch maintains the clause full-text index used by keyword
// search over segmented versions.
package opensearch

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"

	"github.com/hukumtek/LexIntel/internal/config"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

// Client wraps the OpenSearch client.
type Client struct {
	os     *opensearch.Client
	logger logging.Logger
}

// NewClient connects to OpenSearch and verifies the connection.
func NewClient(cfg config.OpenSearchConfig, log logging.Logger) (*Client, error) {
	transport := &http.Transport{MaxIdleConnsPerHost: 10}
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	osClient, err := opensearch.NewClient(opensearch.Config{
		Addresses:     cfg.Addresses,
		Username:      cfg.User,
		Password:      cfg.Password,
		Transport:     transport,
		MaxRetries:    3,
		RetryOnStatus: []int{429, 502, 503, 504},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create opensearch client")
	}

	c := &Client{os: osClient, logger: log}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.HealthCheck(ctx); err != nil {
		return nil, err
	}

	log.Info("connected to OpenSearch", logging.Any("addresses", cfg.Addresses))
	return c, nil
}

// OS returns the underlying OpenSearch client.
func (c *Client) OS() *opensearch.Client {
	return c.os
}

// HealthCheck pings the cluster.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.os.Ping(c.os.Ping.WithContext(ctx))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "opensearch ping failed")
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return errors.Newf(errors.ErrCodeDependencyUnavailable, "opensearch ping returned %d", resp.StatusCode)
	}
	return nil
}

// Package opensearch implements db.Store on an OpenSearch cluster with the
// k-NN plugin, through opensearch-go.
package opensearch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"

	"github.com/kailas-cloud/osvector/internal/db"
	"github.com/kailas-cloud/osvector/internal/version"
)

var (
	_ db.Store  = (*Store)(nil)
	_ db.Opener = (*Opener)(nil)
)

// Config holds connection parameters for one cluster.
type Config struct {
	URL                string
	Username           string
	Password           string
	InsecureSkipVerify bool
	RequestTimeout     time.Duration // 0 leaves the transport without a response timeout
}

// Store implements db.Store via opensearchapi.
type Store struct {
	client *opensearchapi.Client
}

// NewStore creates a client for the cluster at cfg.URL.
func NewStore(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, &db.Error{Op: db.OpNewConnection, Err: errors.New("url is required")}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.RequestTimeout
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed dev clusters
	}

	client, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: []string{cfg.URL},
			Username:  cfg.Username,
			Password:  cfg.Password,
			Transport: transport,
			Header:    http.Header{"User-Agent": []string{version.UserAgent()}},
		},
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpNewConnection, Err: err}
	}

	return &Store{client: client}, nil
}

// Ping checks that the cluster answers.
func (s *Store) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	if resp != nil && resp.StatusCode >= http.StatusBadRequest {
		return &db.Error{Op: db.OpPing, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	return nil
}

// Opener creates a fresh Store per connection, sharing transport settings.
type Opener struct {
	InsecureSkipVerify bool
	RequestTimeout     time.Duration
}

// Open implements db.Opener.
func (o *Opener) Open(conn db.Connection) (db.Store, error) {
	s, err := NewStore(Config{
		URL:                conn.URL,
		Username:           conn.Username,
		Password:           conn.Password,
		InsecureSkipVerify: o.InsecureSkipVerify,
		RequestTimeout:     o.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// isOpenSearchErr reports whether err is an OpenSearch API error with the
// given HTTP status and error type, e.g. 400 "resource_already_exists_exception".
func isOpenSearchErr(err error, status int, errType string) bool {
	var apiErr *opensearch.StructError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == status && apiErr.Err.Type == errType
}

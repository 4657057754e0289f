package http

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// PoolConfig sizes and bounds the connection pool to the card processor
type PoolConfig struct {
	MaxIdleConns    int // the processor is a single host, so this is also the per-host limit
	MaxConnsPerHost int
	IdleConnTimeout time.Duration

	DialTimeout           time.Duration
	KeepAlive             time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration // vault and verification calls can be slow
}

// DefaultPoolConfig returns the pool settings used for processor traffic
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxIdleConns:          50,
		MaxConnsPerHost:       100,
		IdleConnTimeout:       90 * time.Second,
		DialTimeout:           10 * time.Second,
		KeepAlive:             60 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
	}
}

// NewPooledClient creates an HTTP client for the processor. Card data never
// travels over anything older than TLS 1.2, and certificate checks cannot be disabled.
func NewPooledClient(cfg *PoolConfig, timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			MaxIdleConns:          cfg.MaxIdleConns,
			MaxIdleConnsPerHost:   cfg.MaxIdleConns,
			MaxConnsPerHost:       cfg.MaxConnsPerHost,
			IdleConnTimeout:       cfg.IdleConnTimeout,
			TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
			ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
			ExpectContinueTimeout: time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			ForceAttemptHTTP2:     true,
		},
	}
}

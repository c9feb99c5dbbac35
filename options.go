package esdex

import (
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

const (
	driverNone   = "none"
	driverMemory = "memory"
	driverSQLite = "sqlite"
	driverRedis  = "redis"
)

type clientConfig struct {
	driver    string
	path      string
	addrs     []string
	password  string
	keyPrefix string

	ioWorkers       int
	defaultSize     int
	maxResultWindow int
	maxBulkActions  int
	clusterName     string

	logger *zap.Logger
}

// WithMemory persists through an in-process key-value store. State is
// lost when the process exits; useful to exercise the persistence path.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
	})
}

// WithSQLite persists to an SQLite database file, created if missing.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverSQLite
		c.path = path
	})
}

// WithRedis persists to a Redis (or Valkey) instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix namespaces every persisted key. Default: "esdex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithIOWorkers bounds concurrent backend calls. Default: 8.
func WithIOWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.ioWorkers = n
	})
}

// WithSearchLimits sets the default page size and the maximum from+size.
// Defaults: 10 and 10000.
func WithSearchLimits(defaultSize, maxResultWindow int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultSize = defaultSize
		c.maxResultWindow = maxResultWindow
	})
}

// WithMaxBulkActions caps the actions of one bulk call. Default: 10000.
func WithMaxBulkActions(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBulkActions = n
	})
}

// WithClusterName sets the cluster name reported by ClusterHealth.
func WithClusterName(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.clusterName = name
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

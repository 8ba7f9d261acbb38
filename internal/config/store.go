package config

import "sync/atomic"

// Store holds the current configuration and supports atomic swaps.
type Store struct {
	v       atomic.Pointer[Config]
	version atomic.Uint64
}

// NewStore creates a Store with the initial configuration.
func NewStore(cfg *Config) *Store {
	s := &Store{}
	s.v.Store(cfg)
	return s
}

// Current returns the current configuration.
func (s *Store) Current() *Config {
	return s.v.Load()
}

// Version increases by one on every Update.
func (s *Store) Version() uint64 {
	return s.version.Load()
}

// Update replaces the current configuration.
func (s *Store) Update(cfg *Config) {
	s.v.Store(cfg)
	s.version.Add(1)
}

// Copyright 2025 VTU Tools Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package automarks wires the extraction engine, storage gateway and
// ingestion coordinator into one system handle.
package automarks

import (
	"log/slog"

	"github.com/vtu-tools/automarks/config"
	"github.com/vtu-tools/automarks/ingest"
	"github.com/vtu-tools/automarks/query"
	"github.com/vtu-tools/automarks/storage"
	"github.com/vtu-tools/automarks/storage/badger"
)

// System owns the storage backend and hands out the domain services built
// on it.
type System struct {
	backend *badger.Backend
	gateway storage.Gateway
	cfg     *config.Config
	logger  *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	cfg *config.Config
}

// WithConfig supplies a resolved configuration. Default is config.Default().
func WithConfig(cfg *config.Config) SystemOption {
	return func(o *systemOptions) {
		if cfg != nil {
			o.cfg = cfg
		}
	}
}

// Open opens the system on the configured data directory.
func Open(opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		cfg: config.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(options.cfg.DataDir, false)
	if err != nil {
		return nil, err
	}

	gateway, err := badger.NewGateway(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &System{
		backend: backend,
		gateway: gateway,
		cfg:     options.cfg,
		logger:  slog.Default(),
	}, nil
}

// Close releases the gateway and the backing store.
func (s *System) Close() error {
	if err := s.gateway.Close(); err != nil {
		s.logger.Error("error closing gateway", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Gateway exposes the persistence surface.
func (s *System) Gateway() storage.Gateway {
	return s.gateway
}

// NewCoordinator builds an ingestion coordinator configured from the
// system's settings; extra options are applied on top.
func (s *System) NewCoordinator(opts ...ingest.Option) (*ingest.Coordinator, error) {
	base := []ingest.Option{
		ingest.WithFlushSize(s.cfg.FlushSize),
		ingest.WithErrorLog(s.cfg.ErrorLogPath),
	}
	if s.cfg.PoolSize > 0 {
		base = append(base, ingest.WithPoolSize(s.cfg.PoolSize))
	}
	if !s.cfg.KeepProcessed {
		base = append(base, ingest.WithRemoveProcessed())
	}
	return ingest.NewCoordinator(s.gateway, append(base, opts...)...)
}

// NewQueryService builds the read model over this system's gateway.
func (s *System) NewQueryService(opts ...query.Option) *query.Service {
	return query.NewService(s.gateway, opts...)
}

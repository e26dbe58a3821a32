/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/carverauto/podradar/pkg/logger"
)

// Factory builds a sink from its configuration.
type Factory func(ctx context.Context, cfg Config, log logger.Logger) (Sink, error)

// Registry maps sink type names to factories.
type Registry interface {
	Register(sinkType string, factory Factory)
	Get(ctx context.Context, cfg Config, log logger.Logger) (Sink, error)
	Types() []string
}

type sinkRegistry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() Registry {
	return &sinkRegistry{
		factories: make(map[string]Factory),
	}
}

func (r *sinkRegistry) Register(sinkType string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[sinkType] = factory
}

// Get builds the sink selected by cfg.ResolveType.
func (r *sinkRegistry) Get(ctx context.Context, cfg Config, log logger.Logger) (Sink, error) {
	sinkType := cfg.ResolveType()

	r.mu.RLock()
	f, ok := r.factories[sinkType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSink, sinkType)
	}

	return f(ctx, cfg, log)
}

func (r *sinkRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}

	sort.Strings(types)

	return types
}

// DefaultRegistry returns a registry with every built-in sink. The console
// sink writes to stdout.
func DefaultRegistry() Registry {
	return defaultRegistry(os.Stdout)
}

func defaultRegistry(stdout io.Writer) Registry {
	r := NewRegistry()

	r.Register(TypeConsole, func(_ context.Context, _ Config, _ logger.Logger) (Sink, error) {
		return NewConsoleSink(stdout), nil
	})

	r.Register(TypeFile, func(_ context.Context, cfg Config, _ logger.Logger) (Sink, error) {
		return NewFileSink(cfg.Path)
	})

	r.Register(TypeNATS, func(_ context.Context, cfg Config, log logger.Logger) (Sink, error) {
		s, err := NewNATSSink(cfg.NATS, log)
		if err != nil {
			return nil, err
		}

		return WithBreaker(TypeNATS, s, cfg.Breaker, log), nil
	})

	r.Register(TypeMQTT, func(_ context.Context, cfg Config, log logger.Logger) (Sink, error) {
		s, err := NewMQTTSink(cfg.MQTT, log)
		if err != nil {
			return nil, err
		}

		return WithBreaker(TypeMQTT, s, cfg.Breaker, log), nil
	})

	return r
}

// New builds the sink described by cfg from the default registry.
func New(ctx context.Context, cfg Config, log logger.Logger) (Sink, error) {
	return DefaultRegistry().Get(ctx, cfg, log)
}

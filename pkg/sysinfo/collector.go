// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package sysinfo

import (
	"context"

	"github.com/go-logr/logr"
)

// PointCollector performs one-shot collection of a single snapshot category
type PointCollector interface {
	Name() string

	// Collect performs a single collection and returns the category data.
	// A nil data value with a nil error means the category is legitimately
	// absent on this host (e.g. no battery).
	Collect(ctx context.Context) (any, error)

	Capabilities() CollectorCapabilities
}

type CollectorCapabilities struct {
	RequiresRoot bool
	// RequiresExternalTools marks collectors that shell out to platform
	// inventory commands and therefore depend on CommandTimeout.
	RequiresExternalTools bool
}

// BaseCollector carries the pieces every collector shares. Concrete
// collectors embed it and implement Collect.
type BaseCollector struct {
	name         string
	logger       logr.Logger
	config       CollectionConfig
	capabilities CollectorCapabilities
}

func NewBaseCollector(name string, logger logr.Logger, config CollectionConfig, capabilities CollectorCapabilities) BaseCollector {
	return BaseCollector{
		name:         name,
		logger:       logger.WithName(name),
		config:       config,
		capabilities: capabilities,
	}
}

func (b *BaseCollector) Name() string {
	return b.name
}

func (b *BaseCollector) Logger() logr.Logger {
	return b.logger
}

func (b *BaseCollector) Config() CollectionConfig {
	return b.config
}

func (b *BaseCollector) Capabilities() CollectorCapabilities {
	return b.capabilities
}

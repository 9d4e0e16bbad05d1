// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"
	"strings"

	"github.com/narmesh/System-Spec-Analyzer/pkg/hostexec"
)

// queryAdapterNames lists video controllers from the WMI command-line
// inventory.
func (c *GraphicsCollector) queryAdapterNames(ctx context.Context) ([]string, error) {
	out, err := hostexec.Output(ctx, gpuProbeTimeout,
		"wmic", "path", "win32_VideoController", "get", "name")
	if err != nil {
		return nil, err
	}
	return parseWmicAdapters(string(out)), nil
}

// parseWmicAdapters parses the plain "get name" listing, skipping the header
// row and the software-rendered Microsoft adapters.
func parseWmicAdapters(out string) []string {
	var names []string
	for i, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if i == 0 || name == "" {
			continue
		}
		if strings.HasPrefix(name, "Microsoft") {
			continue
		}
		names = append(names, name)
	}
	return names
}

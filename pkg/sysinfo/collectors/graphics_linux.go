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

// queryAdapterNames lists display adapters from the PCI bus listing.
func (c *GraphicsCollector) queryAdapterNames(ctx context.Context) ([]string, error) {
	out, err := hostexec.Output(ctx, gpuProbeTimeout, "lspci")
	if err != nil {
		return nil, err
	}
	return parseLspciAdapters(string(out)), nil
}

// parseLspciAdapters extracts adapter names from VGA/3D/Display class lines,
// e.g. "01:00.0 VGA compatible controller: NVIDIA Corporation GA104".
func parseLspciAdapters(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "vga compatible controller") &&
			!strings.Contains(lower, "3d controller") &&
			!strings.Contains(lower, "display controller") {
			continue
		}
		_, name, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"

	"github.com/narmesh/System-Spec-Analyzer/pkg/hostexec"
	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// queryBoard reads baseboard identity from the WMI command-line inventory.
func (c *BoardCollector) queryBoard(ctx context.Context) (*sysinfo.BoardInfo, error) {
	out, err := hostexec.Output(ctx, c.Config().CommandTimeout,
		"wmic", "baseboard", "get", "manufacturer,product,version,serialnumber", "/format:csv")
	if err != nil {
		return nil, err
	}
	return parseWmicBaseboard(string(out)), nil
}

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

// queryBoard reads baseboard identity from dmidecode. Requires root on most
// distributions; a permission failure degrades to all-Unknown like any
// other tool failure.
func (c *BoardCollector) queryBoard(ctx context.Context) (*sysinfo.BoardInfo, error) {
	out, err := hostexec.Output(ctx, c.Config().CommandTimeout, "dmidecode", "-t", "baseboard")
	if err != nil {
		return nil, err
	}
	return parseDmidecodeBaseboard(string(out)), nil
}

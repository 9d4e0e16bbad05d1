// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

//go:build !linux && !windows

package collectors

import (
	"context"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// queryBoard has no inventory tool on this platform; the board reports
// all-Unknown.
func (c *BoardCollector) queryBoard(ctx context.Context) (*sysinfo.BoardInfo, error) {
	return sysinfo.NewBoardInfo(), nil
}

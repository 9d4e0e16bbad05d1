// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package dashboard

import (
	"fmt"
	"io"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// ConsolePresenter renders progress lines and a full text dashboard to a
// writer, typically stdout.
type ConsolePresenter struct {
	w io.Writer
	// ClearScreen redraws in place between runs instead of scrolling.
	ClearScreen bool
}

func NewConsolePresenter(w io.Writer) *ConsolePresenter {
	return &ConsolePresenter{w: w}
}

func (p *ConsolePresenter) Progress(ev sysinfo.Progress) {
	fmt.Fprintf(p.w, "[%3d%%] %s\n", ev.Percent, ev.Message)
}

func (p *ConsolePresenter) Render(snap *sysinfo.Snapshot) {
	if p.ClearScreen {
		fmt.Fprint(p.w, "\033[2J\033[H")
	}
	renderSnapshot(p.w, snap)
}

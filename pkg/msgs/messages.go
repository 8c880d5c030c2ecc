// Package msgs defines the messages posted on the control loops and
// the typed telemetry events published off-robot.
package msgs

import (
	"github.com/roverbotics/rover.go/pkg/command"
)

// CommandMsg carries one decoded command into the command loop. The
// motion arbiter takes these during its control stage.
type CommandMsg struct {
	Cmd command.Command
	// Source names where the command came from (serial, mqtt,
	// console); diagnostics only.
	Source string
}

// SnapshotMsg announces that a fresh ranging snapshot was published.
// The snapshot itself is handed off by atomic pointer; this message
// only wakes consumers that want to react between ticks.
type SnapshotMsg struct {
	Cycle uint32
}

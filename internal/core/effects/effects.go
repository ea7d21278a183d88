// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

import (
	"time"

	"github.com/example/gapfill/internal/models"
)

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// WorklogEffect asks the shell to add a worklog to the ledger.
type WorklogEffect struct {
	Action models.WorklogAction
}

func (e WorklogEffect) EffectType() string { return "worklog" }

// WarningEffect surfaces an anomaly without touching the ledger.
type WarningEffect struct {
	Anomaly models.Anomaly
}

func (e WarningEffect) EffectType() string { return "warning" }

// NoEffect represents a day that needs nothing.
type NoEffect struct {
	Day time.Time
}

func (e NoEffect) EffectType() string { return "none" }

// Package dice provides die rolling for initiative, backed by rpg-toolkit
package dice

import (
	rpgdice "github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/fablekeeper/combat-engine/internal/errors"
)

// Roller produces die roll totals
type Roller interface {
	// Roll rolls count dice of the given size and returns the total
	Roll(count, size int) (int, error)
}

// ToolkitRoller rolls using rpg-toolkit's dice
type ToolkitRoller struct{}

// NewToolkitRoller creates a roller backed by rpg-toolkit
func NewToolkitRoller() *ToolkitRoller {
	return &ToolkitRoller{}
}

// Roll rolls count dice of the given size and returns the total
func (r *ToolkitRoller) Roll(count, size int) (int, error) {
	roll, err := rpgdice.NewRoll(count, size)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll %dd%d", count, size)
	}

	return roll.GetValue(), nil
}

// SequenceRoller returns preset totals in order, for deterministic tests.
// It wraps around when the sequence is exhausted.
type SequenceRoller struct {
	values []int
	next   int
}

// NewSequence creates a roller that replays the given totals
func NewSequence(values ...int) *SequenceRoller {
	return &SequenceRoller{values: values}
}

// Roll returns the next value in the sequence
func (r *SequenceRoller) Roll(count, size int) (int, error) {
	if len(r.values) == 0 {
		return 0, errors.Internal("sequence roller has no values")
	}

	v := r.values[r.next%len(r.values)]
	r.next++
	return v, nil
}

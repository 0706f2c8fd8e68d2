package combat

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/fablekeeper/combat-engine/internal/entities"
	"github.com/fablekeeper/combat-engine/internal/errors"
)

// StartCombat transitions an encounter to active. Starting combat that is
// already active, or combat with no participants, is a silent no-op.
//
// If the initiative order is empty it is derived by sorting participants by
// initiative descending, stable on insertion order. Unlike RollInitiative,
// this fallback sort applies no dexterity tiebreak.
func (s *store) StartCombat(ctx context.Context, input *StartCombatInput) (*StartCombatOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.Lock()

	enc, ok := s.encounters[input.EncounterID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NotFoundf("encounter %q not found", input.EncounterID)
	}

	if enc.Status == entities.StatusActive || len(enc.Participants) == 0 {
		out := &StartCombatOutput{Encounter: enc.DeepCopy()}
		s.mu.Unlock()
		return out, nil
	}

	if len(enc.InitiativeOrder) == 0 {
		order := make([]string, len(enc.Participants))
		idx := make([]int, len(enc.Participants))
		for i := range enc.Participants {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return enc.Participants[idx[a]].Initiative > enc.Participants[idx[b]].Initiative
		})
		for i, pi := range idx {
			order[i] = enc.Participants[pi].ID
		}
		enc.InitiativeOrder = order
	}

	now := s.clock.Now()
	enc.Status = entities.StatusActive
	enc.CurrentRound = 1
	enc.CurrentTurn = 0
	enc.StartTime = &now

	for i := range enc.Participants {
		resetTurnFlags(&enc.Participants[i])
	}
	first := enc.Participant(enc.InitiativeOrder[0])
	if first != nil {
		first.IsActive = true
	}

	s.appendLogLocked(enc, entities.ActionSystem, "", nil, "Combat started", nil)

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	slog.Info("Combat started",
		"encounter_id", input.EncounterID,
		"participants", len(snapshot.Encounters[input.EncounterID].Participants),
	)

	s.notify(snapshot, handles)

	return &StartCombatOutput{Encounter: snapshot.Encounters[input.EncounterID]}, nil
}

// EndCombat completes an encounter. Ending combat that is neither active
// nor paused is a silent no-op.
func (s *store) EndCombat(ctx context.Context, input *EndCombatInput) (*EndCombatOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.Lock()

	enc, ok := s.encounters[input.EncounterID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NotFoundf("encounter %q not found", input.EncounterID)
	}

	if enc.Status != entities.StatusActive && enc.Status != entities.StatusPaused {
		out := &EndCombatOutput{Encounter: enc.DeepCopy()}
		s.mu.Unlock()
		return out, nil
	}

	now := s.clock.Now()
	enc.Status = entities.StatusCompleted
	enc.EndTime = &now
	for i := range enc.Participants {
		enc.Participants[i].IsActive = false
	}

	s.appendLogLocked(enc, entities.ActionSystem, "", nil, "Combat ended", nil)

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	slog.Info("Combat ended", "encounter_id", input.EncounterID)

	s.notify(snapshot, handles)

	return &EndCombatOutput{Encounter: snapshot.Encounters[input.EncounterID]}, nil
}

// PauseCombat suspends active combat; a no-op in any other status
func (s *store) PauseCombat(ctx context.Context, input *PauseCombatInput) (*PauseCombatOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.Lock()

	enc, ok := s.encounters[input.EncounterID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NotFoundf("encounter %q not found", input.EncounterID)
	}

	if enc.Status != entities.StatusActive {
		out := &PauseCombatOutput{Encounter: enc.DeepCopy()}
		s.mu.Unlock()
		return out, nil
	}

	enc.Status = entities.StatusPaused
	s.appendLogLocked(enc, entities.ActionSystem, "", nil, "Combat paused", nil)

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot, handles)

	return &PauseCombatOutput{Encounter: snapshot.Encounters[input.EncounterID]}, nil
}

// ResumeCombat reactivates paused combat; a no-op in any other status
func (s *store) ResumeCombat(ctx context.Context, input *ResumeCombatInput) (*ResumeCombatOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.Lock()

	enc, ok := s.encounters[input.EncounterID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NotFoundf("encounter %q not found", input.EncounterID)
	}

	if enc.Status != entities.StatusPaused {
		out := &ResumeCombatOutput{Encounter: enc.DeepCopy()}
		s.mu.Unlock()
		return out, nil
	}

	enc.Status = entities.StatusActive
	s.appendLogLocked(enc, entities.ActionSystem, "", nil, "Combat resumed", nil)

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot, handles)

	return &ResumeCombatOutput{Encounter: snapshot.Encounters[input.EncounterID]}, nil
}

// NextTurn advances to the next participant in the initiative order,
// incrementing the round when the order wraps. Timed conditions are expired
// after the flag updates, against the new round number, for every
// participant. A no-op unless combat is active with a non-empty order.
func (s *store) NextTurn(ctx context.Context, input *NextTurnInput) (*NextTurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.Lock()

	enc, ok := s.encounters[input.EncounterID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NotFoundf("encounter %q not found", input.EncounterID)
	}

	if enc.Status != entities.StatusActive || len(enc.InitiativeOrder) == 0 {
		out := &NextTurnOutput{CurrentTurn: enc.CurrentTurn, Round: enc.CurrentRound}
		s.mu.Unlock()
		return out, nil
	}

	next := (enc.CurrentTurn + 1) % len(enc.InitiativeOrder)
	if next == 0 {
		enc.CurrentRound++
	}

	// CurrentTurn can point past the end after a mid-turn removal; the
	// outgoing participant is simply gone in that case
	if enc.CurrentTurn >= 0 && enc.CurrentTurn < len(enc.InitiativeOrder) {
		if current := enc.Participant(enc.InitiativeOrder[enc.CurrentTurn]); current != nil {
			current.IsActive = false
			current.HasActed = true
		}
	}

	activeID := enc.InitiativeOrder[next]
	if nextP := enc.Participant(activeID); nextP != nil {
		resetTurnFlags(nextP)
		nextP.IsActive = true
	}

	enc.CurrentTurn = next

	s.expireConditionsLocked(enc)

	if next == 0 {
		s.appendLogLocked(enc, entities.ActionSystem, activeID, nil,
			fmt.Sprintf("Round %d started", enc.CurrentRound), nil)
	} else {
		name := activeID
		if p := enc.Participant(activeID); p != nil {
			name = p.Name
		}
		s.appendLogLocked(enc, entities.ActionSystem, activeID, nil,
			fmt.Sprintf("Turn moved to %s", name), nil)
	}

	out := &NextTurnOutput{
		CurrentTurn:         enc.CurrentTurn,
		Round:               enc.CurrentRound,
		ActiveParticipantID: activeID,
	}

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	slog.Info("Advanced turn",
		"encounter_id", input.EncounterID,
		"current_turn", out.CurrentTurn,
		"round", out.Round,
	)

	s.notify(snapshot, handles)

	return out, nil
}

// RollInitiative rerolls initiative for every participant (d20 plus
// dexterity bonus) and re-derives the turn order, descending by initiative
// with ties broken by descending dexterity bonus. It may be called in any
// status and never changes status, round, or turn. An encounter with no
// participants is a silent no-op.
func (s *store) RollInitiative(ctx context.Context, input *RollInitiativeInput) (*RollInitiativeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.Lock()

	enc, ok := s.encounters[input.EncounterID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NotFoundf("encounter %q not found", input.EncounterID)
	}

	if len(enc.Participants) == 0 {
		s.mu.Unlock()
		return &RollInitiativeOutput{Order: []string{}}, nil
	}

	// Roll everything up front so a roller failure leaves state untouched
	rolls := make([]int, len(enc.Participants))
	for i := range enc.Participants {
		roll, err := s.roller.Roll(1, 20)
		if err != nil {
			s.mu.Unlock()
			return nil, errors.Wrap(err, "failed to roll initiative")
		}
		rolls[i] = roll + enc.Participants[i].DexBonus()
	}

	for i := range enc.Participants {
		enc.Participants[i].Initiative = rolls[i]
	}

	idx := make([]int, len(enc.Participants))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := &enc.Participants[idx[a]], &enc.Participants[idx[b]]
		if pa.Initiative != pb.Initiative {
			return pa.Initiative > pb.Initiative
		}
		return pa.DexBonus() > pb.DexBonus()
	})

	order := make([]string, len(idx))
	for i, pi := range idx {
		order[i] = enc.Participants[pi].ID
	}
	enc.InitiativeOrder = order

	s.appendLogLocked(enc, entities.ActionSystem, "", nil, "Initiative rolled", nil)

	out := &RollInitiativeOutput{Order: append([]string(nil), order...)}

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	slog.Info("Initiative rolled", "encounter_id", input.EncounterID, "order", out.Order)

	s.notify(snapshot, handles)

	return out, nil
}

// expireConditionsLocked drops expired conditions for every participant,
// evaluated against the current (post-advance) round.
//
// The retain rule is appliedAt+duration >= round, so a condition applied on
// round 1 with duration 1 survives the advance to round 2 and drops on the
// advance to round 3.
func (s *store) expireConditionsLocked(enc *entities.CombatEncounter) {
	for i := range enc.Participants {
		p := &enc.Participants[i]
		kept := p.Conditions[:0]
		for _, c := range p.Conditions {
			if c.Permanent || c.AppliedAt+c.Duration >= enc.CurrentRound {
				kept = append(kept, c)
			}
		}
		p.Conditions = kept
	}
}

func resetTurnFlags(p *entities.CombatParticipant) {
	p.IsActive = false
	p.HasActed = false
	p.HasMovedThisTurn = false
	p.HasUsedBonusAction = false
	p.HasUsedReaction = false
}

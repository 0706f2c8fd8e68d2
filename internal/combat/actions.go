package combat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fablekeeper/combat-engine/internal/entities"
	"github.com/fablekeeper/combat-engine/internal/errors"
)

// DealDamage reduces a participant's HP, clamped at zero. Reaching zero HP
// does not attach any condition; marking a participant unconscious or
// defeated is the caller's decision via AddCondition.
func (s *store) DealDamage(ctx context.Context, input *DealDamageInput) (*DealDamageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.Lock()

	enc, ok := s.encounters[input.EncounterID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NotFoundf("encounter %q not found", input.EncounterID)
	}

	p := enc.Participant(input.ParticipantID)
	if p == nil {
		s.mu.Unlock()
		return nil, errors.NotFoundf("participant %q not found", input.ParticipantID)
	}

	p.CurrentHP = clamp(p.CurrentHP-input.Amount, 0, p.MaxHP)

	details := map[string]interface{}{
		"amount":       input.Amount,
		"damage_type":  input.DamageType,
		"remaining_hp": p.CurrentHP,
	}
	if input.Source != "" {
		details["source"] = input.Source
	}

	desc := fmt.Sprintf("%s took %d %s damage", p.Name, input.Amount, input.DamageType)
	if input.DamageType == "" {
		desc = fmt.Sprintf("%s took %d damage", p.Name, input.Amount)
	}
	s.appendLogLocked(enc, entities.ActionDamage, "", []string{p.ID}, desc, details)

	out := &DealDamageOutput{CurrentHP: p.CurrentHP}

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	slog.Info("Damage dealt",
		"encounter_id", input.EncounterID,
		"participant_id", input.ParticipantID,
		"amount", input.Amount,
		"remaining_hp", out.CurrentHP,
	)

	s.notify(snapshot, handles)

	return out, nil
}

// HealDamage raises a participant's HP, clamped at max
func (s *store) HealDamage(ctx context.Context, input *HealDamageInput) (*HealDamageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.Lock()

	enc, ok := s.encounters[input.EncounterID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NotFoundf("encounter %q not found", input.EncounterID)
	}

	p := enc.Participant(input.ParticipantID)
	if p == nil {
		s.mu.Unlock()
		return nil, errors.NotFoundf("participant %q not found", input.ParticipantID)
	}

	p.CurrentHP = clamp(p.CurrentHP+input.Amount, 0, p.MaxHP)

	details := map[string]interface{}{
		"amount":       input.Amount,
		"remaining_hp": p.CurrentHP,
	}
	if input.Source != "" {
		details["source"] = input.Source
	}

	s.appendLogLocked(enc, entities.ActionHeal, "", []string{p.ID},
		fmt.Sprintf("%s healed %d HP", p.Name, input.Amount), details)

	out := &HealDamageOutput{CurrentHP: p.CurrentHP}

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	slog.Info("Healing applied",
		"encounter_id", input.EncounterID,
		"participant_id", input.ParticipantID,
		"amount", input.Amount,
		"remaining_hp", out.CurrentHP,
	)

	s.notify(snapshot, handles)

	return out, nil
}

// AddCondition attaches a condition to a participant, stamping AppliedAt
// with the encounter's current round
func (s *store) AddCondition(ctx context.Context, input *AddConditionInput) (*AddConditionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.Lock()

	enc, ok := s.encounters[input.EncounterID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NotFoundf("encounter %q not found", input.EncounterID)
	}

	p := enc.Participant(input.ParticipantID)
	if p == nil {
		s.mu.Unlock()
		return nil, errors.NotFoundf("participant %q not found", input.ParticipantID)
	}

	cond := input.Condition
	if cond.ID == "" {
		cond.ID = s.idGen.Generate()
	}
	cond.AppliedAt = enc.CurrentRound

	p.Conditions = append(p.Conditions, cond)

	s.appendLogLocked(enc, entities.ActionCondition, "", []string{p.ID},
		fmt.Sprintf("%s gained condition: %s", p.Name, cond.Name),
		map[string]interface{}{
			"condition_id": cond.ID,
			"duration":     cond.Duration,
			"permanent":    cond.Permanent,
		})

	out := &AddConditionOutput{ConditionID: cond.ID}

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot, handles)

	return out, nil
}

// RemoveCondition detaches a condition explicitly; NotFound when the
// condition is not present on that participant
func (s *store) RemoveCondition(ctx context.Context, input *RemoveConditionInput) (*RemoveConditionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.Lock()

	enc, ok := s.encounters[input.EncounterID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NotFoundf("encounter %q not found", input.EncounterID)
	}

	p := enc.Participant(input.ParticipantID)
	if p == nil {
		s.mu.Unlock()
		return nil, errors.NotFoundf("participant %q not found", input.ParticipantID)
	}

	idx := -1
	for i := range p.Conditions {
		if p.Conditions[i].ID == input.ConditionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil, errors.NotFoundf("condition %q not found on participant %q", input.ConditionID, input.ParticipantID)
	}

	name := p.Conditions[idx].Name
	p.Conditions = append(p.Conditions[:idx], p.Conditions[idx+1:]...)

	s.appendLogLocked(enc, entities.ActionCondition, "", []string{p.ID},
		fmt.Sprintf("%s lost condition: %s", p.Name, name),
		map[string]interface{}{"condition_id": input.ConditionID})

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot, handles)

	return &RemoveConditionOutput{}, nil
}

// Package combat implements the combat encounter engine: an observable
// in-memory store of encounters plus the turn, condition, and damage
// algorithms layered on it.
package combat

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/fablekeeper/combat-engine/internal/dice"
	"github.com/fablekeeper/combat-engine/internal/entities"
	"github.com/fablekeeper/combat-engine/internal/errors"
	"github.com/fablekeeper/combat-engine/internal/pkg/clock"
	"github.com/fablekeeper/combat-engine/internal/pkg/idgen"
)

// Service defines the interface for combat engine operations.
//
// Unknown encounter, participant, or condition IDs fail with NotFound,
// raised before any state mutation. Illegal-state calls (advancing a turn
// outside active combat, starting combat twice, ending combat that never
// started) are silent no-ops: no mutation, no log entry, no notification.
type Service interface {
	// CreateEncounter allocates a new encounter in preparing status
	CreateEncounter(ctx context.Context, input *CreateEncounterInput) (*CreateEncounterOutput, error)

	// SetActiveEncounter marks an encounter as the UI-focused one
	SetActiveEncounter(ctx context.Context, input *SetActiveEncounterInput) (*SetActiveEncounterOutput, error)

	// DeleteEncounter removes an encounter, clearing the active ID if needed
	DeleteEncounter(ctx context.Context, input *DeleteEncounterInput) (*DeleteEncounterOutput, error)

	// GetEncounter returns a snapshot of one encounter
	GetEncounter(ctx context.Context, input *GetEncounterInput) (*GetEncounterOutput, error)

	// ListEncounters returns snapshots of every encounter, ordered by ID
	ListEncounters(ctx context.Context, input *ListEncountersInput) (*ListEncountersOutput, error)

	// GetState returns a snapshot of the full combat state
	GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error)

	// AddParticipant appends a participant to an encounter
	AddParticipant(ctx context.Context, input *AddParticipantInput) (*AddParticipantOutput, error)

	// RemoveParticipant removes a participant from the encounter and the
	// initiative order; it never auto-advances the turn
	RemoveParticipant(ctx context.Context, input *RemoveParticipantInput) (*RemoveParticipantOutput, error)

	// UpdateParticipant merges fields into a participant
	UpdateParticipant(ctx context.Context, input *UpdateParticipantInput) (*UpdateParticipantOutput, error)

	// StartCombat transitions preparing combat to active
	StartCombat(ctx context.Context, input *StartCombatInput) (*StartCombatOutput, error)

	// EndCombat completes active or paused combat
	EndCombat(ctx context.Context, input *EndCombatInput) (*EndCombatOutput, error)

	// PauseCombat suspends active combat
	PauseCombat(ctx context.Context, input *PauseCombatInput) (*PauseCombatOutput, error)

	// ResumeCombat reactivates paused combat
	ResumeCombat(ctx context.Context, input *ResumeCombatInput) (*ResumeCombatOutput, error)

	// NextTurn advances to the next participant, rolling over rounds and
	// expiring timed conditions
	NextTurn(ctx context.Context, input *NextTurnInput) (*NextTurnOutput, error)

	// RollInitiative rerolls initiative and re-derives the turn order
	RollInitiative(ctx context.Context, input *RollInitiativeInput) (*RollInitiativeOutput, error)

	// DealDamage reduces a participant's HP, clamped at zero
	DealDamage(ctx context.Context, input *DealDamageInput) (*DealDamageOutput, error)

	// HealDamage raises a participant's HP, clamped at max
	HealDamage(ctx context.Context, input *HealDamageInput) (*HealDamageOutput, error)

	// AddCondition attaches a condition stamped with the current round
	AddCondition(ctx context.Context, input *AddConditionInput) (*AddConditionOutput, error)

	// RemoveCondition detaches a condition explicitly
	RemoveCondition(ctx context.Context, input *RemoveConditionInput) (*RemoveConditionOutput, error)

	// UpdateSettings merges fields into the global settings record
	UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*UpdateSettingsOutput, error)

	// Subscribe registers a listener that receives the full combat state
	// synchronously after every successful mutation. The returned func
	// unregisters the listener and is safe to call more than once.
	Subscribe(listener Listener) (unsubscribe func())
}

// Config holds the dependencies for the combat store
type Config struct {
	IDGenerator idgen.Generator
	Clock       clock.Clock
	Roller      dice.Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

// store owns all combat state. It is the single writer; everything handed
// out (snapshots, outputs) is deep-copied so later mutations never show
// through captured references.
type store struct {
	idGen  idgen.Generator
	clock  clock.Clock
	roller dice.Roller

	mu                sync.RWMutex
	encounters        map[string]*entities.CombatEncounter
	settings          entities.CombatSettings
	activeEncounterID string
	listeners         []*listenerHandle
	nextListenerID    int
}

// NewStore creates a new combat store with the provided dependencies
func NewStore(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &store{
		idGen:      cfg.IDGenerator,
		clock:      cfg.Clock,
		roller:     cfg.Roller,
		encounters: make(map[string]*entities.CombatEncounter),
		settings:   entities.DefaultSettings(),
	}, nil
}

// CreateEncounter allocates a new encounter in preparing status
func (s *store) CreateEncounter(ctx context.Context, input *CreateEncounterInput) (*CreateEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.Lock()

	enc := &entities.CombatEncounter{
		ID:              s.idGen.Generate(),
		Name:            input.Name,
		Description:     input.Description,
		Participants:    []entities.CombatParticipant{},
		CurrentRound:    0,
		CurrentTurn:     -1,
		InitiativeOrder: []string{},
		Status:          entities.StatusPreparing,
		Log:             []entities.CombatLogEntry{},
	}
	s.encounters[enc.ID] = enc

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	slog.Info("Encounter created", "encounter_id", enc.ID, "name", input.Name)

	s.notify(snapshot, handles)

	return &CreateEncounterOutput{EncounterID: enc.ID}, nil
}

// SetActiveEncounter marks an encounter as the UI-focused one
func (s *store) SetActiveEncounter(ctx context.Context, input *SetActiveEncounterInput) (*SetActiveEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.Lock()

	if _, ok := s.encounters[input.EncounterID]; !ok {
		s.mu.Unlock()
		return nil, errors.NotFoundf("encounter %q not found", input.EncounterID)
	}

	s.activeEncounterID = input.EncounterID

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot, handles)

	return &SetActiveEncounterOutput{}, nil
}

// DeleteEncounter removes an encounter. Deleting an unknown ID is a no-op;
// deleting the active encounter clears the active ID.
func (s *store) DeleteEncounter(ctx context.Context, input *DeleteEncounterInput) (*DeleteEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.Lock()

	if _, ok := s.encounters[input.EncounterID]; !ok {
		s.mu.Unlock()
		return &DeleteEncounterOutput{}, nil
	}

	delete(s.encounters, input.EncounterID)
	if s.activeEncounterID == input.EncounterID {
		s.activeEncounterID = ""
	}

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	slog.Info("Encounter deleted", "encounter_id", input.EncounterID)

	s.notify(snapshot, handles)

	return &DeleteEncounterOutput{}, nil
}

// GetEncounter returns a snapshot of one encounter
func (s *store) GetEncounter(ctx context.Context, input *GetEncounterInput) (*GetEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	enc, ok := s.encounters[input.EncounterID]
	if !ok {
		return nil, errors.NotFoundf("encounter %q not found", input.EncounterID)
	}

	return &GetEncounterOutput{Encounter: enc.DeepCopy()}, nil
}

// ListEncounters returns snapshots of every encounter, ordered by ID
func (s *store) ListEncounters(ctx context.Context, input *ListEncountersInput) (*ListEncountersOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &ListEncountersOutput{
		Encounters: make([]*entities.CombatEncounter, 0, len(s.encounters)),
	}
	for _, enc := range s.encounters {
		out.Encounters = append(out.Encounters, enc.DeepCopy())
	}
	sort.Slice(out.Encounters, func(i, j int) bool {
		return out.Encounters[i].ID < out.Encounters[j].ID
	})

	return out, nil
}

// GetState returns a snapshot of the full combat state
func (s *store) GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &GetStateOutput{State: s.stateLocked().DeepCopy()}, nil
}

// AddParticipant appends a participant to an encounter. The participant is
// not inserted into the initiative order; that happens at StartCombat or
// RollInitiative.
func (s *store) AddParticipant(ctx context.Context, input *AddParticipantInput) (*AddParticipantOutput, error) {
	if input == nil || input.Participant == nil {
		return nil, errors.InvalidArgument("input and participant are required")
	}

	s.mu.Lock()

	enc, ok := s.encounters[input.EncounterID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NotFoundf("encounter %q not found", input.EncounterID)
	}

	p := input.Participant.DeepCopy()
	if p.ID == "" {
		p.ID = s.idGen.Generate()
	}
	p.CurrentHP = clamp(p.CurrentHP, 0, p.MaxHP)
	p.IsActive = false
	p.HasActed = false
	p.HasMovedThisTurn = false
	p.HasUsedBonusAction = false
	p.HasUsedReaction = false
	if p.Conditions == nil {
		p.Conditions = []entities.CombatCondition{}
	}

	enc.Participants = append(enc.Participants, p)

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	slog.Info("Participant added",
		"encounter_id", input.EncounterID,
		"participant_id", p.ID,
		"name", p.Name,
	)

	s.notify(snapshot, handles)

	return &AddParticipantOutput{ParticipantID: p.ID}, nil
}

// RemoveParticipant removes a participant from the participant list and the
// initiative order. If the removed participant was mid-turn the caller is
// responsible for calling NextTurn; the store never auto-advances.
func (s *store) RemoveParticipant(ctx context.Context, input *RemoveParticipantInput) (*RemoveParticipantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.Lock()

	enc, ok := s.encounters[input.EncounterID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NotFoundf("encounter %q not found", input.EncounterID)
	}

	idx := -1
	for i := range enc.Participants {
		if enc.Participants[i].ID == input.ParticipantID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil, errors.NotFoundf("participant %q not found", input.ParticipantID)
	}

	enc.Participants = append(enc.Participants[:idx], enc.Participants[idx+1:]...)

	order := enc.InitiativeOrder[:0]
	for _, id := range enc.InitiativeOrder {
		if id != input.ParticipantID {
			order = append(order, id)
		}
	}
	enc.InitiativeOrder = order

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot, handles)

	return &RemoveParticipantOutput{}, nil
}

// UpdateParticipant merges fields into a participant. It is the low-level
// primitive the other participant mutations are built on.
func (s *store) UpdateParticipant(ctx context.Context, input *UpdateParticipantInput) (*UpdateParticipantOutput, error) {
	if input == nil || input.Update == nil {
		return nil, errors.InvalidArgument("input and update are required")
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

	applyParticipantUpdate(p, input.Update)
	p.CurrentHP = clamp(p.CurrentHP, 0, p.MaxHP)

	updated := p.DeepCopy()

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot, handles)

	return &UpdateParticipantOutput{Participant: updated}, nil
}

// UpdateSettings merges fields into the global settings record
func (s *store) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*UpdateSettingsOutput, error) {
	if input == nil || input.Update == nil {
		return nil, errors.InvalidArgument("input and update are required")
	}

	s.mu.Lock()

	applySettingsUpdate(&s.settings, input.Update)
	updated := s.settings

	snapshot, handles := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot, handles)

	return &UpdateSettingsOutput{Settings: updated}, nil
}

func applyParticipantUpdate(p *entities.CombatParticipant, u *ParticipantUpdate) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Stats != nil {
		stats := make(map[string]int, len(u.Stats))
		for k, v := range u.Stats {
			stats[k] = v
		}
		p.Stats = stats
	}
	if u.Initiative != nil {
		p.Initiative = *u.Initiative
	}
	if u.CurrentHP != nil {
		p.CurrentHP = *u.CurrentHP
	}
	if u.MaxHP != nil {
		p.MaxHP = *u.MaxHP
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
	if u.HasActed != nil {
		p.HasActed = *u.HasActed
	}
	if u.HasMovedThisTurn != nil {
		p.HasMovedThisTurn = *u.HasMovedThisTurn
	}
	if u.HasUsedBonusAction != nil {
		p.HasUsedBonusAction = *u.HasUsedBonusAction
	}
	if u.HasUsedReaction != nil {
		p.HasUsedReaction = *u.HasUsedReaction
	}
}

func applySettingsUpdate(s *entities.CombatSettings, u *SettingsUpdate) {
	if u.InitiativeMode != nil {
		s.InitiativeMode = *u.InitiativeMode
	}
	if u.AutoEndTurn != nil {
		s.AutoEndTurn = *u.AutoEndTurn
	}
	if u.ShowDiceRolls != nil {
		s.ShowDiceRolls = *u.ShowDiceRolls
	}
	if u.ConfirmActions != nil {
		s.ConfirmActions = *u.ConfirmActions
	}
	if u.TrackResources != nil {
		s.TrackResources = *u.TrackResources
	}
	if u.TrackConditions != nil {
		s.TrackConditions = *u.TrackConditions
	}
	if u.UseGrid != nil {
		s.UseGrid = *u.UseGrid
	}
	if u.RealTimeTracking != nil {
		s.RealTimeTracking = *u.RealTimeTracking
	}
	if u.AllowPlayerRolls != nil {
		s.AllowPlayerRolls = *u.AllowPlayerRolls
	}
	if u.NarratorControlsNPCs != nil {
		s.NarratorControlsNPCs = *u.NarratorControlsNPCs
	}
}

// stateLocked assembles the live state without copying; callers must hold
// the lock and must DeepCopy before handing the result out
func (s *store) stateLocked() *entities.CombatState {
	return &entities.CombatState{
		Encounters:        s.encounters,
		Settings:          s.settings,
		ActiveEncounterID: s.activeEncounterID,
	}
}

// appendLogLocked appends one log entry describing a high-level effect
func (s *store) appendLogLocked(enc *entities.CombatEncounter, action entities.ActionType, actorID string, targetIDs []string, description string, details map[string]interface{}) {
	enc.Log = append(enc.Log, entities.CombatLogEntry{
		ID:          s.idGen.Generate(),
		Round:       enc.CurrentRound,
		Turn:        enc.CurrentTurn,
		Timestamp:   s.clock.Now(),
		ActionType:  action,
		ActorID:     actorID,
		TargetIDs:   targetIDs,
		Description: description,
		Details:     details,
		Visibility:  entities.VisibilityAll,
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

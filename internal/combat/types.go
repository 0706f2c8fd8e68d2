package combat

import (
	"github.com/fablekeeper/combat-engine/internal/entities"
)

// CreateEncounterInput defines the request for creating an encounter
type CreateEncounterInput struct {
	Name        string
	Description string
}

// CreateEncounterOutput defines the response for creating an encounter
type CreateEncounterOutput struct {
	EncounterID string
}

// SetActiveEncounterInput defines the request for focusing an encounter
type SetActiveEncounterInput struct {
	EncounterID string
}

// SetActiveEncounterOutput defines the response for focusing an encounter
type SetActiveEncounterOutput struct{}

// DeleteEncounterInput defines the request for deleting an encounter
type DeleteEncounterInput struct {
	EncounterID string
}

// DeleteEncounterOutput defines the response for deleting an encounter
type DeleteEncounterOutput struct{}

// GetEncounterInput defines the request for reading one encounter
type GetEncounterInput struct {
	EncounterID string
}

// GetEncounterOutput carries a snapshot of one encounter
type GetEncounterOutput struct {
	Encounter *entities.CombatEncounter
}

// ListEncountersInput defines the request for listing encounters
type ListEncountersInput struct{}

// ListEncountersOutput carries snapshots of every encounter, ordered by ID
type ListEncountersOutput struct {
	Encounters []*entities.CombatEncounter
}

// GetStateInput defines the request for reading the full combat state
type GetStateInput struct{}

// GetStateOutput carries a snapshot of the full combat state
type GetStateOutput struct {
	State *entities.CombatState
}

// AddParticipantInput defines the request for adding a participant.
// The participant's per-turn flags are always initialized to false and it
// is not inserted into the initiative order until combat starts or
// initiative is rolled.
type AddParticipantInput struct {
	EncounterID string
	Participant *entities.CombatParticipant
}

// AddParticipantOutput defines the response for adding a participant
type AddParticipantOutput struct {
	ParticipantID string
}

// RemoveParticipantInput defines the request for removing a participant
type RemoveParticipantInput struct {
	EncounterID   string
	ParticipantID string
}

// RemoveParticipantOutput defines the response for removing a participant
type RemoveParticipantOutput struct{}

// ParticipantUpdate holds the fields of a participant that may be merged.
// Nil fields are left unchanged.
type ParticipantUpdate struct {
	Name               *string
	Stats              map[string]int
	Initiative         *int
	CurrentHP          *int
	MaxHP              *int
	IsActive           *bool
	HasActed           *bool
	HasMovedThisTurn   *bool
	HasUsedBonusAction *bool
	HasUsedReaction    *bool
}

// UpdateParticipantInput defines the request for merging participant fields
type UpdateParticipantInput struct {
	EncounterID   string
	ParticipantID string
	Update        *ParticipantUpdate
}

// UpdateParticipantOutput carries the participant after the merge
type UpdateParticipantOutput struct {
	Participant entities.CombatParticipant
}

// StartCombatInput defines the request for starting combat
type StartCombatInput struct {
	EncounterID string
}

// StartCombatOutput carries a snapshot of the encounter after starting
type StartCombatOutput struct {
	Encounter *entities.CombatEncounter
}

// EndCombatInput defines the request for ending combat
type EndCombatInput struct {
	EncounterID string
}

// EndCombatOutput carries a snapshot of the encounter after ending
type EndCombatOutput struct {
	Encounter *entities.CombatEncounter
}

// PauseCombatInput defines the request for pausing combat
type PauseCombatInput struct {
	EncounterID string
}

// PauseCombatOutput carries a snapshot of the encounter after pausing
type PauseCombatOutput struct {
	Encounter *entities.CombatEncounter
}

// ResumeCombatInput defines the request for resuming paused combat
type ResumeCombatInput struct {
	EncounterID string
}

// ResumeCombatOutput carries a snapshot of the encounter after resuming
type ResumeCombatOutput struct {
	Encounter *entities.CombatEncounter
}

// NextTurnInput defines the request for advancing the turn
type NextTurnInput struct {
	EncounterID string
}

// NextTurnOutput defines the response for advancing the turn
type NextTurnOutput struct {
	CurrentTurn         int
	Round               int
	ActiveParticipantID string
}

// RollInitiativeInput defines the request for rolling initiative
type RollInitiativeInput struct {
	EncounterID string
}

// RollInitiativeOutput carries the re-derived initiative order
type RollInitiativeOutput struct {
	Order []string
}

// DealDamageInput defines the request for applying damage.
// Source is an opaque ID understood by the inventory subsystem; the engine
// does not validate or resolve it.
type DealDamageInput struct {
	EncounterID   string
	ParticipantID string
	Amount        int
	DamageType    string
	Source        string
}

// DealDamageOutput defines the response for applying damage
type DealDamageOutput struct {
	CurrentHP int
}

// HealDamageInput defines the request for healing
type HealDamageInput struct {
	EncounterID   string
	ParticipantID string
	Amount        int
	Source        string
}

// HealDamageOutput defines the response for healing
type HealDamageOutput struct {
	CurrentHP int
}

// AddConditionInput defines the request for attaching a condition.
// AppliedAt is stamped by the store from the encounter's current round.
type AddConditionInput struct {
	EncounterID   string
	ParticipantID string
	Condition     entities.CombatCondition
}

// AddConditionOutput defines the response for attaching a condition
type AddConditionOutput struct {
	ConditionID string
}

// RemoveConditionInput defines the request for removing a condition
type RemoveConditionInput struct {
	EncounterID   string
	ParticipantID string
	ConditionID   string
}

// RemoveConditionOutput defines the response for removing a condition
type RemoveConditionOutput struct{}

// SettingsUpdate holds the settings fields that may be merged.
// Nil fields are left unchanged.
type SettingsUpdate struct {
	InitiativeMode       *entities.InitiativeMode
	AutoEndTurn          *bool
	ShowDiceRolls        *bool
	ConfirmActions       *bool
	TrackResources       *bool
	TrackConditions      *bool
	UseGrid              *bool
	RealTimeTracking     *bool
	AllowPlayerRolls     *bool
	NarratorControlsNPCs *bool
}

// UpdateSettingsInput defines the request for merging settings
type UpdateSettingsInput struct {
	Update *SettingsUpdate
}

// UpdateSettingsOutput carries the settings after the merge
type UpdateSettingsOutput struct {
	Settings entities.CombatSettings
}

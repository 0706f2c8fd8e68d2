// Package entities provides core data structures for the combat engine.
package entities

import (
	"time"
)

// EncounterStatus represents the lifecycle state of an encounter
type EncounterStatus string

// Encounter statuses
const (
	StatusPreparing EncounterStatus = "preparing"
	StatusActive    EncounterStatus = "active"
	StatusPaused    EncounterStatus = "paused"
	StatusCompleted EncounterStatus = "completed"
)

// ActionType tags a combat log entry with the kind of effect it records
type ActionType string

// Log entry action types
const (
	ActionSystem    ActionType = "system"
	ActionDamage    ActionType = "damage"
	ActionHeal      ActionType = "heal"
	ActionCondition ActionType = "condition"
)

// VisibilityAll marks a log entry as visible to every reader
const VisibilityAll = "all"

// StatDexterity is the attribute used as the initiative tiebreak
const StatDexterity = "dexterity"

// CombatEncounter represents one combat scenario with its own participants,
// round/turn counters, and append-only log.
//
// InitiativeOrder holds participant IDs; its insertion order is the turn
// order. CurrentRound is 0 before combat starts, CurrentTurn is -1 before
// combat starts and otherwise an index into InitiativeOrder.
type CombatEncounter struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description,omitempty"`
	Participants    []CombatParticipant `json:"participants"`
	CurrentRound    int                `json:"current_round"`
	CurrentTurn     int                `json:"current_turn"`
	InitiativeOrder []string           `json:"initiative_order"`
	Status          EncounterStatus    `json:"status"`
	Log             []CombatLogEntry   `json:"log"`
	StartTime       *time.Time         `json:"start_time,omitempty"`
	EndTime         *time.Time         `json:"end_time,omitempty"`
}

// CombatParticipant represents one actor in an encounter
type CombatParticipant struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Stats      map[string]int    `json:"stats,omitempty"`
	Initiative int               `json:"initiative"`
	CurrentHP  int               `json:"current_hp"`
	MaxHP      int               `json:"max_hp"`
	Conditions []CombatCondition `json:"conditions,omitempty"`

	// Per-turn flags; at most one participant per encounter is active
	IsActive           bool `json:"is_active"`
	HasActed           bool `json:"has_acted"`
	HasMovedThisTurn   bool `json:"has_moved_this_turn"`
	HasUsedBonusAction bool `json:"has_used_bonus_action"`
	HasUsedReaction    bool `json:"has_used_reaction"`
}

// CombatCondition is a timed or permanent status effect on a participant
type CombatCondition struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Duration  int    `json:"duration"` // in rounds; ignored when Permanent
	Permanent bool   `json:"permanent"`
	AppliedAt int    `json:"applied_at"` // round number the condition was applied on
}

// CombatLogEntry is an immutable, append-only record of one notable effect.
// Entries are never rewritten or reordered once appended.
type CombatLogEntry struct {
	ID          string                 `json:"id"`
	Round       int                    `json:"round"`
	Turn        int                    `json:"turn"`
	Timestamp   time.Time              `json:"timestamp"`
	ActionType  ActionType             `json:"action_type"`
	ActorID     string                 `json:"actor_id,omitempty"`
	TargetIDs   []string               `json:"target_ids,omitempty"`
	Description string                 `json:"description"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Visibility  string                 `json:"visibility"`
}

// Participant returns the participant with the given ID, or nil
func (e *CombatEncounter) Participant(id string) *CombatParticipant {
	for i := range e.Participants {
		if e.Participants[i].ID == id {
			return &e.Participants[i]
		}
	}
	return nil
}

// DexBonus returns the D&D-style ability modifier derived from the
// participant's dexterity stat, used as the initiative tiebreak
func (p *CombatParticipant) DexBonus() int {
	dex, ok := p.Stats[StatDexterity]
	if !ok {
		return 0
	}
	// floor((dex-10)/2), correct for negative values too
	mod := dex - 10
	if mod < 0 {
		return -((-mod + 1) / 2)
	}
	return mod / 2
}

// DeepCopy returns a copy of the encounter sharing no mutable state with
// the original. Log entry Details maps are shared because entries are
// immutable once appended.
func (e *CombatEncounter) DeepCopy() *CombatEncounter {
	out := *e

	out.Participants = make([]CombatParticipant, len(e.Participants))
	for i := range e.Participants {
		out.Participants[i] = e.Participants[i].DeepCopy()
	}

	out.InitiativeOrder = append([]string(nil), e.InitiativeOrder...)
	out.Log = append([]CombatLogEntry(nil), e.Log...)

	if e.StartTime != nil {
		t := *e.StartTime
		out.StartTime = &t
	}
	if e.EndTime != nil {
		t := *e.EndTime
		out.EndTime = &t
	}

	return &out
}

// DeepCopy returns a copy of the participant sharing no mutable state
func (p *CombatParticipant) DeepCopy() CombatParticipant {
	out := *p

	if p.Stats != nil {
		out.Stats = make(map[string]int, len(p.Stats))
		for k, v := range p.Stats {
			out.Stats[k] = v
		}
	}

	out.Conditions = append([]CombatCondition(nil), p.Conditions...)

	return out
}

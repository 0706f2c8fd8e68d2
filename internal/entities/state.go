package entities

// InitiativeMode selects how initiative is rolled
type InitiativeMode string

// Initiative modes
const (
	InitiativeIndividual InitiativeMode = "individual"
	InitiativeGroup      InitiativeMode = "group"
)

// CombatSettings holds the single global combat configuration record.
// Pure configuration; always present with defaults.
type CombatSettings struct {
	InitiativeMode       InitiativeMode `json:"initiative_mode"`
	AutoEndTurn          bool           `json:"auto_end_turn"`
	ShowDiceRolls        bool           `json:"show_dice_rolls"`
	ConfirmActions       bool           `json:"confirm_actions"`
	TrackResources       bool           `json:"track_resources"`
	TrackConditions      bool           `json:"track_conditions"`
	UseGrid              bool           `json:"use_grid"`
	RealTimeTracking     bool           `json:"real_time_tracking"`
	AllowPlayerRolls     bool           `json:"allow_player_rolls"`
	NarratorControlsNPCs bool           `json:"narrator_controls_npcs"`
}

// DefaultSettings returns the settings every store starts with
func DefaultSettings() CombatSettings {
	return CombatSettings{
		InitiativeMode:       InitiativeIndividual,
		ShowDiceRolls:        true,
		ConfirmActions:       true,
		TrackResources:       true,
		TrackConditions:      true,
		AllowPlayerRolls:     true,
		NarratorControlsNPCs: true,
	}
}

// CombatState is the full observable state of the engine: every encounter,
// the global settings, and the UI-focused encounter ID. Snapshots handed to
// subscribers are deep copies and must never be mutated by the engine.
type CombatState struct {
	Encounters        map[string]*CombatEncounter `json:"encounters"`
	Settings          CombatSettings              `json:"settings"`
	ActiveEncounterID string                      `json:"active_encounter_id,omitempty"`
}

// DeepCopy returns a copy of the state sharing no mutable data
func (s *CombatState) DeepCopy() *CombatState {
	out := &CombatState{
		Encounters:        make(map[string]*CombatEncounter, len(s.Encounters)),
		Settings:          s.Settings,
		ActiveEncounterID: s.ActiveEncounterID,
	}

	for id, enc := range s.Encounters {
		out.Encounters[id] = enc.DeepCopy()
	}

	return out
}

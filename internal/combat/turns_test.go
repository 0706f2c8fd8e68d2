package combat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/fablekeeper/combat-engine/internal/combat"
	"github.com/fablekeeper/combat-engine/internal/entities"
	"github.com/fablekeeper/combat-engine/internal/errors"
)

type TurnsTestSuite struct {
	suite.Suite
	store combat.Service
	ctx   context.Context
}

func TestTurnsSuite(t *testing.T) {
	suite.Run(t, new(TurnsTestSuite))
}

func (s *TurnsTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store, _ = newTestStore(s.T())
}

// setupEncounter creates an encounter with the given participants; each
// entry is name, initiative, dexterity.
func (s *TurnsTestSuite) setupEncounter(participants ...[3]interface{}) (string, []string) {
	out, err := s.store.CreateEncounter(s.ctx, &combat.CreateEncounterInput{Name: "Skirmish"})
	s.Require().NoError(err)

	ids := make([]string, 0, len(participants))
	for _, p := range participants {
		added, err := s.store.AddParticipant(s.ctx, &combat.AddParticipantInput{
			EncounterID: out.EncounterID,
			Participant: &entities.CombatParticipant{
				Name:       p[0].(string),
				Initiative: p[1].(int),
				Stats:      map[string]int{entities.StatDexterity: p[2].(int)},
				MaxHP:      10,
				CurrentHP:  10,
			},
		})
		s.Require().NoError(err)
		ids = append(ids, added.ParticipantID)
	}

	return out.EncounterID, ids
}

func (s *TurnsTestSuite) getEncounter(id string) *entities.CombatEncounter {
	out, err := s.store.GetEncounter(s.ctx, &combat.GetEncounterInput{EncounterID: id})
	s.Require().NoError(err)
	return out.Encounter
}

func (s *TurnsTestSuite) activeCount(enc *entities.CombatEncounter) int {
	n := 0
	for i := range enc.Participants {
		if enc.Participants[i].IsActive {
			n++
		}
	}
	return n
}

func (s *TurnsTestSuite) TestStartCombat() {
	encID, ids := s.setupEncounter(
		[3]interface{}{"Ash", 0, 10},
		[3]interface{}{"Bren", 0, 10},
	)

	out, err := s.store.StartCombat(s.ctx, &combat.StartCombatInput{EncounterID: encID})
	s.Require().NoError(err)

	enc := out.Encounter
	s.Equal(entities.StatusActive, enc.Status)
	s.Equal(1, enc.CurrentRound)
	s.Equal(0, enc.CurrentTurn)
	s.Require().NotNil(enc.StartTime)
	s.ElementsMatch(ids, enc.InitiativeOrder)
	s.Equal(1, s.activeCount(enc))

	lastEntry := enc.Log[len(enc.Log)-1]
	s.Equal(entities.ActionSystem, lastEntry.ActionType)
	s.Equal("Combat started", lastEntry.Description)
}

func (s *TurnsTestSuite) TestStartCombatFallbackSortIsStableOnTies() {
	// No dexterity tiebreak here, unlike RollInitiative: ties keep
	// insertion order
	encID, ids := s.setupEncounter(
		[3]interface{}{"Ash", 10, 8},
		[3]interface{}{"Bren", 12, 18},
		[3]interface{}{"Cora", 10, 18},
	)

	out, err := s.store.StartCombat(s.ctx, &combat.StartCombatInput{EncounterID: encID})
	s.Require().NoError(err)

	s.Equal([]string{ids[1], ids[0], ids[2]}, out.Encounter.InitiativeOrder)
}

func (s *TurnsTestSuite) TestStartCombatTwiceIsNoop() {
	encID, _ := s.setupEncounter([3]interface{}{"Ash", 0, 10})

	_, err := s.store.StartCombat(s.ctx, &combat.StartCombatInput{EncounterID: encID})
	s.Require().NoError(err)
	before := s.getEncounter(encID)

	_, err = s.store.StartCombat(s.ctx, &combat.StartCombatInput{EncounterID: encID})
	s.Require().NoError(err)
	after := s.getEncounter(encID)

	s.Equal(before, after)
}

func (s *TurnsTestSuite) TestStartCombatNoParticipantsIsNoop() {
	out, err := s.store.CreateEncounter(s.ctx, &combat.CreateEncounterInput{Name: "Empty"})
	s.Require().NoError(err)

	started, err := s.store.StartCombat(s.ctx, &combat.StartCombatInput{EncounterID: out.EncounterID})
	s.Require().NoError(err)

	s.Equal(entities.StatusPreparing, started.Encounter.Status)
	s.Empty(started.Encounter.Log)
}

func (s *TurnsTestSuite) TestStartCombatNotFound() {
	_, err := s.store.StartCombat(s.ctx, &combat.StartCombatInput{EncounterID: "missing"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *TurnsTestSuite) TestNextTurnAdvancesAndWrapsRounds() {
	encID, ids := s.setupEncounter(
		[3]interface{}{"Ash", 3, 10},
		[3]interface{}{"Bren", 2, 10},
		[3]interface{}{"Cora", 1, 10},
	)

	_, err := s.store.StartCombat(s.ctx, &combat.StartCombatInput{EncounterID: encID})
	s.Require().NoError(err)

	// One full pass through the order returns to turn 0, round + 1
	var out *combat.NextTurnOutput
	for i := 0; i < 3; i++ {
		out, err = s.store.NextTurn(s.ctx, &combat.NextTurnInput{EncounterID: encID})
		s.Require().NoError(err)
	}

	s.Equal(0, out.CurrentTurn)
	s.Equal(2, out.Round)
	s.Equal(ids[0], out.ActiveParticipantID)

	enc := s.getEncounter(encID)
	s.Equal(1, s.activeCount(enc))

	lastEntry := enc.Log[len(enc.Log)-1]
	s.Equal("Round 2 started", lastEntry.Description)
}

func (s *TurnsTestSuite) TestNextTurnFlagHandling() {
	encID, ids := s.setupEncounter(
		[3]interface{}{"Ash", 3, 10},
		[3]interface{}{"Bren", 2, 10},
	)

	_, err := s.store.StartCombat(s.ctx, &combat.StartCombatInput{EncounterID: encID})
	s.Require().NoError(err)

	// Let the first participant spend everything
	_, err = s.store.UpdateParticipant(s.ctx, &combat.UpdateParticipantInput{
		EncounterID:   encID,
		ParticipantID: ids[0],
		Update: &combat.ParticipantUpdate{
			HasMovedThisTurn:   boolPtr(true),
			HasUsedBonusAction: boolPtr(true),
			HasUsedReaction:    boolPtr(true),
		},
	})
	s.Require().NoError(err)

	out, err := s.store.NextTurn(s.ctx, &combat.NextTurnInput{EncounterID: encID})
	s.Require().NoError(err)
	s.Equal(ids[1], out.ActiveParticipantID)

	enc := s.getEncounter(encID)
	ash := enc.Participant(ids[0])
	s.False(ash.IsActive)
	s.True(ash.HasActed)

	bren := enc.Participant(ids[1])
	s.True(bren.IsActive)
	s.False(bren.HasActed)
	s.False(bren.HasMovedThisTurn)
	s.False(bren.HasUsedBonusAction)
	s.False(bren.HasUsedReaction)

	lastEntry := enc.Log[len(enc.Log)-1]
	s.Equal("Turn moved to Bren", lastEntry.Description)
}

func (s *TurnsTestSuite) TestNextTurnWhilePreparingIsNoop() {
	encID, _ := s.setupEncounter([3]interface{}{"Ash", 0, 10})
	before := s.getEncounter(encID)

	out, err := s.store.NextTurn(s.ctx, &combat.NextTurnInput{EncounterID: encID})
	s.Require().NoError(err)
	s.Equal(-1, out.CurrentTurn)
	s.Equal(0, out.Round)

	s.Equal(before, s.getEncounter(encID))
}

func (s *TurnsTestSuite) TestEndCombat() {
	encID, _ := s.setupEncounter(
		[3]interface{}{"Ash", 0, 10},
		[3]interface{}{"Bren", 0, 10},
	)

	_, err := s.store.StartCombat(s.ctx, &combat.StartCombatInput{EncounterID: encID})
	s.Require().NoError(err)

	out, err := s.store.EndCombat(s.ctx, &combat.EndCombatInput{EncounterID: encID})
	s.Require().NoError(err)

	enc := out.Encounter
	s.Equal(entities.StatusCompleted, enc.Status)
	s.Require().NotNil(enc.EndTime)
	s.Equal(0, s.activeCount(enc))

	lastEntry := enc.Log[len(enc.Log)-1]
	s.Equal(entities.ActionSystem, lastEntry.ActionType)
	s.Equal("Combat ended", lastEntry.Description)
}

func (s *TurnsTestSuite) TestEndCombatWhilePreparingIsNoop() {
	encID, _ := s.setupEncounter([3]interface{}{"Ash", 0, 10})
	before := s.getEncounter(encID)

	_, err := s.store.EndCombat(s.ctx, &combat.EndCombatInput{EncounterID: encID})
	s.Require().NoError(err)

	s.Equal(before, s.getEncounter(encID))
}

func (s *TurnsTestSuite) TestPauseAndResume() {
	encID, _ := s.setupEncounter(
		[3]interface{}{"Ash", 0, 10},
		[3]interface{}{"Bren", 0, 10},
	)

	// Pausing before start is a no-op
	out, err := s.store.PauseCombat(s.ctx, &combat.PauseCombatInput{EncounterID: encID})
	s.Require().NoError(err)
	s.Equal(entities.StatusPreparing, out.Encounter.Status)

	_, err = s.store.StartCombat(s.ctx, &combat.StartCombatInput{EncounterID: encID})
	s.Require().NoError(err)

	out, err = s.store.PauseCombat(s.ctx, &combat.PauseCombatInput{EncounterID: encID})
	s.Require().NoError(err)
	s.Equal(entities.StatusPaused, out.Encounter.Status)

	resumed, err := s.store.ResumeCombat(s.ctx, &combat.ResumeCombatInput{EncounterID: encID})
	s.Require().NoError(err)
	s.Equal(entities.StatusActive, resumed.Encounter.Status)

	// Paused combat can still be ended
	_, err = s.store.PauseCombat(s.ctx, &combat.PauseCombatInput{EncounterID: encID})
	s.Require().NoError(err)
	ended, err := s.store.EndCombat(s.ctx, &combat.EndCombatInput{EncounterID: encID})
	s.Require().NoError(err)
	s.Equal(entities.StatusCompleted, ended.Encounter.Status)
}

func (s *TurnsTestSuite) TestRollInitiativeProducesPermutation() {
	store, _ := newTestStore(s.T(), 15, 3, 20, 8, 11, 1)
	ctx := context.Background()

	created, err := store.CreateEncounter(ctx, &combat.CreateEncounterInput{Name: "Skirmish"})
	s.Require().NoError(err)

	ids := make([]string, 3)
	for i, name := range []string{"Ash", "Bren", "Cora"} {
		out, err := store.AddParticipant(ctx, &combat.AddParticipantInput{
			EncounterID: created.EncounterID,
			Participant: &entities.CombatParticipant{Name: name, MaxHP: 10, CurrentHP: 10},
		})
		s.Require().NoError(err)
		ids[i] = out.ParticipantID
	}

	out, err := store.RollInitiative(ctx, &combat.RollInitiativeInput{EncounterID: created.EncounterID})
	s.Require().NoError(err)
	s.ElementsMatch(ids, out.Order)
	// Rolls 15, 3, 20 with no dex bonus
	s.Equal([]string{ids[2], ids[0], ids[1]}, out.Order)

	// Rolling again never errors and yields another permutation
	out, err = store.RollInitiative(ctx, &combat.RollInitiativeInput{EncounterID: created.EncounterID})
	s.Require().NoError(err)
	s.ElementsMatch(ids, out.Order)

	enc, err := store.GetEncounter(ctx, &combat.GetEncounterInput{EncounterID: created.EncounterID})
	s.Require().NoError(err)
	lastEntry := enc.Encounter.Log[len(enc.Encounter.Log)-1]
	s.Equal("Initiative rolled", lastEntry.Description)
	// Status, round, and turn are untouched
	s.Equal(entities.StatusPreparing, enc.Encounter.Status)
	s.Equal(0, enc.Encounter.CurrentRound)
	s.Equal(-1, enc.Encounter.CurrentTurn)
}

func (s *TurnsTestSuite) TestRollInitiativeBreaksTiesByDexBonus() {
	// Identical rolls; dexterity decides
	store, _ := newTestStore(s.T(), 10, 10)
	ctx := context.Background()

	created, err := store.CreateEncounter(ctx, &combat.CreateEncounterInput{Name: "Skirmish"})
	s.Require().NoError(err)

	slow, err := store.AddParticipant(ctx, &combat.AddParticipantInput{
		EncounterID: created.EncounterID,
		Participant: &entities.CombatParticipant{
			Name:  "Slow",
			Stats: map[string]int{entities.StatDexterity: 10},
			MaxHP: 10, CurrentHP: 10,
		},
	})
	s.Require().NoError(err)

	quick, err := store.AddParticipant(ctx, &combat.AddParticipantInput{
		EncounterID: created.EncounterID,
		Participant: &entities.CombatParticipant{
			Name:  "Quick",
			Stats: map[string]int{entities.StatDexterity: 16},
			MaxHP: 10, CurrentHP: 10,
		},
	})
	s.Require().NoError(err)

	out, err := store.RollInitiative(ctx, &combat.RollInitiativeInput{EncounterID: created.EncounterID})
	s.Require().NoError(err)

	// Quick rolled 10+3=13, Slow rolled 10+0=10
	s.Equal([]string{quick.ParticipantID, slow.ParticipantID}, out.Order)
}

func (s *TurnsTestSuite) TestConditionExpiryBoundary() {
	// A condition applied at round R with duration D survives the advance
	// to round R+D and drops on the advance to round R+D+1
	encID, ids := s.setupEncounter(
		[3]interface{}{"Ash", 3, 10},
		[3]interface{}{"Bren", 2, 10},
	)

	_, err := s.store.StartCombat(s.ctx, &combat.StartCombatInput{EncounterID: encID})
	s.Require().NoError(err)

	// Applied at round 1, duration 1
	_, err = s.store.AddCondition(s.ctx, &combat.AddConditionInput{
		EncounterID:   encID,
		ParticipantID: ids[1],
		Condition:     entities.CombatCondition{Name: "Poisoned", Duration: 1},
	})
	s.Require().NoError(err)

	advanceRound := func() {
		for i := 0; i < 2; i++ {
			_, err := s.store.NextTurn(s.ctx, &combat.NextTurnInput{EncounterID: encID})
			s.Require().NoError(err)
		}
	}

	// Round 2 = R+D: still present
	advanceRound()
	enc := s.getEncounter(encID)
	s.Equal(2, enc.CurrentRound)
	s.Len(enc.Participant(ids[1]).Conditions, 1)

	// Round 3 = R+D+1: gone
	advanceRound()
	enc = s.getEncounter(encID)
	s.Equal(3, enc.CurrentRound)
	s.Empty(enc.Participant(ids[1]).Conditions)
}

func (s *TurnsTestSuite) TestPermanentConditionNeverExpires() {
	encID, ids := s.setupEncounter(
		[3]interface{}{"Ash", 3, 10},
		[3]interface{}{"Bren", 2, 10},
	)

	_, err := s.store.StartCombat(s.ctx, &combat.StartCombatInput{EncounterID: encID})
	s.Require().NoError(err)

	_, err = s.store.AddCondition(s.ctx, &combat.AddConditionInput{
		EncounterID:   encID,
		ParticipantID: ids[0],
		Condition:     entities.CombatCondition{Name: "Cursed", Permanent: true},
	})
	s.Require().NoError(err)

	for i := 0; i < 10; i++ {
		_, err := s.store.NextTurn(s.ctx, &combat.NextTurnInput{EncounterID: encID})
		s.Require().NoError(err)
	}

	enc := s.getEncounter(encID)
	s.Len(enc.Participant(ids[0]).Conditions, 1)
}

func (s *TurnsTestSuite) TestExpiryRunsForAllParticipants() {
	// Expiry is evaluated for every participant on each advance, not just
	// whoever's turn it is
	encID, ids := s.setupEncounter(
		[3]interface{}{"Ash", 3, 10},
		[3]interface{}{"Bren", 2, 10},
		[3]interface{}{"Cora", 1, 10},
	)

	_, err := s.store.StartCombat(s.ctx, &combat.StartCombatInput{EncounterID: encID})
	s.Require().NoError(err)

	for _, id := range ids {
		_, err = s.store.AddCondition(s.ctx, &combat.AddConditionInput{
			EncounterID:   encID,
			ParticipantID: id,
			Condition:     entities.CombatCondition{Name: "Blessed", Duration: 1},
		})
		s.Require().NoError(err)
	}

	// Advance two full rounds: round 3, all drop together
	for i := 0; i < 6; i++ {
		_, err := s.store.NextTurn(s.ctx, &combat.NextTurnInput{EncounterID: encID})
		s.Require().NoError(err)
	}

	enc := s.getEncounter(encID)
	s.Equal(3, enc.CurrentRound)
	for _, id := range ids {
		s.Empty(enc.Participant(id).Conditions)
	}
}

func (s *TurnsTestSuite) TestExactlyOneActiveInvariant() {
	encID, _ := s.setupEncounter(
		[3]interface{}{"Ash", 3, 10},
		[3]interface{}{"Bren", 2, 10},
		[3]interface{}{"Cora", 1, 10},
	)

	_, err := s.store.StartCombat(s.ctx, &combat.StartCombatInput{EncounterID: encID})
	s.Require().NoError(err)

	for i := 0; i < 7; i++ {
		enc := s.getEncounter(encID)
		s.Equal(1, s.activeCount(enc), "exactly one active participant at step %d", i)

		_, err := s.store.NextTurn(s.ctx, &combat.NextTurnInput{EncounterID: encID})
		s.Require().NoError(err)
	}
}

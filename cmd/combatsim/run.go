package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/fablekeeper/combat-engine/internal/combat"
	"github.com/fablekeeper/combat-engine/internal/dice"
	"github.com/fablekeeper/combat-engine/internal/entities"
	"github.com/fablekeeper/combat-engine/internal/pkg/clock"
	"github.com/fablekeeper/combat-engine/internal/pkg/idgen"
	redisclient "github.com/fablekeeper/combat-engine/internal/redis"
	"github.com/fablekeeper/combat-engine/internal/repositories/encounters"
)

var simRounds int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scripted skirmish",
	Long:  `Run a scripted skirmish against an in-process combat store, printing every log entry as it is appended.`,
	RunE:  runSim,
}

func init() {
	runCmd.Flags().IntVar(&simRounds, "rounds", 3, "number of rounds to simulate")
}

// config is read from the environment; all fields are optional
type config struct {
	RedisAddr string `env:"REDIS_ADDR"`
}

func runSim(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := env.ParseAs[config]()
	if err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	store, err := combat.NewStore(&combat.Config{
		IDGenerator: idgen.NewUUID("combat"),
		Clock:       clock.New(),
		Roller:      dice.NewToolkitRoller(),
	})
	if err != nil {
		return fmt.Errorf("failed to build combat store: %w", err)
	}

	// Print every newly appended log entry
	printed := make(map[string]int)
	store.Subscribe(func(state *entities.CombatState) {
		for id, enc := range state.Encounters {
			for _, entry := range enc.Log[printed[id]:] {
				fmt.Printf("[round %d, turn %d] %-9s %s\n",
					entry.Round, entry.Turn, entry.ActionType, entry.Description)
			}
			printed[id] = len(enc.Log)
		}
	})

	// Persist snapshots when Redis is configured
	if cfg.RedisAddr != "" {
		client, err := redisclient.NewClient(cfg.RedisAddr, nil)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}

		repo, err := encounters.NewRedisRepository(&encounters.Config{
			Client: client,
			Clock:  clock.New(),
		})
		if err != nil {
			return fmt.Errorf("failed to create snapshot repository: %w", err)
		}

		store.Subscribe(encounters.NewSnapshotWriter(repo).Listener(ctx))
		slog.Info("Persisting snapshots to Redis", "addr", cfg.RedisAddr)
	}

	created, err := store.CreateEncounter(ctx, &combat.CreateEncounterInput{
		Name:        "Sandbox Skirmish",
		Description: "Scripted encounter for exercising the engine",
	})
	if err != nil {
		return err
	}
	encID := created.EncounterID

	if _, err := store.SetActiveEncounter(ctx, &combat.SetActiveEncounterInput{EncounterID: encID}); err != nil {
		return err
	}

	type fighter struct {
		name string
		dex  int
		hp   int
	}
	roster := []fighter{
		{name: "Thorn", dex: 14, hp: 24},
		{name: "Mira", dex: 16, hp: 14},
		{name: "Goblin Raider", dex: 12, hp: 7},
		{name: "Goblin Shaman", dex: 10, hp: 9},
	}

	ids := make([]string, 0, len(roster))
	for _, f := range roster {
		added, err := store.AddParticipant(ctx, &combat.AddParticipantInput{
			EncounterID: encID,
			Participant: &entities.CombatParticipant{
				Name:      f.name,
				Stats:     map[string]int{entities.StatDexterity: f.dex},
				MaxHP:     f.hp,
				CurrentHP: f.hp,
			},
		})
		if err != nil {
			return err
		}
		ids = append(ids, added.ParticipantID)
	}

	if _, err := store.RollInitiative(ctx, &combat.RollInitiativeInput{EncounterID: encID}); err != nil {
		return err
	}
	if _, err := store.StartCombat(ctx, &combat.StartCombatInput{EncounterID: encID}); err != nil {
		return err
	}

	// A scripted exchange each turn: the goblins chip at Thorn, the party
	// answers, Mira hexes the shaman and patches up Thorn
	if _, err := store.AddCondition(ctx, &combat.AddConditionInput{
		EncounterID:   encID,
		ParticipantID: ids[3],
		Condition:     entities.CombatCondition{Name: "Hexed", Duration: 2},
	}); err != nil {
		return err
	}

	turns := simRounds * len(ids)
	for i := 0; i < turns; i++ {
		if _, err := store.DealDamage(ctx, &combat.DealDamageInput{
			EncounterID:   encID,
			ParticipantID: ids[(i+2)%len(ids)],
			Amount:        1 + i%4,
			DamageType:    "slashing",
		}); err != nil {
			return err
		}

		if i%len(ids) == 0 {
			if _, err := store.HealDamage(ctx, &combat.HealDamageInput{
				EncounterID:   encID,
				ParticipantID: ids[0],
				Amount:        2,
				Source:        "item_healing_word",
			}); err != nil {
				return err
			}
		}

		if _, err := store.NextTurn(ctx, &combat.NextTurnInput{EncounterID: encID}); err != nil {
			return err
		}
	}

	if _, err := store.EndCombat(ctx, &combat.EndCombatInput{EncounterID: encID}); err != nil {
		return err
	}

	out, err := store.GetEncounter(ctx, &combat.GetEncounterInput{EncounterID: encID})
	if err != nil {
		return err
	}

	fmt.Printf("\nSkirmish complete: %d rounds, %d log entries\n",
		out.Encounter.CurrentRound, len(out.Encounter.Log))

	return nil
}

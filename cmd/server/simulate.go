package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/game"
	"github.com/user/career-survival/internal/interfaces"
	"github.com/user/career-survival/internal/types"
	"go.uber.org/zap"
)

var (
	simRuns     int
	simIndustry string
	simSeed     int64
	simPlayer   string
	simPersist  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play careers on auto-pilot and print how they ended",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		catalog, err := loadCatalog()
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}

		var store interfaces.Store = game.NewMemoryStore()
		logger := zap.NewNop()
		if simPersist {
			persistent, closer, err := openStore(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer closer.Close()
			store = persistent
			logger = setupLogger(cfg.Server.LogLevel)
			defer logger.Sync()
		}
		return simulate(cmd, catalog, cfg.Game, store, logger)
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simRuns, "runs", 1, "Number of careers to play back to back")
	simulateCmd.Flags().StringVar(&simIndustry, "industry", string(types.IndustryInternet), "Industry of every career")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed, 0 seeds from the clock")
	simulateCmd.Flags().StringVar(&simPlayer, "player", "autopilot", "Player id the careers are recorded under")
	simulateCmd.Flags().BoolVar(&simPersist, "persist", false, "Record the careers in the configured store")
	rootCmd.AddCommand(simulateCmd)
}

func simulate(cmd *cobra.Command, catalog *game.Catalog, rules config.GameConfig, store interfaces.Store, logger *zap.Logger) error {
	industry := types.IndustryType(simIndustry)
	if !catalog.HasIndustry(industry) {
		return fmt.Errorf("unknown industry %q", simIndustry)
	}

	engine := game.NewEngine(catalog, rules, game.NewSeededDiceRoller(simSeed))
	seed := simSeed
	if seed != 0 {
		seed++
	}
	de := game.NewDecisionEngine(rules, game.NewSeededDiceRoller(seed))

	out := cmd.OutOrStdout()
	victories := 0
	for i := 1; i <= simRuns; i++ {
		view, err := game.Simulate(engine, de, simPlayer, industry, store, logger)
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		if view.Ending.Victory {
			victories++
		}
		fmt.Fprintf(out, "run %d: %s week %d money %d level %d %s\n",
			i, view.Run.Industry, view.Run.Week, view.Run.Money, view.Run.Level, view.Ending.Label)
		for _, n := range view.Notifications {
			fmt.Fprintf(out, "  %s\n", n)
		}
	}

	meta := engine.Progression.DefaultMeta()
	if raw, ok, err := store.Get(game.MetaKey(simPlayer)); err == nil && ok {
		meta, _ = game.DecodeMeta(raw, meta)
	}
	fmt.Fprintf(out, "%d/%d careers survived, %d career points, unlocked: %v\n",
		victories, simRuns, meta.TotalCareerPoints, meta.UnlockedIndustries)
	return nil
}

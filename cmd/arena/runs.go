package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/metalagman/arena/internal/db"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Manage debate runs",
	}
	cmd.AddCommand(runsListCmd())
	cmd.AddCommand(runsPruneCmd())
	return cmd
}

func runsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List debate runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, _, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			runs, err := db.NewStore(storeDB).ListRuns(context.Background())
			if err != nil {
				return err
			}
			for _, run := range runs {
				winner := "-"
				if run.Result != nil {
					winner = string(run.Result.Winner)
				}
				fmt.Printf("%s  %-9s  winner=%-4s  %s\n", run.RunID, run.Status, winner, run.Topic)
			}
			return nil
		},
	}
}

func runsPruneCmd() *cobra.Command {
	var keepLast int
	var keepDays int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Prune old debate runs and their turns",
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, workDir, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			cfg, err := loadConfig(workDir)
			if err != nil {
				return err
			}
			if keepLast <= 0 && keepDays <= 0 {
				keepLast = cfg.Retention.KeepLast
				keepDays = cfg.Retention.KeepDays
			}
			if keepLast <= 0 && keepDays <= 0 {
				return fmt.Errorf("set --keep-last or --keep-days (or configure retention in .arena/config.json)")
			}

			deleted, err := db.NewStore(storeDB).PruneRuns(context.Background(), keepLast, keepDays)
			if err != nil {
				return err
			}
			log.Info().Msgf("deleted %d runs", deleted)
			return nil
		},
	}
	cmd.Flags().IntVar(&keepLast, "keep-last", 0, "keep the newest N runs")
	cmd.Flags().IntVar(&keepDays, "keep-days", 0, "keep runs newer than N days")
	return cmd
}

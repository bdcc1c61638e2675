package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/metalagman/arena/internal/db"
	"github.com/metalagman/arena/internal/debate"
	"github.com/metalagman/arena/internal/model"
)

func runCmd() *cobra.Command {
	var (
		topic    string
		agentA   string
		agentB   string
		judge    string
		swapFrom string
	)
	cmd := &cobra.Command{
		Use:   "run [run-id]",
		Short: "Execute a debate run, streaming output to stdout",
		Long: `Execute a pending debate run. With a run id argument an existing
pending run is executed; with --topic and agent flags a new run is
created first. --swap-of creates a position-swapped rerun of a
completed run instead.`,
		Args: cobra.MaximumNArgs(1),
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
			store := db.NewStore(storeDB)
			ctx := context.Background()

			var runID string
			switch {
			case len(args) == 1:
				runID = args[0]
			case swapFrom != "":
				original, err := store.GetRun(ctx, swapFrom)
				if err != nil {
					return err
				}
				swapped, err := debate.SwappedRun(original)
				if err != nil {
					return err
				}
				created, err := store.CreateRun(ctx, swapped)
				if err != nil {
					return err
				}
				runID = created.RunID
			case topic != "":
				created, err := store.CreateRun(ctx, model.Run{
					Topic:     topic,
					AgentAID:  agentA,
					AgentBID:  agentB,
					AgentJID:  judge,
					PositionA: model.PositionFor,
					PositionB: model.PositionAgainst,
				})
				if err != nil {
					return err
				}
				runID = created.RunID
			default:
				return fmt.Errorf("pass a run id, or --topic with --agent-a/--agent-b/--judge")
			}

			_, retryer := newGenerator(cfg)
			exec := debate.NewExecutor(store, retryer, debate.Options{
				DefaultTemperature: cfg.Defaults.Temperature,
				DefaultMaxTokens:   cfg.Defaults.MaxTokens,
			})
			return exec.Execute(ctx, runID, debate.SinkFunc(printEvent))
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "debate topic for a new run")
	cmd.Flags().StringVar(&agentA, "agent-a", "", "agent id arguing FOR")
	cmd.Flags().StringVar(&agentB, "agent-b", "", "agent id arguing AGAINST")
	cmd.Flags().StringVar(&judge, "judge", "", "judge agent id")
	cmd.Flags().StringVar(&swapFrom, "swap-of", "", "completed run id to rerun with swapped positions")
	return cmd
}

// printEvent renders the debate stream for a terminal: tokens inline,
// everything else as single annotated lines.
func printEvent(ev debate.Event) error {
	switch ev.Type {
	case debate.EventPhaseStart:
		payload := ev.Data.(debate.PhaseStartPayload)
		fmt.Printf("\n--- %s ---\n", payload.Phase)
	case debate.EventToken:
		payload := ev.Data.(debate.TokenPayload)
		fmt.Print(payload.Content)
	case debate.EventScore:
		payload := ev.Data.(debate.ScorePayload)
		raw, _ := json.Marshal(payload.Scores)
		fmt.Printf("\n[score %s] %s\n", payload.Agent, raw)
	case debate.EventVerdict:
		payload := ev.Data.(debate.VerdictPayload)
		fmt.Printf("\n\n=== VERDICT: %s (A %.1f / B %.1f) ===\n", payload.Winner,
			payload.FinalScores.A.Total, payload.FinalScores.B.Total)
	case debate.EventRunComplete:
		payload := ev.Data.(debate.RunCompletePayload)
		fmt.Printf("run %s %s, winner %s\n", payload.RunID, payload.Status, payload.Winner)
	case debate.EventError:
		payload := ev.Data.(debate.ErrorPayload)
		fmt.Fprintf(os.Stderr, "\nerror in %s: %s\n", payload.Phase, payload.Message)
	}
	return nil
}

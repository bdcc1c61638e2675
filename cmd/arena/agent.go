package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/metalagman/arena/internal/db"
	"github.com/metalagman/arena/internal/model"
)

func agentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage debater and judge agents",
	}
	cmd.AddCommand(agentListCmd())
	cmd.AddCommand(agentAddCmd())
	cmd.AddCommand(agentImportCmd())
	cmd.AddCommand(agentCloneCmd())
	cmd.AddCommand(agentDeleteCmd())
	return cmd
}

func agentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, _, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			agents, err := db.NewStore(storeDB).ListAgents(context.Background())
			if err != nil {
				return err
			}
			for _, a := range agents {
				fmt.Printf("%s  %-20s  %s\n", a.AgentID, a.Name, a.Model)
			}
			return nil
		},
	}
}

func agentAddCmd() *cobra.Command {
	var (
		name     string
		modelID  string
		tone     string
		override string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || modelID == "" {
				return fmt.Errorf("--name and --model are required")
			}
			storeDB, _, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			created, err := db.NewStore(storeDB).CreateAgent(context.Background(), model.Agent{
				Name:  name,
				Model: modelID,
				Persona: model.Persona{
					Name:                 name,
					Tone:                 tone,
					SystemPromptOverride: override,
				},
			})
			if err != nil {
				return err
			}
			fmt.Println(created.AgentID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&modelID, "model", "", "ollama model identifier")
	cmd.Flags().StringVar(&tone, "tone", "", "persona tone")
	cmd.Flags().StringVar(&override, "system-prompt", "", "full system prompt override")
	return cmd
}

// agentSeed is the YAML import format: a list of agent definitions.
type agentSeed struct {
	Name    string        `yaml:"name"`
	Model   string        `yaml:"model"`
	Persona model.Persona `yaml:"persona"`
	Params  model.Params  `yaml:"params"`
}

func agentImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import agents from a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read seed file: %w", err)
			}
			var seeds []agentSeed
			if err := yaml.Unmarshal(raw, &seeds); err != nil {
				return fmt.Errorf("parse seed file: %w", err)
			}

			storeDB, _, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()
			store := db.NewStore(storeDB)

			for _, seed := range seeds {
				if seed.Name == "" || seed.Model == "" {
					return fmt.Errorf("every agent needs a name and a model")
				}
				created, err := store.CreateAgent(context.Background(), model.Agent{
					Name:    seed.Name,
					Model:   seed.Model,
					Persona: seed.Persona,
					Params:  seed.Params,
				})
				if err != nil {
					return err
				}
				fmt.Printf("%s  %s\n", created.AgentID, created.Name)
			}
			return nil
		},
	}
}

func agentCloneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clone <agent-id>",
		Short: "Clone an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, _, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			clone, err := db.NewStore(storeDB).CloneAgent(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(clone.AgentID)
			return nil
		},
	}
}

func agentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <agent-id>",
		Short: "Delete an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, _, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			return db.NewStore(storeDB).DeleteAgent(context.Background(), args[0])
		},
	}
}

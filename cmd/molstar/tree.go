package main

import (
	"fmt"
	"os"

	"github.com/qqdb/molstar/internal/cli"
	"github.com/qqdb/molstar/internal/compiler"
	"github.com/qqdb/molstar/internal/presentation/graph"
	"github.com/qqdb/molstar/pkg/domain"
	"github.com/spf13/cobra"
)

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree [script]",
	Short: "Export the state tree visualization",
	Long:  `Compiles a build script (or loads a saved session) and outputs a Mermaid diagram (graph TD) representing the transform tree.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID, _ := cmd.Flags().GetString("session")

		var snap domain.Snapshot
		switch {
		case sessionID != "":
			redisURL, _ := cmd.Flags().GetString("redis-url")
			stateDir, _ := cmd.Flags().GetString("state-dir")
			stateKey, _ := cmd.Flags().GetString("state-key")

			store, err := cli.CreateStore(redisURL, stateDir, stateKey)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			loaded, err := store.Load(cmd.Context(), sessionID)
			if err != nil {
				fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
				os.Exit(1)
			}
			snap = *loaded
		case len(args) > 0:
			data, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Printf("Error reading script: %v\n", err)
				os.Exit(1)
			}
			compiled, err := compiler.NewCompiler().CompileBytes(data)
			if err != nil {
				fmt.Printf("Error compiling script: %v\n", err)
				os.Exit(1)
			}
			snap = compiled
		default:
			fmt.Println("Error: provide a build script or --session.")
			os.Exit(1)
		}

		// Generate and print Mermaid graph
		output := graph.GenerateMermaid(plannedCells(snap))
		fmt.Print(output)
	},
}

// plannedCells lays a snapshot out the way the engine would before any
// transform runs: the materialized root, then every record as pending.
func plannedCells(snap domain.Snapshot) []domain.Cell {
	cells := make([]domain.Cell, 0, len(snap.Records)+1)
	cells = append(cells, domain.Cell{
		Transform: domain.RootTransform(),
		Status:    domain.StatusOK,
		Object:    domain.NewObject(domain.RootPayload{}, "root"),
	})
	for _, rec := range snap.Records {
		cells = append(cells, domain.Cell{Transform: rec, Status: domain.StatusPending})
	}
	return cells
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().String("session", "", "Render a saved session instead of a script")
}

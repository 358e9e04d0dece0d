package main

import (
	"fmt"
	"os"

	"github.com/qqdb/molstar/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "molstar",
	Short: "Molstar is a declarative molecular scene engine",
	Long: `Molstar builds molecular visualization state trees from simple YAML
build scripts: download, parse, structure and volume transforms composed
into a reproducible scene graph.`,
	PersistentPreRunE: applyProjectConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// applyProjectConfig folds molstar.yaml into flags the command line left
// untouched. Values are written without marking the flags changed, so
// positional arguments and explicit flags keep their precedence.
func applyProjectConfig(cmd *cobra.Command, _ []string) error {
	project, err := cli.LoadProjectConfig(cli.ProjectFile)
	if err != nil {
		return err
	}

	values := map[string]string{
		"script":    project.Script,
		"session":   project.Session,
		"redis-url": project.RedisURL,
		"state-dir": project.StateDir,
		"state-key": project.StateKey,
	}
	if project.Quiet {
		values["quiet"] = "true"
	}
	if project.Debug {
		values["debug"] = "true"
	}

	for name, value := range values {
		if value == "" {
			continue
		}
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		if err := f.Value.Set(value); err != nil {
			return fmt.Errorf("%s: %s: %w", cli.ProjectFile, name, err)
		}
	}
	return nil
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("redis-url", "", "Redis address for session storage (host:port)")
	rootCmd.PersistentFlags().String("state-dir", ".molstar/sessions", "Directory for file-based session storage")
	rootCmd.PersistentFlags().String("state-key", "", "Hex-encoded AES-256 key for session encryption")
}

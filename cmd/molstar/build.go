package main

import (
	"fmt"
	"os"

	"github.com/qqdb/molstar/internal/cli"
	"github.com/spf13/cobra"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build [script]",
	Short: "Build the state tree from a build script",
	Long:  `Executes a YAML build script and reports the settled tree: every cell, its status and its label.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		scriptPath, _ := cmd.Flags().GetString("script")
		if !cmd.Flags().Changed("script") && len(args) > 0 {
			scriptPath = args[0]
		}

		watchMode, _ := cmd.Flags().GetBool("watch")
		jsonMode, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")
		debug, _ := cmd.Flags().GetBool("debug")
		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		redisURL, _ := cmd.Flags().GetString("redis-url")
		stateDir, _ := cmd.Flags().GetString("state-dir")
		stateKey, _ := cmd.Flags().GetString("state-key")

		if cmd.Flags().Lookup("script") == nil {
			// Invoked through the root command, whose flag set has none
			// of the build flags, so the pre-run could not merge the
			// project file into them. Parse errors already surfaced there.
			if project, err := cli.LoadProjectConfig(cli.ProjectFile); err == nil {
				if scriptPath == "" {
					scriptPath = project.Script
				}
				if sessionID == "" {
					sessionID = project.Session
				}
				quiet = quiet || project.Quiet
			}
		}
		if scriptPath == "" {
			scriptPath = "scene.yaml"
		}

		opts := cli.RunOptions{
			ScriptPath: scriptPath,
			Watch:      watchMode,
			JSON:       jsonMode,
			Quiet:      quiet,
			Debug:      debug,
			SessionID:  sessionID,
			Fresh:      fresh,
			RedisURL:   redisURL,
			StateDir:   stateDir,
			StateKey:   stateKey,
		}

		if err := cli.Execute(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().String("script", "scene.yaml", "Path to the build script")
	buildCmd.Flags().BoolP("watch", "w", false, "Rebuild whenever the script changes")
	buildCmd.Flags().Bool("json", false, "Emit NDJSON progress and report lines")
	buildCmd.Flags().BoolP("quiet", "q", false, "Suppress progress output")
	buildCmd.Flags().String("session", "", "Persist the built tree under this session ID")
	buildCmd.Flags().Bool("fresh", false, "Delete the session before building")

	// Make 'build' the default if no command is provided
	rootCmd.Run = buildCmd.Run
	rootCmd.Args = buildCmd.Args
}

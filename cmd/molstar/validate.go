package main

import (
	"fmt"
	"os"

	"github.com/qqdb/molstar"
	"github.com/qqdb/molstar/internal/compiler"
	"github.com/qqdb/molstar/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [script]",
	Short: "Check a build script for consistency",
	Long:  `Compiles the script without executing it and reports unknown transformers, broken parent links, kind mismatches and schema violations.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Script is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(args []string) error {
	path := "scene.yaml"
	if len(args) > 0 {
		path = args[0]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read build script: %w", err)
	}

	// 1. Compile without executing
	snap, err := compiler.NewCompiler().CompileBytes(data)
	if err != nil {
		return err
	}

	// 2. Check the records against the core transformer registry.
	// We boot a plugin for its registry; nothing is downloaded or built.
	plugin, err := molstar.New()
	if err != nil {
		return fmt.Errorf("failed to init plugin: %w", err)
	}

	return validator.ValidateSnapshot(plugin.Registry().Transformers, snap)
}

/*
Package molstar is a state-tree framework for molecular visualization hosts: it manages structures, volumes and their representations as a tree of declarative transform records, so every scene is reproducible from data alone.

It implements a "diff and re-execute" architecture, separating the scene description (transform records) from the computed artifacts (cells) and side-effects (fetching, GPU uploads).

# Concept

A scene is a tree. Each node records which transformer produced it and with what parameters; the engine turns a snapshot of such records into live cells by running the transformers top-down, reusing cells whose records did not change. Committing a new snapshot diffs it against the current tree, applies the difference, and rolls the whole batch back if any cell fails. This keeps the expensive artifacts (parsed models, meshes, textures) consistent with a description that is cheap to store, send and version.

# Key Features

  - Declarative scenes: a tree of transform records is the single source of truth.
  - Minimal recomputation: commits re-run only the cells whose inputs changed.
  - Atomic updates: a failing cell rolls back the entire commit.
  - Hexagonal edges: fetching, persistence and GPU access go through narrow ports.
  - Durable sessions: snapshots round-trip through pluggable stores.

# Usage

Initialize a Plugin, then describe the scene with the builder. The commit executes whatever changed.

	package main

	import (
		"context"
		"log"

		"github.com/qqdb/molstar"
		"github.com/qqdb/molstar/pkg/dsl"
	)

	func main() {
		plugin, err := molstar.New()
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		err = plugin.Build(ctx, func(b *dsl.Builder) {
			data := b.Root().Apply("download").
				Param("url", "https://files.example.org/1tqn.ccp4").
				Param("format", "ccp4")
			volume := data.Apply("volume-from-ccp4")
			volume.Apply("direct-volume-repr")
		})
		if err != nil {
			log.Fatal(err)
		}

		for _, cell := range plugin.Cells() {
			log.Println(cell.Transform.Ref, cell.Status)
		}
	}
*/
package molstar

/*
Package runner executes build scripts against a molstar plugin and reports the outcome through pluggable output handlers.

It acts as the bridge between the state-tree engine and a host's console: the runner compiles a YAML build script, commits the resulting tree, streams task progress while the commit runs, and renders a cell report when it settles.

# Key Components

  - Runner: the orchestrator tying a plugin to an output handler.
  - OutputHandler: decouples how progress and reports are presented (text, JSON, ...).
  - TextHandler: human-readable output, optionally through a markdown renderer.
  - JSONHandler: line-delimited JSON for machine consumers.

# Usage

	handler := runner.NewTextHandler(os.Stdout)
	plugin, _ := molstar.New(molstar.WithObserver(runner.Observer(handler)))

	r := runner.NewRunner(plugin,
		runner.WithHandler(handler),
	)

	if err := r.RunFile(ctx, "scene.yaml"); err != nil {
		log.Fatal(err)
	}
*/
package runner

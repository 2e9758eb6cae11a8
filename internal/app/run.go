package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vk/flowgrid/internal/builder"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/engine"
)

// Run executes the main application logic based on the provided
// configuration: build the graph, drive one execution round, and
// optionally export a snapshot of the final state.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	g, err := builder.Build(ctx, a.model, a.registry)
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}
	nodes := g.Nodes()
	a.logger.Debug("Graph built.", "node_count", len(nodes))

	if len(nodes) == 0 {
		a.logger.Warn("No nodes found in graph, execution not required.")
		return nil
	}

	a.logger.Info("🚀 Starting execution round...")
	if err := engine.New(g).Run(ctx); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Execution finished.")

	if appConfig.SnapshotPath != "" {
		snap, err := g.Snapshot()
		if err != nil {
			return fmt.Errorf("snapshot export failed: %w", err)
		}
		raw, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("snapshot encoding failed: %w", err)
		}
		if err := os.WriteFile(appConfig.SnapshotPath, raw, 0o644); err != nil {
			return fmt.Errorf("snapshot write failed: %w", err)
		}
		a.logger.Info("Snapshot written.", "path", appConfig.SnapshotPath)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

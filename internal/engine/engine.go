// Package engine drives a graph through one round of execution: it
// prepares every node, then repeatedly scans for a node whose readiness
// check passes, runs it, and lets it propagate, until no node is ready.
// Execution is single-threaded and cooperative; exactly one node's
// run/notify pair executes at a time.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/graph"
)

// Engine owns the check/run/notify loop over one graph.
type Engine struct {
	graph *graph.Graph
}

// New creates an Engine for the given graph.
func New(g *graph.Graph) *Engine {
	return &Engine{graph: g}
}

// Run executes one full round. Readiness order between simultaneously
// ready nodes follows graph insertion order, but correctness must not
// depend on it. Nodes still owing executions when the round drains are
// reported, not failed: the untaken branch of a conditional legitimately
// never runs, and the engine cannot tell it apart from a genuinely
// starved node.
func (e *Engine) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("round", uuid.NewString())
	ctx = ctxlog.WithLogger(ctx, logger)

	nodes := e.graph.Nodes()
	for _, n := range nodes {
		n.Prepare()
	}
	logger.Debug("round prepared", "node_count", len(nodes))

	executed := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ran := false
		for _, n := range nodes {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !n.Check(ctx) {
				continue
			}
			if err := n.Run(ctx); err != nil {
				return fmt.Errorf("node %q run failed: %w", n.ID(), err)
			}
			if err := n.Notify(ctx); err != nil {
				return fmt.Errorf("node %q notify failed: %w", n.ID(), err)
			}
			ran = true
			executed++
		}
		if !ran {
			break
		}
	}

	var pending []string
	for _, n := range nodes {
		if n.Remaining() > 0 {
			pending = append(pending, n.ID())
		}
	}
	if len(pending) > 0 {
		logger.Warn("round drained with pending nodes", "pending", pending)
	}

	logger.Info("round finished", "executions", executed)
	return nil
}

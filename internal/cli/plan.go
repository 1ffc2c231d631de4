package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/plan"
	"github.com/layercake-project/layercake/pkg/render"
	"github.com/layercake-project/layercake/pkg/repository"
)

// planCommand creates the "plan" command group: validate, execute,
// preview, and export, one per spec §6 External Interfaces operation
// plus the materialized-view readers it implies.
func (c *CLI) planCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Validate and execute Plan DAGs",
	}

	cmd.AddCommand(c.planValidateCommand())
	cmd.AddCommand(c.planExecuteCommand())
	cmd.AddCommand(c.planPreviewCommand())
	cmd.AddCommand(c.planExportCommand())

	return cmd
}

// loadPlanDAG decodes a Plan DAG JSON document at path.
func loadPlanDAG(path string) (plan.DAG, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return plan.DAG{}, fmt.Errorf("read plan file: %w", err)
	}
	var d plan.DAG
	if err := json.Unmarshal(data, &d); err != nil {
		return plan.DAG{}, fmt.Errorf("decode plan file: %w", err)
	}
	return d, nil
}

// printErrorList renders a [cerrors.List] as one line per error/warning,
// per spec §7's "every surfaced error carries a structured payload"
// policy: a user sees the whole set at once rather than one failure at
// a time.
func printErrorList(list cerrors.List) {
	for _, e := range list.Errors {
		printError("%s[%s]: %s", e.Code, e.Where, e.Message)
	}
	for _, w := range list.Warnings {
		printWarning("%s[%s]: %s", w.Code, w.Where, w.Message)
	}
}

// =============================================================================
// plan validate
// =============================================================================

func (c *CLI) planValidateCommand() *cobra.Command {
	var opts commonOpts

	cmd := &cobra.Command{
		Use:   "validate <plan.json>",
		Short: "Validate a Plan DAG without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadPlanDAG(args[0])
			if err != nil {
				return err
			}
			exec, closeExec, err := c.newExecutor(opts)
			if err != nil {
				return err
			}
			defer closeExec()

			list := exec.ValidatePlanDAG(d)
			printErrorList(list)
			if !list.OK() {
				return fmt.Errorf("plan is invalid: %d error(s)", len(list.Errors))
			}
			printSuccess("Plan is valid (%d node(s), %d warning(s))", len(d.Nodes), len(list.Warnings))
			return nil
		},
	}
	addCommonFlags(cmd, &opts)
	return cmd
}

// =============================================================================
// plan execute
// =============================================================================

func (c *CLI) planExecuteCommand() *cobra.Command {
	var opts commonOpts
	var timeoutSeconds int
	var watch bool

	cmd := &cobra.Command{
		Use:   "execute <plan.json>",
		Short: "Execute a Plan DAG, materializing every node's output graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadPlanDAG(args[0])
			if err != nil {
				return err
			}
			exec, closeExec, err := c.newExecutor(opts)
			if err != nil {
				return err
			}
			defer closeExec()
			if timeoutSeconds > 0 {
				exec.NodeTimeout = time.Duration(timeoutSeconds) * time.Second
			}

			prog := newProgress(c.Logger)
			handle, err := exec.ExecutePlan(cmd.Context(), opts.projectID, d)
			if err != nil {
				return err
			}

			if watch {
				if err := runExecutionTUI(handle); err != nil {
					return err
				}
			} else {
				for ev := range handle.Events() {
					switch ev.Status {
					case repository.StatusCompleted:
						printSuccess("%s (%d nodes, %d edges)", ev.DAGNodeID, ev.NodeCount, ev.EdgeCount)
					case repository.StatusSkipped:
						printWarning("%s skipped (upstream failed)", ev.DAGNodeID)
					case repository.StatusError:
						printError("%s: %v", ev.DAGNodeID, ev.Err)
					}
				}
			}

			results := handle.Wait()
			failures := 0
			for _, r := range results {
				if r.Status == repository.StatusError {
					failures++
				}
			}
			prog.done(fmt.Sprintf("Executed %d node(s), %d failure(s)", len(results), failures))
			if failures > 0 {
				return fmt.Errorf("%d node(s) failed", failures)
			}
			return nil
		},
	}
	addCommonFlags(cmd, &opts)
	cmd.Flags().IntVar(&timeoutSeconds, "node-timeout", 0, "per-node wall-clock timeout in seconds (0 disables)")
	cmd.Flags().BoolVar(&watch, "watch", false, "show a live-updating terminal view of node progress")
	return cmd
}

// =============================================================================
// plan preview
// =============================================================================

func (c *CLI) planPreviewCommand() *cobra.Command {
	var opts commonOpts

	cmd := &cobra.Command{
		Use:   "preview <plan.json> <dag-node-id>",
		Short: "Print a materialized node's graph and its concatenated annotation log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadPlanDAG(args[0])
			if err != nil {
				return err
			}
			exec, closeExec, err := c.newExecutor(opts)
			if err != nil {
				return err
			}
			defer closeExec()

			g, annotations, err := exec.PreviewGraph(context.Background(), opts.projectID, d, args[1])
			if err != nil {
				return err
			}

			printInfo("%s: %d nodes, %d edges, %d layers", args[1], len(g.Nodes), len(g.Edges), len(g.Layers))
			for _, a := range annotations {
				printDetail("%s", a)
			}
			return nil
		},
	}
	addCommonFlags(cmd, &opts)
	return cmd
}

// =============================================================================
// plan export
// =============================================================================

func (c *CLI) planExportCommand() *cobra.Command {
	var opts commonOpts
	var format, output string

	cmd := &cobra.Command{
		Use:   "export <plan.json> <dag-node-id>",
		Short: "Render a materialized node's output through an exporter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := render.Target(format)
			d, err := loadPlanDAG(args[0])
			if err != nil {
				return err
			}
			node, ok := d.Nodes[args[1]]
			cfg := render.Config{Name: args[1]}
			if ok && (node.Kind == plan.KindGraphArtefact || node.Kind == plan.KindTreeArtefact) {
				cfg = node.RenderConfig
				cfg.Name = args[1]
				if format == "" {
					target = node.RenderTarget
				}
			}

			exec, closeExec, err := c.newExecutor(opts)
			if err != nil {
				return err
			}
			defer closeExec()

			art, err := exec.ExportNodeOutput(context.Background(), opts.projectID, args[1], target, cfg)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = art.Filename
			}
			if err := os.WriteFile(path, art.Data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			printSuccess("Wrote %s (%s, %d bytes)", path, art.MIME, len(art.Data))
			return nil
		},
	}
	addCommonFlags(cmd, &opts)
	cmd.Flags().StringVarP(&format, "format", "f", "", "render target (defaults to the artefact node's own target)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (defaults to <node-id>.<ext>)")
	return cmd
}

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"orgchart-backend/domain/chart"
	"orgchart-backend/pkg/syncclient"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// replayLine is one mutation in a replay file
type replayLine struct {
	Operation string          `json:"operation"`
	Payload   json.RawMessage `json:"payload"`
	NodeID    string          `json:"nodeId"`
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func connect(ctx context.Context, opts *globalOptions, out io.Writer) (*syncclient.Client, error) {
	b, err := syncclient.FetchBootstrap(ctx, nil, opts.pageURL)
	if err != nil {
		return nil, err
	}
	return syncclient.New(b,
		syncclient.WithLogger(newLogger(opts.verbose)),
		syncclient.WithAlerter(syncclient.AlertFunc(func(m string) { fmt.Fprintln(out, m) })),
	), nil
}

func newShowCmd(opts *globalOptions) *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the chart as the page renders it",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if tree {
				printTree(cmd.OutOrStdout(), c.View())
				return nil
			}
			return printJSON(cmd.OutOrStdout(), c.View())
		},
	}

	cmd.Flags().BoolVar(&tree, "tree", false, "Print an indented tree instead of JSON")
	return cmd
}

func newApplyCmd(opts *globalOptions) *cobra.Command {
	var line replayLine
	var payload string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Send one add, update or remove mutation",
		RunE: func(cmd *cobra.Command, args []string) error {
			line.Payload = json.RawMessage(payload)
			c, err := connect(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			r, err := apply(cmd.Context(), c, line)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&line.Operation, "op", "", "Operation: add, update or remove (required)")
	cmd.Flags().StringVar(&payload, "payload", "{}", "Node JSON for add and update")
	cmd.Flags().StringVar(&line.NodeID, "node-id", "", "Node id for remove")
	_ = cmd.MarkFlagRequired("op")
	return cmd
}

func newReplayCmd(opts *globalOptions) *cobra.Command {
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "replay <file.jsonl>",
		Short: "Send mutations from a JSON lines file, one at a time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return withCode(exitUsage, err)
			}
			defer f.Close()

			c, err := connect(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return replay(cmd.Context(), c, f, cmd.OutOrStdout(), keepGoing)
		},
	}

	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Continue after a rejected mutation")
	return cmd
}

func newUploadCmd(opts *globalOptions) *cobra.Command {
	var nodeID string

	cmd := &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload an avatar and set it on a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return withCode(exitUsage, err)
			}

			c, err := connect(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ref, err := c.UploadAvatar(cmd.Context(), nodeID, filepath.Base(args[0]), data)
			if err != nil {
				return withCode(exitRejected, err)
			}

			i := c.View().IndexOf(nodeID)
			if i < 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ref)
				return nil
			}
			// The widget saves the edit form after an upload; do the same.
			r, err := c.OnUpdate(cmd.Context(), c.View()[i]).Wait(cmd.Context())
			if err != nil {
				return err
			}
			if !r.Success {
				return withCode(exitRejected, r.Err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ref)
			return nil
		},
	}

	cmd.Flags().StringVar(&nodeID, "node-id", "", "Node whose avatar is replaced (required)")
	_ = cmd.MarkFlagRequired("node-id")
	return cmd
}

func apply(ctx context.Context, c *syncclient.Client, line replayLine) (syncclient.Result, error) {
	var p *syncclient.Pending
	switch line.Operation {
	case syncclient.OperationAdd, syncclient.OperationUpdate:
		node, err := chart.ParseNode(line.Payload)
		if err != nil {
			return syncclient.Result{}, withCode(exitUsage, fmt.Errorf("invalid payload: %w", err))
		}
		if line.Operation == syncclient.OperationAdd {
			p = c.OnAdd(ctx, node)
		} else {
			p = c.OnUpdate(ctx, node)
		}
	case syncclient.OperationRemove:
		if line.NodeID == "" {
			return syncclient.Result{}, withCode(exitUsage, fmt.Errorf("remove needs a node id"))
		}
		p = c.OnRemove(ctx, line.NodeID)
	default:
		return syncclient.Result{}, withCode(exitUsage, fmt.Errorf("unsupported operation %q", line.Operation))
	}

	r, err := p.Wait(ctx)
	if err != nil {
		return r, err
	}
	if !r.Success {
		return r, withCode(exitRejected, r.Err)
	}
	return r, nil
}

func replay(ctx context.Context, c *syncclient.Client, in io.Reader, out io.Writer, keepGoing bool) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 4<<20)

	n, failed := 0, 0
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		n++

		var line replayLine
		if err := json.Unmarshal([]byte(text), &line); err != nil {
			return withCode(exitUsage, fmt.Errorf("line %d: %w", n, err))
		}
		if len(line.Payload) == 0 {
			line.Payload = json.RawMessage("{}")
		}

		r, err := apply(ctx, c, line)
		if err != nil {
			failed++
			fmt.Fprintf(out, "%d\t%s\tFAILED\t%v\n", n, line.Operation, err)
			if !keepGoing {
				return err
			}
			continue
		}
		fmt.Fprintf(out, "%d\t%s\tok\t%s\n", n, line.Operation, r.Message)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return withCode(exitRejected, fmt.Errorf("%d of %d mutations failed", failed, n))
	}
	return nil
}

func printJSON(out io.Writer, c chart.Collection) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// printTree prints nodes under their parents. Nodes whose parent is missing
// are printed as roots.
func printTree(out io.Writer, c chart.Collection) {
	children := make(map[string][]chart.Node)
	var roots []chart.Node
	for _, n := range c {
		if n.ParentID() == "" || c.IndexOf(n.ParentID()) < 0 {
			roots = append(roots, n)
			continue
		}
		parent := c[c.IndexOf(n.ParentID())].ID()
		children[parent] = append(children[parent], n)
	}

	seen := make(map[string]bool)
	var walk func(n chart.Node, depth int)
	walk = func(n chart.Node, depth int) {
		fmt.Fprintf(out, "%s%s  %s", strings.Repeat("  ", depth), n.ID(), n.Field(chart.FieldEmployeeName))
		if title := n.Field(chart.FieldTitle); title != "" {
			fmt.Fprintf(out, " (%s)", title)
		}
		fmt.Fprintln(out)
		if seen[n.ID()] {
			return
		}
		seen[n.ID()] = true
		for _, child := range children[n.ID()] {
			walk(child, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-dev/livetree"
	"github.com/vango-dev/livetree/internal/demo"
	"github.com/vango-dev/livetree/pkg/dom"
)

func demoCmd() *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Play the scripted todo session",
		Long: `Mount the todo application into an in-memory document, play the
scripted session and print the document after every step, together
with the mutations the step caused.

Examples:
  livetree demo
  livetree demo --html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout(), asHTML)
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Print HTML instead of the node outline")
	return cmd
}

func runDemo(ctx context.Context, w io.Writer, asHTML bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := livetree.DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	rt := livetree.New(cfg)
	defer rt.Close()

	app := demo.New()
	demo.Seed(app)

	doc := dom.NewDocument()
	rt.MountDocument(doc, app.View())

	for _, step := range demo.Script() {
		doc.ResetCounts()
		step.Run(app)
		if err := rt.Settle(ctx); err != nil {
			return fmt.Errorf("step %s: %w", step.Name, err)
		}

		fmt.Fprintln(w, headerStyle.Render("== "+step.Name))
		fmt.Fprintln(w, dimStyle.Render(formatCounts(doc.Counts())))
		if asHTML {
			fmt.Fprintln(w, dom.InnerHTML(doc.Body()))
		} else {
			fmt.Fprint(w, dom.Dump(doc.Body()))
		}
		fmt.Fprintln(w)
	}
	return nil
}

var mutationOps = []dom.MutationOp{
	dom.MutationSetText,
	dom.MutationSetAttr,
	dom.MutationRemoveAttr,
	dom.MutationInsertNode,
	dom.MutationRemoveNode,
	dom.MutationMoveNode,
}

func formatCounts(counts map[dom.MutationOp]int) string {
	s := "mutations:"
	total := 0
	for _, op := range mutationOps {
		if n := counts[op]; n > 0 {
			s += fmt.Sprintf(" %s=%d", op, n)
			total += n
		}
	}
	if total == 0 {
		s += " none"
	}
	return s
}

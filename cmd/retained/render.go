package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vango-dev/retained/internal/demo"
	"github.com/vango-dev/retained/pkg/dom"
	"github.com/vango-dev/retained/pkg/reconcile"
)

func renderCmd() *cobra.Command {
	var (
		pretty bool
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Mount the demo into an in-memory document and print its HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := dom.NewDocument()
			r := reconcile.New(doc, reconcile.Options{})
			root := r.Render(demo.Root(), doc.Body(), nil)
			r.RunMicrotasks()

			if err := dom.WriteHTML(cmd.OutOrStdout(), root, dom.HTMLOptions{Pretty: pretty}); err != nil {
				return err
			}
			if !pretty {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			if stats {
				printStats(cmd, doc.TakeMutations())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the output")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print mutation counts by kind to stderr")

	return cmd
}

func printStats(cmd *cobra.Command, muts []dom.Mutation) {
	counts := map[dom.MutationKind]int{}
	for _, m := range muts {
		counts[m.Kind]++
	}
	kinds := make([]dom.MutationKind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "%d mutations\n", len(muts))
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-14s %d\n", k, counts[k])
	}
}

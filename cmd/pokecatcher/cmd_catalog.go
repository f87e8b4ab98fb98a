package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/pokemon-catcher/internal/catalog"
	"github.com/ramonehamilton/pokemon-catcher/internal/charts"
)

func newCatalogCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse and refresh the Pokémon catalog",
	}
	cmd.AddCommand(
		newCatalogLoadCmd(opts),
		newCatalogPrimeCmd(opts),
		newCatalogSearchCmd(opts),
		newCatalogShowCmd(opts),
	)
	return cmd
}

func newCatalogLoadCmd(opts *options) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Fetch a page of the catalog and make it current",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				if limit == 0 {
					limit = a.cfg.Loader.CatalogLimit
				}
				items, err := a.game.LoadCatalog(cmd.Context(), limit, offset)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d Pokémon.\n", len(items))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of Pokémon to fetch (default: loader.catalog_limit)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Catalog offset")
	return cmd
}

func newCatalogPrimeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "prime",
		Short: "Load evolution details for the whole catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCatalogApp(cmd.Context(), opts, func(a *app) error {
				out := cmd.OutOrStdout()
				err := a.game.PrimeCatalog(cmd.Context(), func(percent int) {
					fmt.Fprintf(out, "\rPriming catalog... %3d%%", percent)
				})
				fmt.Fprintln(out)
				if err != nil {
					return err
				}

				stats := a.game.LoaderStats()
				fmt.Fprintf(out, "Loaded %d Pokémon (%d degraded, cache hit rate %.0f%%).\n",
					a.game.Catalog().Len(), stats.Degraded, stats.CacheHitRate)
				return nil
			})
		},
	}
}

func newCatalogSearchCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Suggest catalog names matching a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalogApp(cmd.Context(), opts, func(a *app) error {
				out := cmd.OutOrStdout()
				suggestions := a.game.Catalog().Suggest(args[0], limit)
				if len(suggestions) == 0 {
					fmt.Fprintf(out, "No Pokémon match %q.\n", args[0])
					return nil
				}
				for _, s := range suggestions {
					fmt.Fprintf(out, "#%-4d %s\n", s.Item.ID, s.Item.Name)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", catalog.DefaultSuggestLimit, "Maximum suggestions")
	return cmd
}

func newCatalogShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name|id>",
		Short: "Show a Pokémon's evolution chain and catch chance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalogApp(cmd.Context(), opts, func(a *app) error {
				details, err := a.game.Details(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "Name:\t%s (#%d)\n", details.Name, details.ID)
				fmt.Fprintf(tw, "Stage:\t%s\n", charts.StageLabel(details.Stage))
				fmt.Fprintf(tw, "Catch chance:\t%.0f%%\n", details.CatchChance*100)
				if len(details.Chain) > 0 {
					names := make([]string, len(details.Chain))
					for i, node := range details.Chain {
						names[i] = node.Name
					}
					fmt.Fprintf(tw, "Chain:\t%s\n", strings.Join(names, " -> "))
				}
				return tw.Flush()
			})
		},
	}
}

package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/pokemon-catcher/internal/charts"
)

func newCatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "catch <name|id>",
		Short: "Throw a ball at a Pokémon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalogApp(cmd.Context(), opts, func(a *app) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Throwing a ball at %s...\n", args[0])

				outcome, err := a.game.Catch(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				name := outcome.Pokemon.Name
				if outcome.Result.Success {
					fmt.Fprintf(out, "Gotcha! %s was caught. You now have %d.\n", name, outcome.Count)
				} else {
					fmt.Fprintf(out, "Oh no! %s broke free (%.0f%% chance).\n", name, outcome.Result.Chance*100)
				}
				if outcome.Warning != "" {
					fmt.Fprintf(out, "Warning: collection not saved: %s\n", outcome.Warning)
				}
				if outcome.Result.Success {
					fmt.Fprintln(out)
					state, focus := a.game.View()
					printCollection(out, state, focus)
				}
				return nil
			})
		},
	}
}

func newReleaseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "release <id>",
		Short: "Release one copy of a caught Pokémon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				released, err := a.game.Release(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !released {
					return fmt.Errorf("pokemon %d is not in your collection", id)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Released one #%d.\n\n", id)
				state, focus := a.game.View()
				printCollection(out, state, focus)
				return nil
			})
		},
	}
}

func newEvolveCmd(opts *options) *cobra.Command {
	var to int
	cmd := &cobra.Command{
		Use:   "evolve <id>",
		Short: "Trade three copies of a Pokémon for its next form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withCatalogApp(cmd.Context(), opts, func(a *app) error {
				option, err := a.game.EvolutionFor(cmd.Context(), id)
				if err != nil {
					return err
				}
				if option.Next == nil {
					return fmt.Errorf("%s has no further evolution", option.Entry.Name)
				}
				if !option.CanEvolve {
					return fmt.Errorf("%s needs %d copies to evolve, you have %d",
						option.Entry.Name, option.Cost, option.Entry.Count)
				}
				if to == 0 {
					to = option.Next.ID
				}

				evolved, err := a.game.Evolve(cmd.Context(), id, to)
				if err != nil {
					return err
				}
				if !evolved {
					return fmt.Errorf("%s cannot evolve into #%d", option.Entry.Name, to)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s evolved into %s!\n\n", option.Entry.Name, option.Next.Name)
				state, focus := a.game.View()
				printCollection(out, state, focus)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&to, "to", 0, "Target form id (default: the next form)")
	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	var focus int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show your collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				var f *int
				if focus > 0 {
					f = &focus
				}
				printCollection(cmd.OutOrStdout(), a.game.Collection(), f)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&focus, "focus", 0, "Highlight this Pokémon id")
	return cmd
}

func newClearCmd(opts *options) *cobra.Command {
	var history bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Release every Pokémon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				if err := a.game.Clear(cmd.Context()); err != nil {
					return err
				}
				if history {
					if err := a.storage.ResetHistory(cmd.Context()); err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Collection cleared.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&history, "history", false, "Also delete the catch attempt history")
	return cmd
}

func newAttemptsCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "attempts",
		Short: "Show recent catch attempts and per-stage success rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				attempts, err := a.game.RecentAttempts(cmd.Context(), limit)
				if err != nil {
					return err
				}
				summary, err := a.game.AttemptSummary(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(attempts) == 0 {
					fmt.Fprintln(out, "No catch attempts yet.")
					return nil
				}

				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "WHEN\tNAME\tSTAGE\tCHANCE\tROLL\tRESULT")
				for _, at := range attempts {
					result := "escaped"
					if at.Success {
						result = "caught"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%s\n",
						at.AttemptedAt.Format("2006-01-02 15:04"), at.Name,
						charts.StageLabel(at.Stage), at.Chance, at.Roll, result)
				}
				fmt.Fprintln(tw)
				fmt.Fprintln(tw, "STAGE\tATTEMPTS\tCAUGHT")
				for _, s := range summary {
					fmt.Fprintf(tw, "%s\t%d\t%d\n", charts.StageLabel(s.Stage), s.Attempts, s.Successes)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of attempts to show")
	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, errors.New("id must be a positive number")
	}
	return id, nil
}

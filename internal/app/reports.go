package app

import (
	"github.com/spf13/cobra"

	"glpiboard/internal/domain"
	"glpiboard/internal/pages"
)

func newBilanCmd(e *env) *cobra.Command {
	var q pages.BilanQuery
	var period string
	cmd := &cobra.Command{
		Use:   "bilan",
		Short: "Incoming and outgoing ticket flows over a period",
		Long: `Show ticket flows per period. Without dates the saved range is used, else
the last 30 days. The period is inferred from the span unless --period is
given. Dates given here are saved for later commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if period != "" {
				g, err := domain.ParseGranularity(period)
				if err != nil {
					return usageError(err)
				}
				q.Period = g
			}
			v, err := pages.NewBilan(e.deps()).Load(cmd.Context(), q)
			if v.Bilan.Data == nil && v.Bilan.Error == "" && err != nil {
				return usageError(err)
			}
			if rerr := e.printer.Bilan(v); rerr != nil {
				return rerr
			}
			return reported(err)
		},
	}
	cmd.Flags().StringVar(&q.From, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&q.To, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&period, "period", "", "day, week, month or quarter")
	return cmd
}

func newCategoriesCmd(e *env) *cobra.Command {
	var (
		scope string
		depth int
	)
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Ticket category tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := pages.NewCategories(e.deps()).Load(cmd.Context(), scope)
			if rerr := e.printer.Categories(v, depth); rerr != nil {
				return rerr
			}
			return reported(err)
		},
	}
	cmd.Flags().StringVar(&scope, "scope", pages.ScopeAll, "category scope sent to the backend")
	cmd.Flags().IntVar(&depth, "depth", 0, "maximum tree depth (0 for all)")
	return cmd
}

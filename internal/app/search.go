package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"glpiboard/internal/client"
	"glpiboard/internal/pages"
)

func newSearchCmd(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text ticket search",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := pages.NewSearch(e.deps()).Query(cmd.Context(), strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			if s.Data == nil || len(*s.Data) == 0 {
				e.printer.Info("Aucun résultat")
				return nil
			}
			return e.printer.Search(*s.Data)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", client.DefaultSearchLimit, "maximum number of results")
	return cmd
}

func newPredictCmd(e *env) *cobra.Command {
	var periods int
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Forecast incoming ticket volume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := pages.NewSearch(e.deps()).Predict(cmd.Context(), periods)
			if err != nil {
				return err
			}
			return e.printer.Prediction(*s.Data)
		},
	}
	cmd.Flags().IntVar(&periods, "periods", client.DefaultPredictionHorizon, "number of periods to forecast")
	return cmd
}

func newTimelineCmd(e *env) *cobra.Command {
	var compare bool
	cmd := &cobra.Command{
		Use:   "timeline [A B]",
		Short: "Stock across imports, optionally comparing two of them",
		Long: `List every import with its open and closed counts. With --compare the two
given imports (default: the last two) are compared ticket by ticket.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return usageError(fmt.Errorf("compare needs two import ids"))
			}
			page := pages.NewTimeline(e.deps())
			v, err := page.Load(cmd.Context())
			if rerr := e.printer.Timeline(v); rerr != nil {
				return rerr
			}
			if err != nil {
				return reported(err)
			}
			if !compare && len(args) == 0 {
				return nil
			}

			a, b := v.DefaultA, v.DefaultB
			if len(args) == 2 {
				if a, err = strconv.ParseInt(args[0], 10, 64); err != nil {
					return usageError(fmt.Errorf("invalid import id %q", args[0]))
				}
				if b, err = strconv.ParseInt(args[1], 10, 64); err != nil {
					return usageError(fmt.Errorf("invalid import id %q", args[1]))
				}
			}
			if a == 0 || b == 0 {
				return nil
			}
			s, err := page.Compare(cmd.Context(), a, b)
			if err != nil {
				return err
			}
			return e.printer.Comparison(*s.Data)
		},
	}
	cmd.Flags().BoolVar(&compare, "compare", false, "compare two imports")
	return cmd
}

package app

import (
	"github.com/spf13/cobra"

	"glpiboard/internal/pages"
)

func newDashboardCmd(e *env) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "KPIs of the active import",
		Long: `Show the dashboard KPIs. Without --from/--to the active import's date range
is used and the granularity is inferred from it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page := pages.NewDashboard(e.deps())
			var (
				v   pages.DashboardView
				err error
			)
			if from != "" || to != "" {
				v, err = page.LoadRange(cmd.Context(), from, to)
			} else {
				v, err = page.Load(cmd.Context())
			}
			if rerr := e.printer.Dashboard(v); rerr != nil {
				return rerr
			}
			return reported(err)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	return cmd
}

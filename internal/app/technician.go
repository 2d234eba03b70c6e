package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"glpiboard/internal/display"
	"glpiboard/internal/pages"
)

func newTechnicianCmd(e *env) *cobra.Command {
	var (
		sortCol string
		asc     bool
	)
	cmd := &cobra.Command{
		Use:   "technician <name>",
		Short: "Open tickets and stock history of one technician",
		Long: `List a technician's open tickets, oldest first, with the recommended action
for each, and the technician's stock across imports. Saved stock filters
apply.

Sort columns: ` + strings.Join(display.TicketColumns(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sort, err := parseSort(sortCol, asc, display.ValidTicketColumn, display.DefaultTicketSort)
			if err != nil {
				return err
			}
			v, err := pages.NewTechnician(e.deps()).Load(cmd.Context(), args[0], sort)
			if rerr := e.printer.Technician(v); rerr != nil {
				return rerr
			}
			return reported(err)
		},
	}
	cmd.Flags().StringVar(&sortCol, "sort", "", "sort column (default ancienneteJours, descending)")
	cmd.Flags().BoolVar(&asc, "asc", false, "sort ascending")
	return cmd
}

func newTicketCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "ticket <id>",
		Short: "Show one ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return usageError(fmt.Errorf("invalid ticket id %q", args[0]))
			}
			s, err := pages.NewSearch(e.deps()).Ticket(cmd.Context(), id)
			if err != nil {
				return err
			}
			e.printer.Ticket(*s.Data)
			return nil
		},
	}
}

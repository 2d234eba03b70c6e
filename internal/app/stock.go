package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"glpiboard/internal/display"
	"glpiboard/internal/pages"
	"glpiboard/internal/store"
)

const defaultPageSize = 25

type filterFlags struct {
	statut, typeTicket, groupe string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.statut, "statut", "", "filter by status (saved for later commands)")
	cmd.Flags().StringVar(&f.typeTicket, "type", "", "filter by type: Incident or Demande (saved)")
	cmd.Flags().StringVar(&f.groupe, "groupe", "", "filter by group (saved)")
}

// apply saves the filters given on the command line; unset flags keep the
// stored value.
func (f *filterFlags) apply(cmd *cobra.Command, st *store.Store) error {
	set := func(name, val string, fn func(*string) error) error {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		if val == "" {
			return fn(nil)
		}
		return fn(&val)
	}
	if err := set("statut", f.statut, st.SetStatut); err != nil {
		return err
	}
	if err := set("type", f.typeTicket, st.SetTypeTicket); err != nil {
		return err
	}
	return set("groupe", f.groupe, st.SetGroupe)
}

func parseSort(column string, asc bool, valid func(string) bool, def display.Sort) (display.Sort, error) {
	if column == "" {
		if asc {
			def.Desc = false
		}
		return def, nil
	}
	if !valid(column) {
		return display.Sort{}, usageError(fmt.Errorf("unknown sort column %q", column))
	}
	return display.Sort{Column: column, Desc: !asc}, nil
}

func newStockCmd(e *env) *cobra.Command {
	var (
		filters  filterFlags
		sortCol  string
		asc      bool
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Open ticket stock by technician",
		Long: `Show the stock overview and the per-technician table. Filters given here
are saved and apply to later stock and technician commands until
"glpiboard filters reset".

Sort columns: ` + strings.Join(display.TechnicianColumns(), ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sort, err := parseSort(sortCol, asc, display.ValidTechnicianColumn, display.DefaultTechnicianSort)
			if err != nil {
				return err
			}
			if err := filters.apply(cmd, e.store); err != nil {
				return err
			}
			v, err := pages.NewStock(e.deps()).Load(cmd.Context(), sort)
			if rerr := e.printer.Stock(v, page, pageSize); rerr != nil {
				return rerr
			}
			return reported(err)
		},
	}
	filters.register(cmd)
	cmd.Flags().StringVar(&sortCol, "sort", "", "sort column (default total, descending)")
	cmd.Flags().BoolVar(&asc, "asc", false, "sort ascending")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", defaultPageSize, "rows per page")
	return cmd
}

func newGroupsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "Open ticket stock by group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := pages.NewStock(e.deps()).LoadGroups(cmd.Context())
			if rerr := e.printer.Groups(s); rerr != nil {
				return rerr
			}
			return reported(err)
		},
	}
}

func newFiltersCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Show or reset the saved stock filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := e.store.Snapshot().Filters
			e.printer.Print("statut : %s", orAll(f.Statut))
			e.printer.Print("type   : %s", orAll(f.TypeTicket))
			e.printer.Print("groupe : %s", orAll(f.Groupe))
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Clear the saved stock filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.store.ResetFilters(); err != nil {
				return err
			}
			e.printer.Success("Filtres réinitialisés")
			return nil
		},
	})
	return cmd
}

func orAll(v *string) string {
	if v == nil {
		return "(tous)"
	}
	return *v
}

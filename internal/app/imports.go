package app

import (
	"github.com/spf13/cobra"

	"glpiboard/internal/importer"
	"glpiboard/internal/pages"
)

func newImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a GLPI CSV export",
		Long: `Import a GLPI CSV export into the backend. Progress is streamed while the
file is parsed; the new import becomes the active one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := pages.NewImport(e.deps())
			page.Tracker.OnChange(func(s importer.Snapshot) {
				e.printer.ImportProgress(s)
			})
			v, err := page.Run(cmd.Context(), args[0])
			if rerr := e.printer.ImportResult(v); rerr != nil {
				return rerr
			}
			return reported(err)
		},
	}
}

func newHistoryCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List imports, the active one marked with *",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := pages.NewImport(e.deps()).LoadHistory(cmd.Context())
			if err != nil {
				return err
			}
			if len(*s.Data) == 0 {
				e.printer.Info("Aucun import enregistré.")
				return nil
			}
			return e.printer.History(*s.Data)
		},
	}
}

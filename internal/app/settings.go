package app

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"glpiboard/internal/domain"
	"glpiboard/internal/pages"
)

func newConfigCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the backend's classification settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Show the backend configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := pages.NewSettings(e.deps()).Load(cmd.Context())
				if err != nil {
					return err
				}
				return e.printer.Config(*s.Data)
			},
		},
		newConfigSetCmd(e),
		newConfigSetStatusesCmd(e),
		&cobra.Command{
			Use:   "validate",
			Short: "Check the local config file and the backend configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				e.printer.Success("Configuration locale valide (backend %s)", e.cfg.BackendURL)
				s, err := pages.NewSettings(e.deps()).Load(cmd.Context())
				if err != nil {
					return err
				}
				if err := s.Data.Validate(); err != nil {
					return err
				}
				e.printer.Success("Configuration du backend valide")
				return nil
			},
		},
	)
	return cmd
}

// thresholdFields maps a settable key to its field in cfg.
func thresholdFields(cfg *domain.AppConfig) map[string]*int {
	return map[string]*int{
		"seuilTicketsTechnicien":  &cfg.SeuilTicketsTechnicien,
		"seuilAncienneteCloturer": &cfg.SeuilAncienneteCloturer,
		"seuilInactiviteCloturer": &cfg.SeuilInactiviteCloturer,
		"seuilAncienneteRelancer": &cfg.SeuilAncienneteRelancer,
		"seuilInactiviteRelancer": &cfg.SeuilInactiviteRelancer,
		"seuilCouleurVert":        &cfg.SeuilCouleurVert,
		"seuilCouleurJaune":       &cfg.SeuilCouleurJaune,
		"seuilCouleurOrange":      &cfg.SeuilCouleurOrange,
	}
}

func thresholdKeys() []string {
	var keys []string
	for k := range thresholdFields(&domain.AppConfig{}) {
		keys = append(keys, k)
	}
	keys = append(keys, "seuilSimilariteDoublons")
	sort.Strings(keys)
	return keys
}

func newConfigSetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one threshold",
		Long:  "Change one threshold. Keys: " + strings.Join(thresholdKeys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := pages.NewSettings(e.deps())
			s, err := page.Load(cmd.Context())
			if err != nil {
				return err
			}
			cfg := *s.Data
			key, val := args[0], args[1]
			if key == "seuilSimilariteDoublons" {
				f, err := strconv.ParseFloat(val, 64)
				if err != nil {
					return usageError(fmt.Errorf("invalid value %q for %s", val, key))
				}
				cfg.SeuilSimilariteDoublons = f
			} else {
				field, ok := thresholdFields(&cfg)[key]
				if !ok {
					return usageError(fmt.Errorf("unknown key %q", key))
				}
				n, err := strconv.Atoi(val)
				if err != nil {
					return usageError(fmt.Errorf("invalid value %q for %s", val, key))
				}
				*field = n
			}
			if _, err := page.Save(cmd.Context(), cfg); err != nil {
				return err
			}
			e.printer.Success("Configuration enregistrée")
			return nil
		},
	}
}

func newConfigSetStatusesCmd(e *env) *cobra.Command {
	var vivants, termines []string
	cmd := &cobra.Command{
		Use:   "set-statuses",
		Short: "Replace the open and/or closed status lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("vivants") && !cmd.Flags().Changed("termines") {
				return usageError(fmt.Errorf("set --vivants and/or --termines"))
			}
			page := pages.NewSettings(e.deps())
			s, err := page.Load(cmd.Context())
			if err != nil {
				return err
			}
			cfg := *s.Data
			if cmd.Flags().Changed("vivants") {
				cfg.StatutsVivants = vivants
			}
			if cmd.Flags().Changed("termines") {
				cfg.StatutsTermines = termines
			}
			if _, err := page.Save(cmd.Context(), cfg); err != nil {
				return err
			}
			e.printer.Success("Statuts enregistrés")
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&vivants, "vivants", nil, "open statuses, comma separated")
	cmd.Flags().StringSliceVar(&termines, "termines", nil, "closed statuses, comma separated")
	return cmd
}

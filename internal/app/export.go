package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"glpiboard/internal/domain"
	"glpiboard/internal/notify"
	"glpiboard/internal/output"
	"glpiboard/internal/pages"
	"glpiboard/internal/schedule"
	"glpiboard/internal/storage/sqlite"
)

func (e *env) notifier() notify.Notifier {
	return notify.New(e.cfg.SlackBotToken, e.cfg.SlackChannelID)
}

func (e *env) runner() *schedule.Runner {
	var n notify.Notifier
	if e.cfg.SlackConfigured() {
		n = e.notifier()
	}
	return &schedule.Runner{
		Exporter: e.client,
		DB:       e.db,
		Notifier: n,
		Dir:      e.cfg.ExportDir,
		Kinds:    e.cfg.ExportKinds,
		Location: e.cfg.Location,
		Now:      e.opts.Now,
	}
}

func (e *env) exportDir() (string, error) {
	if err := os.MkdirAll(e.cfg.ExportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	return e.cfg.ExportDir, nil
}

// runExport performs one manual export, journals it and optionally delivers
// it to Slack.
func (e *env) runExport(ctx context.Context, kind, path string, deliver bool, do func() (domain.ExportResult, error)) error {
	rec := domain.ExportRecord{
		Kind:      kind,
		Path:      path,
		Trigger:   schedule.TriggerManual,
		StartedAt: e.now(),
	}
	res, err := do()
	if err != nil {
		rec.Status = domain.ExportStatusFailed
		rec.Error = err.Error()
	} else {
		rec.Status = domain.ExportStatusOK
		if res.Path != "" {
			rec.Path = res.Path
		}
		rec.SizeBytes = res.SizeBytes
		rec.DurationMs = res.DurationMs
		e.printer.Export(kind, res)
		switch {
		case deliver && !e.cfg.SlackConfigured():
			e.printer.Warning("Slack n'est pas configuré, fichier non envoyé")
		case deliver:
			if derr := e.notifier().Deliver(ctx, rec); derr != nil {
				e.printer.Warning("Envoi Slack impossible : %v", derr)
			} else {
				rec.Delivered = true
				e.printer.Success("Envoyé sur Slack")
			}
		}
	}
	if _, jerr := sqlite.InsertExportRecord(e.db, rec); jerr != nil {
		e.printer.Warning("Journal des exports non mis à jour : %v", jerr)
	}
	return err
}

func newExportCmd(e *env) *cobra.Command {
	var deliver bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write Excel reports into the export directory",
	}
	cmd.PersistentFlags().BoolVar(&deliver, "slack", false, "also upload the file to the configured Slack channel")

	stock := &cobra.Command{
		Use:   "stock",
		Short: "Export the open ticket stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := e.exportDir()
			if err != nil {
				return err
			}
			path := schedule.ExportPath(dir, domain.ExportKindStock, e.now())
			return e.runExport(cmd.Context(), domain.ExportKindStock, path, deliver, func() (domain.ExportResult, error) {
				return e.client.ExportStock(cmd.Context(), path)
			})
		},
	}

	plans := &cobra.Command{
		Use:   "plans",
		Short: "Export every technician's action plan as a zip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := e.exportDir()
			if err != nil {
				return err
			}
			path := schedule.ExportPath(dir, domain.ExportKindPlans, e.now())
			return e.runExport(cmd.Context(), domain.ExportKindPlans, path, deliver, func() (domain.ExportResult, error) {
				return e.client.ExportAllPlans(cmd.Context(), path)
			})
		},
	}

	plan := &cobra.Command{
		Use:   "plan <technician>",
		Short: "Export one technician's action plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := e.exportDir()
			if err != nil {
				return err
			}
			name := args[0]
			path := filepath.Join(dir, pages.PlanFilename(name))
			return e.runExport(cmd.Context(), domain.ExportKindPlan, path, deliver, func() (domain.ExportResult, error) {
				return pages.NewTechnician(e.deps()).ExportPlan(cmd.Context(), dir, name)
			})
		},
	}

	var q pages.BilanQuery
	var period string
	bilan := &cobra.Command{
		Use:   "bilan",
		Short: "Export the activity report over a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if period != "" {
				g, err := domain.ParseGranularity(period)
				if err != nil {
					return usageError(err)
				}
				q.Period = g
			}
			req, err := pages.NewBilan(e.deps()).Resolve(q)
			if err != nil {
				return usageError(err)
			}
			dir, err := e.exportDir()
			if err != nil {
				return err
			}
			path := schedule.ExportPath(dir, domain.ExportKindBilan, e.now())
			return e.runExport(cmd.Context(), domain.ExportKindBilan, path, deliver, func() (domain.ExportResult, error) {
				return e.client.ExportBilan(cmd.Context(), path, req)
			})
		},
	}
	bilan.Flags().StringVar(&q.From, "from", "", "start date (YYYY-MM-DD)")
	bilan.Flags().StringVar(&q.To, "to", "", "end date (YYYY-MM-DD)")
	bilan.Flags().StringVar(&period, "period", "", "day, week, month or quarter")

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduled exports now",
		Long:  "Export every kind listed in export_kinds, deliver them to Slack when configured and journal the run.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := e.exportDir(); err != nil {
				return err
			}
			records, err := e.runner().RunExports(cmd.Context(), schedule.TriggerManual)
			if rerr := e.printer.Journal(records); rerr != nil {
				return rerr
			}
			if err != nil {
				return err
			}
			for _, r := range records {
				if r.Status == domain.ExportStatusFailed {
					return reported(fmt.Errorf("export %s failed", r.Kind))
				}
			}
			return nil
		},
	}

	cmd.AddCommand(stock, plans, plan, bilan, run)
	return cmd
}

func newExportsCmd(e *env) *cobra.Command {
	var (
		limit    int
		from, to string
		stats    bool
	)
	cmd := &cobra.Command{
		Use:   "exports",
		Short: "Show the export journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stats {
				since := e.now().AddDate(0, 0, -30)
				if from != "" {
					t, err := e.parseDay(from)
					if err != nil {
						return usageError(err)
					}
					since = t
				}
				s, err := sqlite.GetExportStats(e.db, since)
				if err != nil {
					return fmt.Errorf("export stats: %w", err)
				}
				return e.printer.ExportStats(s, since)
			}

			var (
				records []domain.ExportRecord
				err     error
			)
			if from != "" || to != "" {
				start, end, perr := e.journalRange(from, to)
				if perr != nil {
					return usageError(perr)
				}
				records, err = sqlite.GetExportsByDateRange(e.db, start, end)
			} else {
				records, err = sqlite.GetRecentExports(e.db, limit)
			}
			if err != nil {
				return fmt.Errorf("read export journal: %w", err)
			}
			if len(records) == 0 {
				e.printer.Info("Aucun export enregistré")
				return nil
			}
			return e.printer.Journal(records)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries")
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day, inclusive (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&stats, "stats", false, "totals since --from (default 30 days)")

	cmd.AddCommand(&cobra.Command{
		Use:   "deliver <id>",
		Short: "Upload a journaled export to Slack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return usageError(fmt.Errorf("invalid export id %q", args[0]))
			}
			if !e.cfg.SlackConfigured() {
				return usageError(fmt.Errorf("slack_bot_token and slack_channel_id are not set"))
			}
			rec, found, err := sqlite.GetExport(e.db, id)
			if err != nil {
				return fmt.Errorf("read export %d: %w", id, err)
			}
			if !found {
				return usageError(fmt.Errorf("export %d not found", id))
			}
			if rec.Status != domain.ExportStatusOK {
				return usageError(fmt.Errorf("export %d failed, nothing to deliver", id))
			}
			if err := e.notifier().Deliver(cmd.Context(), rec); err != nil {
				return err
			}
			if err := sqlite.MarkExportDelivered(e.db, id); err != nil {
				return fmt.Errorf("mark export %d delivered: %w", id, err)
			}
			e.printer.Success("Export %d envoyé sur Slack", id)
			return nil
		},
	})
	return cmd
}

func (e *env) parseDay(s string) (time.Time, error) {
	loc := e.cfg.Location
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(domain.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// journalRange turns inclusive days into a half-open time range. A missing
// bound is open-ended.
func (e *env) journalRange(from, to string) (time.Time, time.Time, error) {
	start := time.Unix(0, 0)
	end := e.now().AddDate(0, 0, 1)
	if from != "" {
		t, err := e.parseDay(from)
		if err != nil {
			return start, end, err
		}
		start = t
	}
	if to != "" {
		t, err := e.parseDay(to)
		if err != nil {
			return start, end, err
		}
		end = t.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		return start, end, fmt.Errorf("--from must not be after --to")
	}
	return start, end, nil
}

func newScheduleCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run exports on export_schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.cfg.ExportSchedule == "" {
				return &output.CLIError{
					Summary:    "export_schedule is not set",
					Suggestion: "ajoutez export_schedule (cron à 5 champs) à la configuration",
					ExitCode:   output.ExitConfig,
				}
			}
			if _, err := e.exportDir(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			e.printer.Info("Exports planifiés (%s) : %v", e.cfg.ExportSchedule, e.cfg.ExportKinds)
			err := e.runner().Start(ctx, e.cfg.ExportSchedule)
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
}

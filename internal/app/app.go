// Package app is the glpiboard command line.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"glpiboard/internal/client"
	"glpiboard/internal/config"
	"glpiboard/internal/domain"
	"glpiboard/internal/httpx"
	"glpiboard/internal/invoke"
	"glpiboard/internal/output"
	"glpiboard/internal/pages"
	"glpiboard/internal/storage/sqlite"
	"glpiboard/internal/store"
)

// Options override the process defaults, mostly for tests.
type Options struct {
	Out, Err io.Writer
	// Transport replaces the HTTP transport to the configured backend.
	Transport invoke.Transport
	Now       func() time.Time
}

type env struct {
	opts Options

	cfgFile   string
	colorMode string
	quiet     bool
	verbose   bool
	started   bool

	cfg     config.Config
	db      *sql.DB
	store   *store.Store
	client  *client.Client
	printer *output.Printer
}

func Main() {
	os.Exit(Execute(Options{}, os.Args[1:]))
}

// Execute runs one command line and returns the process exit code.
func Execute(opts Options, args []string) int {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	root, e := newRoot(opts)
	root.SetArgs(args)
	err := root.Execute()
	e.close()
	if err == nil {
		return output.ExitSuccess
	}

	p := e.printer
	if p == nil {
		p = output.NewPrinter(opts.Out, opts.Err, false, false)
	}
	if !e.started {
		// cobra rejected the command line before any command ran.
		err = usageError(err)
	}
	cliErr := asCLIError(err)
	if cliErr.Summary != "" {
		p.FormatError(cliErr)
	}
	return cliErr.ExitCode
}

func newRoot(opts Options) (*cobra.Command, *env) {
	e := &env{opts: opts}
	root := &cobra.Command{
		Use:   "glpiboard",
		Short: "GLPI ticket analytics in the terminal",
		Long: `glpiboard drives the GLPI analytics backend: import CSV exports, browse
the stock, KPIs, text mining and reports, and schedule Excel exports.

Example usage:
  glpiboard import export.csv   # Import a GLPI CSV export
  glpiboard dashboard           # KPIs of the active import
  glpiboard stock --groupe "_DSI > Support"
  glpiboard bilan --from 2024-01-01 --to 2024-06-30`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e.started = true
			return e.init()
		},
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)

	root.PersistentFlags().StringVar(&e.cfgFile, "config", "", "config file (default is config.yaml or $CONFIG_PATH)")
	root.PersistentFlags().StringVar(&e.colorMode, "color", "auto", "colour output: auto, always or never")
	root.PersistentFlags().BoolVarP(&e.quiet, "quiet", "q", false, "only print errors and tables")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "log backend activity to stderr")

	root.AddCommand(
		newImportCmd(e),
		newHistoryCmd(e),
		newDashboardCmd(e),
		newStockCmd(e),
		newGroupsCmd(e),
		newFiltersCmd(e),
		newTechnicianCmd(e),
		newTicketCmd(e),
		newBilanCmd(e),
		newCategoriesCmd(e),
		newMiningCmd(e),
		newClustersCmd(e),
		newAnomaliesCmd(e),
		newDuplicatesCmd(e),
		newCooccurrenceCmd(e),
		newSearchCmd(e),
		newPredictCmd(e),
		newTimelineCmd(e),
		newConfigCmd(e),
		newExportCmd(e),
		newExportsCmd(e),
		newScheduleCmd(e),
	)
	return root, e
}

func (e *env) init() error {
	if !e.verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(e.opts.Err)
	}

	path := e.cfgFile
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadConfigFile(path)
	if err != nil {
		return &output.CLIError{
			Summary:    "configuration invalide",
			Detail:     err.Error(),
			Suggestion: "corrigez " + path + " ou les variables GLPIBOARD_*",
			ExitCode:   output.ExitConfig,
		}
	}
	e.cfg = cfg

	mode, err := output.ParseColorMode(e.colorMode)
	if err != nil {
		return usageError(err)
	}
	e.printer = output.NewPrinter(e.opts.Out, e.opts.Err, output.ResolveColors(mode, cfg.UseColors()), e.quiet)

	timeout := httpx.ConfigureBackendClient(cfg.HTTPTimeoutSeconds)
	log.Printf("Config loaded. Backend=%s Timeout=%s StateDB=%s ExportDir=%s", cfg.BackendURL, timeout, cfg.StateDBPath, cfg.ExportDir)

	if dir := filepath.Dir(cfg.StateDBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	db, err := sqlite.InitDB(cfg.StateDBPath)
	if err != nil {
		return fmt.Errorf("init state database: %w", err)
	}
	e.db = db
	st, err := store.Open(store.SQLite{DB: db})
	if err != nil {
		return fmt.Errorf("load client state: %w", err)
	}
	e.store = st

	tr := e.opts.Transport
	if tr == nil {
		tr = invoke.NewHTTPTransport(cfg.BackendURL, httpx.BackendClient, httpx.StreamClient)
	}
	e.client = client.New(tr)
	return nil
}

func (e *env) close() {
	if e.db != nil {
		_ = e.db.Close()
	}
}

func (e *env) deps() pages.Deps {
	return pages.Deps{Client: e.client, Store: e.store, Now: e.opts.Now}
}

func (e *env) now() time.Time {
	now := time.Now()
	if e.opts.Now != nil {
		now = e.opts.Now()
	}
	if e.cfg.Location != nil {
		now = now.In(e.cfg.Location)
	}
	return now
}

// reported marks a failure the renderer has already shown.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return &output.CLIError{ExitCode: exitCode(err)}
}

func usageError(err error) error {
	return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
}

func asCLIError(err error) *output.CLIError {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	return &output.CLIError{Summary: invoke.Message(err), ExitCode: exitCode(err)}
}

func exitCode(err error) int {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return output.ExitValidation
	}
	var ie *invoke.Error
	if errors.As(err, &ie) {
		return output.ExitBackend
	}
	return output.ExitGeneral
}

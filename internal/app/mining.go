package app

import (
	"github.com/spf13/cobra"

	"glpiboard/internal/display"
	"glpiboard/internal/domain"
	"glpiboard/internal/pages"
)

type miningFlags struct {
	q pages.MiningQuery
}

func (f *miningFlags) registerCorpus(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.q.Corpus, "corpus", pages.CorpusTitres, "titres or suivis")
}

func (f *miningFlags) registerVivants(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.q.VivantsOnly, "vivants", false, "only open tickets")
}

func newMiningCmd(e *env) *cobra.Command {
	var (
		f    miningFlags
		word string
	)
	cmd := &cobra.Command{
		Use:   "mining",
		Short: "Keyword extraction over ticket titles or follow-ups",
		Long: `Run the text analysis and list the top keywords. With --scope group the
keywords are also broken down by assignment group. --word lists the tickets
containing one keyword.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page := pages.NewMining(e.deps())
			err := page.Analyze(cmd.Context(), f.q)
			v := page.View(f.q)
			if word != "" && v.Analysis.Data != nil {
				return e.printer.DrillDown(word, display.DrillDown(v.Analysis.Data.TicketMap, word))
			}
			if rerr := e.printer.Keywords(v); rerr != nil {
				return rerr
			}
			return reported(err)
		},
	}
	f.registerCorpus(cmd)
	cmd.Flags().StringVar(&f.q.Scope, "scope", pages.ScopeGlobal, "global or group")
	cmd.Flags().IntVar(&f.q.TopN, "top", display.WordCloudSize, "number of keywords")
	cmd.Flags().StringVar(&word, "word", "", "list the tickets containing this keyword")
	return cmd
}

func newClustersCmd(e *env) *cobra.Command {
	var (
		f      miningFlags
		detail int
	)
	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Group tickets by theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page := pages.NewMining(e.deps())
			if cmd.Flags().Changed("detail") {
				s, err := page.LoadClusterDetail(cmd.Context(), f.q, detail)
				if rerr := e.printer.ClusterDetail(s); rerr != nil {
					return rerr
				}
				return reported(err)
			}
			err := page.Cluster(cmd.Context(), f.q)
			if rerr := e.printer.Clusters(page.Clusters.Snapshot()); rerr != nil {
				return rerr
			}
			return reported(err)
		},
	}
	f.registerCorpus(cmd)
	f.registerVivants(cmd)
	cmd.Flags().IntVarP(&f.q.NClusters, "n", "n", 0, "number of clusters (0 lets the backend choose)")
	cmd.Flags().IntVar(&detail, "detail", 0, "show the tickets and indicators of one cluster")
	return cmd
}

func newAnomaliesCmd(e *env) *cobra.Command {
	var f miningFlags
	cmd := &cobra.Command{
		Use:   "anomalies",
		Short: "Tickets out of the norm, most severe first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page := pages.NewMining(e.deps())
			if err := page.DetectAnomalies(cmd.Context(), f.q); err != nil {
				return err
			}
			return e.printer.Anomalies(page.View(f.q).SortedAnomalies)
		},
	}
	f.registerVivants(cmd)
	return cmd
}

func newDuplicatesCmd(e *env) *cobra.Command {
	var f miningFlags
	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Likely duplicate tickets, most similar first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page := pages.NewMining(e.deps())
			if err := page.DetectDuplicates(cmd.Context(), f.q); err != nil {
				return err
			}
			return e.printer.Duplicates(page.View(f.q).SortedDuplicates)
		},
	}
	f.registerVivants(cmd)
	return cmd
}

func newCooccurrenceCmd(e *env) *cobra.Command {
	var (
		nodes, edges int
		resolved     bool
	)
	cmd := &cobra.Command{
		Use:   "cooccurrence",
		Short: "Keyword co-occurrence network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r domain.CooccurrenceRequest
			if cmd.Flags().Changed("nodes") {
				r.TopNNodes = &nodes
			}
			if cmd.Flags().Changed("edges") {
				r.MaxEdges = &edges
			}
			if cmd.Flags().Changed("include-resolved") {
				r.IncludeResolved = &resolved
			}
			s, err := pages.NewMining(e.deps()).LoadCooccurrence(cmd.Context(), r)
			if err != nil {
				return err
			}
			return e.printer.Cooccurrence(*s.Data)
		},
	}
	cmd.Flags().IntVar(&nodes, "nodes", 0, "number of keywords (backend default when unset)")
	cmd.Flags().IntVar(&edges, "edges", 0, "maximum number of links (backend default when unset)")
	cmd.Flags().BoolVar(&resolved, "include-resolved", false, "include resolved tickets")
	return cmd
}

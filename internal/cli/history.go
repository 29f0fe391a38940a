package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/dashboard"
	"github.com/netsentinel/netsentinel/internal/errors"
	"github.com/netsentinel/netsentinel/internal/report"
	"github.com/netsentinel/netsentinel/internal/ui"
)

type historyOptions struct {
	Clear       bool
	Export      string
	FromArchive bool
	Since       time.Duration
	Prune       time.Duration
	Limit       int
	JSON        bool
}

var historyOpts historyOptions

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show, clear or export connection history",
	Long: `Print the most recent history points, newest first.

Fetched points are added to the local archive when archive.path is set, so
--from-archive can chart more than the backend keeps in memory.

Examples:
  netsentinel history
  netsentinel history --limit 20
  netsentinel history --export latency.png
  netsentinel history --from-archive --since 24h --export day.png
  netsentinel history --prune 720h
  netsentinel history --clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			arch, err := s.openArchive(ctx)
			if err != nil {
				return err
			}
			var store historyStore
			if arch != nil {
				defer arch.Close()
				store = arch
			}
			return historyCommand(ctx, cmd.OutOrStdout(), s.client, store, historyOpts)
		})
	},
}

func init() {
	f := historyCmd.Flags()
	f.BoolVar(&historyOpts.Clear, "clear", false, "clear the backend's history buffer")
	f.StringVar(&historyOpts.Export, "export", "", "write a PNG latency chart to this path")
	f.BoolVar(&historyOpts.FromArchive, "from-archive", false, "read from the local archive instead of the backend")
	f.DurationVar(&historyOpts.Since, "since", 0, "with --from-archive, only points newer than this (e.g. 24h)")
	f.DurationVar(&historyOpts.Prune, "prune", 0, "drop archived points older than this (e.g. 720h)")
	f.IntVar(&historyOpts.Limit, "limit", dashboard.ListPoints, "rows to print")
	f.BoolVar(&historyOpts.JSON, "json", false, "output JSON")
	historyCmd.MarkFlagsMutuallyExclusive("clear", "export")
	historyCmd.MarkFlagsMutuallyExclusive("clear", "from-archive")
	historyCmd.MarkFlagsMutuallyExclusive("prune", "clear")
	historyCmd.MarkFlagsMutuallyExclusive("prune", "export")
	historyCmd.MarkFlagsMutuallyExclusive("prune", "from-archive")
	rootCmd.AddCommand(historyCmd)
}

// historyStore is the slice of the archive the history command uses.
type historyStore interface {
	Record(ctx context.Context, points []backend.HistoryDataPoint) (int, error)
	Points(ctx context.Context, since time.Time, limit int) ([]backend.HistoryDataPoint, error)
	Prune(ctx context.Context, before time.Time) (int, error)
	Count(ctx context.Context) (int, error)
}

var errNoArchive = errors.New(errors.ErrArchive,
	"No history archive configured",
	"Set archive.path in your netsentinel.yaml")

func historyCommand(ctx context.Context, w io.Writer, client backend.Backend, store historyStore, opts historyOptions) error {
	if opts.Prune > 0 {
		return pruneHistory(ctx, w, store, opts)
	}

	if opts.Clear {
		if err := client.ClearHistory(ctx); err != nil {
			return backendErr(err, "Couldn't clear history")
		}
		fmt.Fprintln(w, ui.SuccessStyle().Render(ui.SymbolSuccess)+" History cleared")
		return nil
	}

	points, err := loadHistory(ctx, client, store, opts)
	if err != nil {
		if opts.JSON {
			return emitJSON(w, nil, err)
		}
		return err
	}

	if opts.Export != "" {
		title := "Network Latency"
		if opts.FromArchive {
			title += " (archive)"
		}
		if err := report.WriteFile(opts.Export, points, report.Options{Title: title}); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s Wrote %s (%d points)\n", ui.SuccessStyle().Render(ui.SymbolSuccess), opts.Export, len(points))
		return nil
	}

	if opts.JSON {
		return emitJSON(w, points, nil)
	}

	if len(points) == 0 {
		fmt.Fprintln(w, ui.MutedStyle().Render(dashboard.EmptyHistoryHint))
		return nil
	}
	fmt.Fprintln(w, ui.RenderSimpleTable(historyColumns, historyRows(points, opts.Limit)))
	return nil
}

func loadHistory(ctx context.Context, client backend.Backend, store historyStore, opts historyOptions) ([]backend.HistoryDataPoint, error) {
	if opts.FromArchive {
		if store == nil {
			return nil, errNoArchive
		}
		var since time.Time
		if opts.Since > 0 {
			since = time.Now().Add(-opts.Since)
		}
		return store.Points(ctx, since, 0)
	}

	points, err := client.GetNetworkHistory(ctx)
	if err != nil {
		return nil, backendErr(err, "Couldn't fetch history")
	}
	if store != nil {
		// Archiving is a side effect; a failure shouldn't hide the history.
		if _, err := store.Record(ctx, points); err != nil {
			ui.PrintWarning("archive: " + errors.OneLine(err))
		}
	}
	return points, nil
}

type pruneResult struct {
	Pruned    int `json:"pruned"`
	Remaining int `json:"remaining"`
}

// pruneHistory drops archived points older than opts.Prune.
func pruneHistory(ctx context.Context, w io.Writer, store historyStore, opts historyOptions) error {
	res, err := func() (pruneResult, error) {
		if store == nil {
			return pruneResult{}, errNoArchive
		}
		n, err := store.Prune(ctx, time.Now().Add(-opts.Prune))
		if err != nil {
			return pruneResult{}, err
		}
		left, err := store.Count(ctx)
		if err != nil {
			return pruneResult{}, err
		}
		return pruneResult{Pruned: n, Remaining: left}, nil
	}()

	if opts.JSON {
		return emitJSON(w, res, err)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Pruned %d point(s) older than %s (%d left)\n",
		ui.SuccessStyle().Render(ui.SymbolSuccess), res.Pruned, opts.Prune, res.Remaining)
	return nil
}

var historyColumns = []ui.TableColumn{
	{Title: "Time", Width: 10},
	{Title: "Quality", Width: 12},
	{Title: "Latency", Width: 8},
	{Title: "Loss", Width: 7},
	{Title: "Jitter", Width: 7},
}

// historyRows renders the newest limit points, newest first.
func historyRows(points []backend.HistoryDataPoint, limit int) [][]string {
	if limit <= 0 {
		limit = dashboard.ListPoints
	}
	if len(points) > limit {
		points = points[len(points)-limit:]
	}

	rows := make([][]string, 0, len(points))
	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		latency := "--ms"
		if l := p.Latency(); l > 0 {
			latency = fmt.Sprintf("%.0fms", l)
		}
		jitter := "--"
		if p.Quality.Jitter != nil {
			jitter = fmt.Sprintf("%.1fms", *p.Quality.Jitter)
		}
		rows = append(rows, []string{
			p.Timestamp.Local().Format("15:04:05"),
			p.Quality.Label.Display(),
			latency,
			fmt.Sprintf("%.1f%%", p.Quality.AvgPacketLoss),
			jitter,
		})
	}
	return rows
}

package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/croptrack/internal/catalog"
	"git.home.luguber.info/inful/croptrack/internal/config"
	"git.home.luguber.info/inful/croptrack/internal/farming"
	"git.home.luguber.info/inful/croptrack/internal/live"
	"git.home.luguber.info/inful/croptrack/internal/notify"
	"git.home.luguber.info/inful/croptrack/internal/tracker"
)

// runSummary recomputes per-tab summaries from persisted samples and
// prints them. No live values are read and nothing is written.
func runSummary(configPath string, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer func() { _ = store.Close() }()

	tr := tracker.New(cat, store, live.NewStaticSource(), notify.SlogNotifier{}, nil, cfg.Profile)
	tr.Reset()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TAB\tSTATE\tCOMPLETION")
	for _, report := range tr.Report() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", report.Tab, report.State, formatCompletion(report))
	}
	return w.Flush()
}

func formatCompletion(report tracker.TabReport) string {
	switch {
	case report.CompletionTime == farming.UnknownCompletionTime:
		return "-"
	case report.State == farming.SummaryCompleted:
		return "done"
	default:
		return time.Unix(report.CompletionTime, 0).UTC().Format(time.RFC3339)
	}
}

package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wsynab/wsynab/internal/config"
	"github.com/wsynab/wsynab/internal/dom"
	"github.com/wsynab/wsynab/internal/export"
	"github.com/wsynab/wsynab/internal/extract"
	"github.com/wsynab/wsynab/internal/metrics"
	"github.com/wsynab/wsynab/internal/model"
	"github.com/wsynab/wsynab/internal/rules"
	"github.com/wsynab/wsynab/internal/runlog"
	"github.com/wsynab/wsynab/internal/snapshot"
)

// stdStream names stdin as a source and stdout as the output.
const stdStream = "-"

type exportOptions struct {
	outDir   string
	toStdout bool
	noRename bool
	archive  bool
	asOf     string
}

func newExportCommand(g *globalFlags) *cobra.Command {
	opts := exportOptions{}

	cmd := &cobra.Command{
		Use:   "export [snapshot.html ...]",
		Short: "Extract transactions from saved activity pages into a YNAB CSV",
		Long: "Extract transactions from saved Wealthsimple activity pages, apply the " +
			"payee rename rules and write Wealthsimple.csv. With no arguments every " +
			"snapshot in the import directory is exported. Use - to read stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load()
			if err != nil {
				return err
			}
			return runExport(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cfg, logger, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.outDir, "out", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&opts.toStdout, "stdout", false, "write the CSV to stdout instead of a file")
	cmd.Flags().BoolVar(&opts.noRename, "no-rename", false, "skip the payee rename rules")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "move exported snapshots to the processed directory")
	cmd.Flags().StringVar(&opts.asOf, "as-of", "", "date the snapshot was saved (YYYY-MM-DD); resolves Today and Yesterday")

	return cmd
}

// source is one snapshot to export.
type source struct {
	name    string
	path    string
	scanned bool // found in the import directory
	entries int
	skipped int
}

func runExport(ctx context.Context, in io.Reader, out io.Writer, cfg *config.Config, logger zerolog.Logger, args []string, opts exportOptions) error {
	sources, err := resolveSources(cfg, args)
	if err != nil {
		return err
	}

	extractor := extract.New(logger)
	if opts.asOf != "" {
		asOf, err := time.ParseInLocation(time.DateOnly, opts.asOf, time.Local)
		if err != nil {
			return fmt.Errorf("parsing --as-of: %w", err)
		}
		extractor.Now = func() time.Time { return asOf }
	}

	var entries []model.YnabEntry
	var stats extract.Stats
	for i := range sources {
		src := &sources[i]
		root, err := loadSource(in, src)
		if err != nil {
			return err
		}
		found, s := extractor.ExtractWithStats(root)
		src.entries = s.Entries
		src.skipped = s.SkippedEntries()
		stats.Add(s)
		entries = append(entries, found...)

		logger.Info().
			Str("source", src.name).
			Int("entries", s.Entries).
			Int("skipped", src.skipped).
			Int("cancelled", s.Cancelled).
			Msg("extracted snapshot")
	}

	renamed := 0
	if !opts.noRename {
		entries, renamed = renameEntries(ctx, cfg, logger, entries)
	}

	var saver export.FileSaver
	output := stdStream
	if opts.toStdout {
		saver = export.WriterSaver{W: out}
	} else {
		dir := cfg.Export.Dir
		if opts.outDir != "" {
			dir = opts.outDir
		}
		ds := export.DirSaver{Dir: dir, Name: cfg.Export.FileName}
		saver = ds
		output = ds.Path(export.FileName)
	}
	if err := export.Download(saver, entries); err != nil {
		return err
	}
	logger.Info().Int("entries", len(entries)).Int("renamed", renamed).Str("output", output).Msg("export written")

	if err := recordRun(cfg, sources, output); err != nil {
		logger.Warn().Err(err).Msg("failed to write run log")
	}

	if cfg.Metrics.Textfile != "" {
		rec := metrics.New()
		rec.Observe(stats, renamed)
		if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn().Err(err).Msg("failed to write metrics")
		}
	}

	if opts.archive || cfg.Import.Archive {
		for _, src := range sources {
			if !src.scanned {
				continue
			}
			if err := snapshot.MarkProcessed(cfg.Import.Dir, src.name); err != nil {
				return fmt.Errorf("archiving snapshot: %w", err)
			}
		}
	}

	if !opts.toStdout {
		fmt.Fprintf(out, "Exported %d transactions to %s\n", len(entries), output)
	}
	return nil
}

func resolveSources(cfg *config.Config, args []string) ([]source, error) {
	if len(args) > 0 {
		sources := make([]source, 0, len(args))
		for _, a := range args {
			sources = append(sources, source{name: a, path: a})
		}
		return sources, nil
	}

	files, err := snapshot.Scan(cfg.Import.Dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no snapshots found in %s", cfg.Import.Dir)
	}
	sources := make([]source, 0, len(files))
	for _, f := range files {
		sources = append(sources, source{name: f.Name, path: f.Path, scanned: true})
	}
	return sources, nil
}

func loadSource(in io.Reader, src *source) (dom.Node, error) {
	if src.path != stdStream {
		return snapshot.Load(src.path)
	}
	root, err := dom.Parse(in)
	if err != nil {
		return nil, fmt.Errorf("parsing stdin: %w", err)
	}
	return root, nil
}

// renameEntries applies the stored rules. A settings load failure leaves
// the entries unrenamed rather than failing the export.
func renameEntries(ctx context.Context, cfg *config.Config, logger zerolog.Logger, entries []model.YnabEntry) ([]model.YnabEntry, int) {
	store, closeStore, err := openSettings(ctx, cfg, logger)
	if closeStore != nil {
		defer closeStore()
	}
	if err != nil {
		logger.Warn().Err(err).Msg("exporting without rename rules")
		return entries, 0
	}

	for _, msg := range store.Validate() {
		logger.Warn().Str("error", msg.Label).Msg("rename rule is invalid and will be skipped")
	}
	return rules.RenameAll(store.Rules(), entries)
}

func recordRun(cfg *config.Config, sources []source, output string) error {
	if cfg.Export.RunLog == "" {
		return nil
	}
	now := time.Now()
	rows := make([]runlog.Entry, 0, len(sources))
	for _, src := range sources {
		rows = append(rows, runlog.Entry{
			Timestamp: now,
			Source:    src.name,
			Entries:   src.entries,
			Skipped:   src.skipped,
			Output:    output,
		})
	}
	return runlog.New(cfg.Export.RunLog).Append(rows...)
}

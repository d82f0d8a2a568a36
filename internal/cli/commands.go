package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gettext-scanner/internal/graph"
	"gettext-scanner/internal/scanner"
	"gettext-scanner/internal/snapshot"
	"gettext-scanner/internal/translation"
	"gettext-scanner/internal/watch"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the source tree and write the missing strings to the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			showProgress, _ := cmd.Flags().GetBool("progress")

			o, err := newOrchestrator(cmd, cfg, func(sc *scanner.Config) {
				if showProgress {
					sc.Progress = progressReporter(cmd.ErrOrStderr())
				}
			})
			if err != nil {
				return err
			}

			if _, err := o.LoadExisting(); err != nil {
				return err
			}
			n, err := o.Scan()
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), o, n)
			return nil
		},
	}
	cmd.Flags().Bool("progress", false, "Show a per-file progress bar")
	return cmd
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload the catalogs and rescan from scratch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := newOrchestrator(cmd, loadConfig(cmd))
			if err != nil {
				return err
			}
			n, err := o.Refresh()
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), o, n)
			return nil
		},
	}
}

func scanFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan-file <file>",
		Short: "Rescan one file and merge it into the last scan index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := newOrchestrator(cmd, loadConfig(cmd))
			if err != nil {
				return err
			}
			if err := loadState(o); err != nil {
				return err
			}
			n, err := o.ScanFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rescanned %s, %d translatable strings pending\n", args[0], n)
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the pending strings with their source locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := newOrchestrator(cmd, loadConfig(cmd))
			if err != nil {
				return err
			}
			if err := loadState(o); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range o.Entries() {
				hrefs := make([]string, len(e.Anchors))
				for i, a := range e.Anchors {
					hrefs[i] = a.String()
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", e.ID, e.Function, strings.Join(hrefs, " "))
			}
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <msgid>",
		Short: "Drop a string from the scan index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := newOrchestrator(cmd, loadConfig(cmd))
			if err != nil {
				return err
			}
			if err := loadState(o); err != nil {
				return err
			}
			if err := o.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q, %d translatable strings pending\n", args[0], o.Len())
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <msgid>",
		Short: "Append a pending string to the default.po catalog of each locale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			cfg := loadConfig(cmd)
			translate := cfg.GoogleTranslateEnabled
			if cmd.Flags().Changed("translate") {
				translate, _ = cmd.Flags().GetBool("translate")
			}

			var release func()
			o, err := newOrchestrator(cmd, cfg, func(sc *scanner.Config) {
				if !translate {
					return
				}
				tr, rel, terr := newTranslator(ctx, cfg)
				release = rel
				if terr != nil {
					log.Warn().Err(terr).Msg("Translation cache unavailable, continuing without persistence")
					tr = translation.NewGoogleClient(true, cfg.SourceLocale)
				}
				sc.Translator = tr
			})
			if release != nil {
				defer release()
			}
			if err != nil {
				return err
			}
			if err := loadState(o); err != nil {
				return err
			}

			locales, _ := cmd.Flags().GetStringSlice("locale")
			if len(locales) == 0 {
				if locales, err = o.Locales(); err != nil {
					return err
				}
			}

			written, err := o.AppendToCatalog(ctx, args[0], locales, translate)
			for _, path := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "Appended %q to %s\n", args[0], displayPath(path))
			}
			return err
		},
	}
	cmd.Flags().StringSlice("locale", nil, "Target locales, all catalog locales when empty")
	cmd.Flags().Bool("translate", false, "Fill msgstr with a machine translation (GOOGLE_TRANSLATE_ENABLED)")
	return cmd
}

func localesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List the locales found under the catalog root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := newOrchestrator(cmd, loadConfig(cmd))
			if err != nil {
				return err
			}
			locales, err := o.Locales()
			if err != nil {
				return err
			}
			for _, l := range locales {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Scan once, then rescan files as they are saved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			o, err := newOrchestrator(cmd, loadConfig(cmd))
			if err != nil {
				return err
			}
			n, err := o.Refresh()
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), o, n)

			return runWatch(ctx, o, nil)
		},
	}
}

// runWatch rescans files under the scan directory as they change until ctx
// is cancelled. seen, when set, is called with every change received.
func runWatch(ctx context.Context, o *scanner.Orchestrator, seen func(watch.Change)) error {
	w, err := watch.NewWatcher(o.Config().ScanDir, ".git")
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if dataDir := o.Config().DataDir; dataDir != "" {
		w.Ignore(dataDir)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Stop()

	log.Info().Str("dir", w.Dir).Msg("Watching for changes")
	for {
		select {
		case <-ctx.Done():
			return nil
		case change := <-w.Changes:
			if seen != nil {
				seen(change)
			}
			applyChange(o, change)
		}
	}
}

func applyChange(o *scanner.Orchestrator, change watch.Change) {
	if ownArtifact(o, change.File) {
		return
	}

	var err error
	switch change.Kind {
	case watch.ChangeWritten:
		_, err = o.ScanFile(change.File)
	case watch.ChangeRemoved:
		_, err = o.RemoveFile(change.File)
	}
	if err != nil && !errors.Is(err, scanner.ErrPathNotFound) {
		log.Error().Err(err).Str("file", change.File).Str("change", change.Kind.String()).Msg("Rescan failed")
	}
}

// ownArtifact reports whether file is written by the scanner itself.
func ownArtifact(o *scanner.Orchestrator, file string) bool {
	if snapshot.IsTempFile(file) {
		return true
	}
	dataDir := o.Config().DataDir
	return dataDir != "" && (file == dataDir || strings.HasPrefix(file, dataDir+string(filepath.Separator)))
}

func graphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the scan index to Neo4j",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			cfg := loadConfig(cmd)
			o, err := newOrchestrator(cmd, cfg)
			if err != nil {
				return err
			}
			if err := loadState(o); err != nil {
				return err
			}

			driver, err := openNeo4j(ctx, cfg)
			if err != nil {
				return err
			}
			defer driver.Close(ctx)

			exporter := graph.NewExporter(driver)
			if err := exporter.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("ensure graph schema: %w", err)
			}
			if err := exporter.Export(ctx, o.Entries()); err != nil {
				return fmt.Errorf("export graph: %w", err)
			}

			file, _ := cmd.Flags().GetString("file")
			if file == "" {
				return nil
			}
			occs, err := graph.NewQuerier(driver).MsgIDsInFile(ctx, file)
			if err != nil {
				return err
			}
			for _, oc := range occs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", oc.Anchor.String(), oc.ID)
			}
			return nil
		},
	}
	cmd.Flags().String("file", "", "After exporting, print the strings anchored in this file (anchor path)")
	return cmd
}

func printSummary(w io.Writer, o *scanner.Orchestrator, n int) {
	cfg := o.Config()
	fmt.Fprintf(w, "Scanned %s, found %d translatable strings\n", displayPath(cfg.ScanDir), n)
	if cfg.DataDir != "" {
		fmt.Fprintf(w, "Wrote %s\n", displayPath(filepath.Join(cfg.DataDir, snapshot.FragmentFile)))
	}
}

// progressReporter draws a progress bar sized on the first file reported.
func progressReporter(w io.Writer) scanner.ProgressFunc {
	var bar *progressbar.ProgressBar
	return func(path string, done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}))
		}
		bar.Describe(fmt.Sprintf("[cyan]%s[reset]", filepath.Base(path)))
		_ = bar.Set(done)
		if done == total {
			_ = bar.Finish()
			fmt.Fprintln(w)
		}
	}
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gettext-scanner/internal/cache"
	"gettext-scanner/internal/config"
	"gettext-scanner/internal/parser"
	"gettext-scanner/internal/scanner"
	"gettext-scanner/internal/translation"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gettext-scanner",
		Short:         "Find gettext strings missing from translation catalogs",
		Long:          "Scans a source tree for gettext call sites, skips identifiers already present in the .po catalogs and emits the rest as a catalog fragment.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.Bool("verbose", false, "Enable debug logging")
	flags.String("root", "", "Workspace root (GETTEXT_ROOT)")
	flags.String("scan-path", "", "Source tree to scan, relative to root (GETTEXT_SCAN_PATH)")
	flags.String("po-path", "", "Catalog root, relative to root (GETTEXT_PO_FILES_PATH)")
	flags.String("data-dir", "", "Output directory for snapshots and the fragment (GETTEXT_DATA_DIR)")
	flags.StringSlice("ext", nil, "File extensions to scan, empty for all (GETTEXT_FILE_EXTENSIONS)")
	flags.StringSlice("functions", nil, "Gettext function names (GETTEXT_FUNCTIONS)")
	flags.String("pattern", "", "Custom call-site regexp with (?P<function>) and (?P<msgid>) groups")
	flags.Int("workers", 0, "Concurrent translation lookups (WORKER_COUNT)")

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(refreshCmd())
	rootCmd.AddCommand(scanFileCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(localesCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(graphCmd())

	return rootCmd
}

// loadConfig reads the environment and applies any flags the user set.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	flags := cmd.Flags()

	if flags.Changed("root") {
		cfg.Root, _ = flags.GetString("root")
	}
	if flags.Changed("scan-path") {
		cfg.ScanPath, _ = flags.GetString("scan-path")
	}
	if flags.Changed("po-path") {
		cfg.POFilesPath, _ = flags.GetString("po-path")
	}
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("ext") {
		cfg.FileExtensions, _ = flags.GetStringSlice("ext")
	}
	if flags.Changed("functions") {
		cfg.Functions, _ = flags.GetStringSlice("functions")
	}
	if flags.Changed("workers") {
		cfg.WorkerCount, _ = flags.GetInt("workers")
	}
	return cfg
}

// newOrchestrator builds an Orchestrator for the configured workspace.
func newOrchestrator(cmd *cobra.Command, cfg *config.Config, mutate ...func(*scanner.Config)) (*scanner.Orchestrator, error) {
	pattern, _ := cmd.Flags().GetString("pattern")

	sc := scanner.Config{
		ScanDir:    cfg.Resolve(cfg.ScanPath),
		CatalogDir: cfg.Resolve(cfg.POFilesPath),
		DataDir:    cfg.Resolve(cfg.DataDir),
		AnchorBase: cfg.Root,
		Parser: parser.Options{
			Functions:  cfg.Functions,
			Extensions: cfg.FileExtensions,
			Pattern:    pattern,
		},
		SkipDirs: []string{".git"},
		Workers:  cfg.WorkerCount,
	}
	for _, m := range mutate {
		m(&sc)
	}

	o, err := scanner.New(sc)
	if err != nil {
		return nil, fmt.Errorf("create scanner: %w", err)
	}
	return o, nil
}

// loadState prepares an Orchestrator for commands that act on an existing
// scan index: the catalogs are loaded and the last snapshot restored, with a
// full scan when there is none.
func loadState(o *scanner.Orchestrator) error {
	if _, err := o.LoadExisting(); err != nil {
		return err
	}
	restored, err := o.Restore()
	if err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	if restored {
		log.Debug().Time("scanned_at", o.LastScan()).Int("msgids", o.Len()).Msg("Restored scan index")
		return nil
	}
	_, err = o.Scan()
	return err
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// newTranslator builds the Google client backed by the translation cache.
// The cache is persisted in PostgreSQL when DATABASE_URL is set. The
// returned func releases the database pool.
func newTranslator(ctx context.Context, cfg *config.Config) (translation.Translator, func(), error) {
	release := func() {}

	translationCache := cache.NewTranslationCache(nil)
	if cfg.DatabaseURL != "" {
		pgPool, err := openPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, release, err
		}
		release = pgPool.Close

		translationCache = cache.NewTranslationCache(pgPool)
		if err := translationCache.EnsureSchema(ctx); err != nil {
			return nil, release, fmt.Errorf("ensure cache schema: %w", err)
		}
		if err := translationCache.Preload(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to preload cache")
		}
	}

	client := translation.NewGoogleClient(true, cfg.SourceLocale, translation.WithCache(translationCache))
	return client, release, nil
}

func openPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pgPool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}

	if err := pgPool.Ping(ctx); err != nil {
		pgPool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")
	return pgPool, nil
}

func openNeo4j(ctx context.Context, cfg *config.Config) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("connect Neo4j: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("verify Neo4j connectivity: %w", err)
	}
	log.Info().Msg("Connected to Neo4j")
	return driver, nil
}

// displayPath shortens p relative to the working directory when possible.
func displayPath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	if rel, err := filepath.Rel(wd, p); err == nil && !filepath.IsAbs(rel) && rel != "" && rel[0] != '.' {
		return rel
	}
	return p
}

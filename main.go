package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"housing-scraper/config"
	"housing-scraper/db"
	"housing-scraper/fetcher"
	"housing-scraper/parser"
	"housing-scraper/pipeline"
	"housing-scraper/report"
	"housing-scraper/sheets"
	"housing-scraper/storage"
)

func main() {
	fs := newFlagSet()
	fs.Parse(os.Args[1:])

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Failed to load .env file: %v\n", err)
	}

	cfg, err := loadConfig(fs.Lookup("config").Value.String())
	if err != nil {
		log.Fatalf("Error: %v\n", err)
	}
	if err := applyFlags(cfg, fs); err != nil {
		log.Fatalf("Error: %v\n", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Error: Invalid configuration: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := report.NewReporter(os.Stdout, cfg.Output.PreviewRows)

	p, cleanup, err := buildPipeline(ctx, cfg, reporter)
	if err != nil {
		log.Fatalf("Error: %v\n", err)
	}
	defer cleanup()

	if _, err := p.Run(ctx); err != nil {
		reporter.Failure(err)
		cleanup()
		os.Exit(1)
	}
}

// newFlagSet defines the command line flags. Only flags given on the
// command line override the configuration.
func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.String("config", "config.yaml", "Path to configuration file")
	fs.String("url", "", "Search URL to scrape (overrides config)")
	fs.Int("start", 0, "First page to scrape (overrides config)")
	fs.Int("end", 0, "Last page to scrape, inclusive (overrides config)")
	fs.String("output", "", "CSV output path (overrides config)")
	fs.String("engine", "", "Extraction engine: css or xpath (overrides config)")
	fs.Bool("strict", false, "Abort on the first malformed listing")
	return fs
}

// applyFlags copies the flags set on the command line over cfg, so they win
// over defaults, the config file and the environment
func applyFlags(cfg *config.Config, fs *flag.FlagSet) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		value := f.Value.String()
		switch f.Name {
		case "url":
			cfg.Site.BaseURL = value
		case "start":
			cfg.Site.StartPage, err = strconv.Atoi(value)
		case "end":
			cfg.Site.EndPage, err = strconv.Atoi(value)
		case "output":
			cfg.Output.CSVPath = value
		case "engine":
			cfg.Parser.Engine = value
		case "strict":
			cfg.Parser.Strict, err = strconv.ParseBool(value)
		}
		if err != nil {
			err = fmt.Errorf("invalid -%s value %q: %w", f.Name, value, err)
		}
	})
	return err
}

// loadConfig loads configuration from file or defaults, then applies the environment
func loadConfig(configPath string) (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		log.Println("Config file not found. Using default configuration.")
		cfg = config.GetDefaultConfig()
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildPipeline wires the configured components. The returned cleanup closes
// optional connections and is safe to call more than once.
func buildPipeline(ctx context.Context, cfg *config.Config, reporter *report.Reporter) (*pipeline.Pipeline, func(), error) {
	extractor, err := parser.NewExtractor(cfg.Parser)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	p := &pipeline.Pipeline{
		BaseURL:   cfg.Site.BaseURL,
		StartPage: cfg.Site.StartPage,
		EndPage:   cfg.Site.EndPage,
		Fetcher: fetcher.NewCollyFetcher(
			fetcher.WithUserAgent(cfg.Fetch.UserAgent),
			fetcher.WithTimeout(cfg.Fetch.Timeout),
			fetcher.WithObserver(reporter),
		),
		Parser: parser.NewParser(extractor, parser.Options{
			Origin: cfg.SiteOrigin(),
			Strict: cfg.Parser.Strict,
		}),
		Writer:   storage.NewCSVWriter(cfg.Output.CSVPath),
		Reporter: reporter,
	}

	if cfg.Sheets.SpreadsheetURL != "" {
		spreadsheetID := sheets.ExtractSpreadsheetID(cfg.Sheets.SpreadsheetURL)
		if spreadsheetID == "" {
			log.Printf("Warning: Could not extract spreadsheet ID from URL: %s\n", cfg.Sheets.SpreadsheetURL)
		} else if writer, err := sheets.NewWriter(ctx, spreadsheetID, cfg.Sheets.CredentialsPath); err != nil {
			log.Printf("Warning: Failed to initialize Google Sheets writer: %v\n", err)
		} else {
			log.Printf("Google Sheets writer initialized for spreadsheet: %s\n", spreadsheetID)
			p.Sheets = writer
		}
	}

	closed := false
	cleanup := func() {}
	if cfg.Database.URL != "" || db.EnvConfigured() {
		database, err := db.NewDB(ctx, cfg.Database.URL)
		if err != nil {
			log.Printf("Warning: Failed to initialize database: %v\n", err)
		} else {
			p.Store = database
			cleanup = func() {
				if closed {
					return
				}
				closed = true
				if err := database.Close(); err != nil {
					log.Printf("Warning: Failed to close database: %v\n", err)
				}
			}
		}
	}

	return p, cleanup, nil
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Parser engines understood by the parser package
const (
	EngineCSS   = "css"
	EngineXPath = "xpath"
)

// Config represents the scraper configuration
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Parser   ParserConfig   `yaml:"parser"`
	Output   OutputConfig   `yaml:"output"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	Database DatabaseConfig `yaml:"database"`
}

// SiteConfig describes the site being scraped and the page range
type SiteConfig struct {
	BaseURL   string `yaml:"base_url"`
	Origin    string `yaml:"origin"`
	StartPage int    `yaml:"start_page"`
	EndPage   int    `yaml:"end_page"`
}

// FetchConfig holds HTTP client settings. Zero values keep the client defaults.
type FetchConfig struct {
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ParserConfig selects the extraction engine and its selectors
type ParserConfig struct {
	Engine    string         `yaml:"engine"`
	Strict    bool           `yaml:"strict"`
	Selectors SelectorConfig `yaml:"selectors"`
	XPath     SelectorConfig `yaml:"xpath"`
}

// SelectorConfig holds the three markup lookups needed per listing
type SelectorConfig struct {
	Container  string `yaml:"container"`
	Link       string `yaml:"link"`
	Attributes string `yaml:"attributes"`
}

// OutputConfig controls the CSV file and console preview
type OutputConfig struct {
	CSVPath     string `yaml:"csv_path"`
	PreviewRows int    `yaml:"preview_rows"`
}

// SheetsConfig enables the optional Google Sheets export when SpreadsheetURL is set
type SheetsConfig struct {
	SpreadsheetURL  string `yaml:"spreadsheet_url"`
	CredentialsPath string `yaml:"credentials_path"`
}

// DatabaseConfig enables the optional Postgres export when URL is set
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// LoadConfig loads configuration from a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Site.BaseURL = "https://housinganywhere.com/s/Berlin--Germany"
	cfg.Site.Origin = "https://housinganywhere.com"
	cfg.Site.StartPage = 1
	cfg.Site.EndPage = 1

	cfg.Parser.Engine = EngineCSS
	cfg.Parser.Selectors = SelectorConfig{
		Container:  "div.MuiGrid-root",
		Link:       "a.makeStyles-cardLink-214.makeStyles-link-24",
		Attributes: "ul.MuiList-root",
	}
	cfg.Parser.XPath = SelectorConfig{
		Container:  "//div[contains(concat(' ', normalize-space(@class), ' '), ' MuiGrid-root ')]",
		Link:       ".//a[contains(concat(' ', normalize-space(@class), ' '), ' makeStyles-cardLink-214 ') and contains(concat(' ', normalize-space(@class), ' '), ' makeStyles-link-24 ')]",
		Attributes: ".//ul[contains(concat(' ', normalize-space(@class), ' '), ' MuiList-root ')]",
	}

	cfg.Output.CSVPath = "output/housing.csv"
	cfg.Output.PreviewRows = 5
	return cfg
}

// ApplyEnv overrides settings from HOUSING_* and DATABASE_URL environment variables
func (c *Config) ApplyEnv() error {
	c.Site.BaseURL = getEnvOrDefault("HOUSING_BASE_URL", c.Site.BaseURL)
	c.Site.Origin = getEnvOrDefault("HOUSING_ORIGIN", c.Site.Origin)
	c.Output.CSVPath = getEnvOrDefault("HOUSING_OUTPUT", c.Output.CSVPath)
	c.Sheets.SpreadsheetURL = getEnvOrDefault("HOUSING_SPREADSHEET_URL", c.Sheets.SpreadsheetURL)
	c.Database.URL = getEnvOrDefault("DATABASE_URL", c.Database.URL)

	var err error
	if c.Site.StartPage, err = getEnvInt("HOUSING_START_PAGE", c.Site.StartPage); err != nil {
		return err
	}
	if c.Site.EndPage, err = getEnvInt("HOUSING_END_PAGE", c.Site.EndPage); err != nil {
		return err
	}
	return nil
}

// Validate checks the settings the pipeline cannot run without.
// The page range is left to the pipeline, which reports it as a failed extraction.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL %q", c.Site.BaseURL)
	}
	switch NormalizeEngine(c.Parser.Engine) {
	case EngineCSS, EngineXPath:
	default:
		return fmt.Errorf("unknown parser engine %q", c.Parser.Engine)
	}
	if c.Output.CSVPath == "" {
		return fmt.Errorf("output path is empty")
	}
	return nil
}

// NormalizeEngine lowercases an engine name; an empty name means EngineCSS
func NormalizeEngine(engine string) string {
	engine = strings.ToLower(strings.TrimSpace(engine))
	if engine == "" {
		return EngineCSS
	}
	return engine
}

// SiteOrigin returns the scheme and host used to absolutize listing links.
// It falls back to the origin of the base URL.
func (c *Config) SiteOrigin() string {
	if c.Site.Origin != "" {
		return c.Site.Origin
	}
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return n, nil
}

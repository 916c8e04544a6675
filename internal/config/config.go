// Package config holds the run configuration for quotatab: defaults,
// QUOTATAB_* environment variables, and command-line flags, in that
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModePDF  = "pdf"
	ModeHTML = "html"

	// Default values
	DefaultDocumentURL   = "https://www.mhlw.go.jp/content/000491511.pdf"
	DefaultPages         = "all"
	DefaultAutoStartPage = 2
	DefaultPDFEngine     = "auto"
	DefaultLatticeURL    = "http://127.0.0.1:8735/extract"
	DefaultSheetTitle    = "更新情報一覧"
	DefaultCredentials   = "./service_account.json"
	DefaultJSONDir       = "./json_out"
	DefaultLogLevel      = "info"
)

// pagesSelector accepts "all", single pages, ranges, and comma-joined
// mixes of both ("2-10", "2,4,9", "1,3-5").
var pagesSelector = regexp.MustCompile(`^(all|\d+(-\d+)?(,\d+(-\d+)?)*)$`)

// Config holds all configuration for a quotatab run.
type Config struct {
	// Extraction configuration
	Mode          string // "pdf" or "html"
	DocumentURL   string
	Pages         string
	ExcludePages  []int
	AutoPageRange bool
	AutoStartPage int
	PDFEngine     string
	LatticeURL    string
	IframeFirst   bool

	// Spreadsheet configuration
	SpreadsheetID   string
	SheetTitle      string
	CredentialsFile string

	// Output configuration
	DumpJSON bool
	JSONDir  string
	DryRun   bool

	// Application configuration
	LogLevel string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:            ModePDF,
		DocumentURL:     DefaultDocumentURL,
		Pages:           DefaultPages,
		AutoStartPage:   DefaultAutoStartPage,
		PDFEngine:       DefaultPDFEngine,
		LatticeURL:      DefaultLatticeURL,
		IframeFirst:     true,
		SheetTitle:      DefaultSheetTitle,
		CredentialsFile: DefaultCredentials,
		JSONDir:         DefaultJSONDir,
		LogLevel:        DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
// A positional argument, when present, overrides the document URL.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	if err := populateConfigFromViper(cfg); err != nil {
		return nil, err
	}

	if pflag.NArg() > 0 {
		cfg.DocumentURL = pflag.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and
// defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("QUOTATAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("url", cfg.DocumentURL)
	viper.SetDefault("pages", cfg.Pages)
	viper.SetDefault("exclude-pages", "")
	viper.SetDefault("auto-page-range", cfg.AutoPageRange)
	viper.SetDefault("auto-start-page", cfg.AutoStartPage)
	viper.SetDefault("pdf-engine", cfg.PDFEngine)
	viper.SetDefault("lattice-url", cfg.LatticeURL)
	viper.SetDefault("iframe-first", cfg.IframeFirst)
	viper.SetDefault("spreadsheet", cfg.SpreadsheetID)
	viper.SetDefault("sheet", cfg.SheetTitle)
	viper.SetDefault("credentials", cfg.CredentialsFile)
	viper.SetDefault("dump-json", cfg.DumpJSON)
	viper.SetDefault("json-dir", cfg.JSONDir)
	viper.SetDefault("dry-run", cfg.DryRun)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Document source: 'pdf' or 'html'")
	pflag.String("url", cfg.DocumentURL, "Document URL (a positional argument overrides this)")
	pflag.String("pages", cfg.Pages, `Page selector: "all", "2-10", "2,4,9"`)
	pflag.String("exclude-pages", "", "Comma-separated page numbers to skip")
	pflag.Bool("auto-page-range", cfg.AutoPageRange, "Replace the page selector with <auto-start-page>-<last page>")
	pflag.Int("auto-start-page", cfg.AutoStartPage, "First page of the automatic page range")
	pflag.String("pdf-engine", cfg.PDFEngine, "PDF inspection engine: 'pdfcpu', 'ledongthuc', or 'auto'")
	pflag.String("lattice-url", cfg.LatticeURL, "Lattice table-extraction service endpoint")
	pflag.Bool("iframe-first", cfg.IframeFirst, "Follow the first iframe of the HTML page before parsing (html mode)")
	pflag.String("spreadsheet", cfg.SpreadsheetID, "Destination spreadsheet id")
	pflag.String("sheet", cfg.SheetTitle, "Destination worksheet title")
	pflag.String("credentials", cfg.CredentialsFile, "Service-account credentials JSON file")
	pflag.Bool("dump-json", cfg.DumpJSON, "Also write the record list as JSON")
	pflag.String("json-dir", cfg.JSONDir, "Directory for the JSON dump")
	pflag.Bool("dry-run", cfg.DryRun, "Skip the spreadsheet append")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "url", "pages", "exclude-pages", "auto-page-range",
		"auto-start-page", "pdf-engine", "lattice-url", "iframe-first",
		"spreadsheet", "sheet", "credentials", "dump-json", "json-dir",
		"dry-run", "loglevel",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message.
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s [flags] [document-url]:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nquotatab - extract cosmetic-ingredient usage limits into a spreadsheet\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                    # default MHLW PDF, all pages\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --pages=2-12 https://.../doc.pdf   # explicit document and pages\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=html --dry-run              # HTML source, no sheet write\n", os.Args[0])
	}
}

// populateConfigFromViper fills the config struct with values from
// viper.
func populateConfigFromViper(cfg *Config) error {
	cfg.Mode = viper.GetString("mode")
	cfg.DocumentURL = viper.GetString("url")
	cfg.Pages = viper.GetString("pages")
	cfg.AutoPageRange = viper.GetBool("auto-page-range")
	cfg.AutoStartPage = viper.GetInt("auto-start-page")
	cfg.PDFEngine = viper.GetString("pdf-engine")
	cfg.LatticeURL = viper.GetString("lattice-url")
	cfg.IframeFirst = viper.GetBool("iframe-first")
	cfg.SpreadsheetID = viper.GetString("spreadsheet")
	cfg.SheetTitle = viper.GetString("sheet")
	cfg.CredentialsFile = viper.GetString("credentials")
	cfg.DumpJSON = viper.GetBool("dump-json")
	cfg.JSONDir = viper.GetString("json-dir")
	cfg.DryRun = viper.GetBool("dry-run")
	cfg.LogLevel = viper.GetString("loglevel")

	exclude, err := ParsePageList(viper.GetString("exclude-pages"))
	if err != nil {
		return fmt.Errorf("invalid exclude-pages: %w", err)
	}
	cfg.ExcludePages = exclude
	return nil
}

// ParsePageList parses a comma-separated page number list ("1,3,12").
// An empty string is an empty list.
func ParsePageList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var pages []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid page number %q", part)
		}
		pages = append(pages, n)
	}
	return pages, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Mode != ModePDF && c.Mode != ModeHTML {
		return errors.New("mode must be either 'pdf' or 'html'")
	}

	if c.DocumentURL == "" {
		return errors.New("document URL cannot be empty")
	}

	if !pagesSelector.MatchString(c.Pages) {
		return fmt.Errorf("invalid page selector: %q", c.Pages)
	}

	if c.AutoPageRange && c.AutoStartPage < 1 {
		return errors.New("auto start page must be at least 1")
	}

	if c.Mode == ModePDF && c.LatticeURL == "" {
		return errors.New("lattice service URL cannot be empty in pdf mode")
	}

	if !c.DryRun {
		if c.SpreadsheetID == "" {
			return errors.New("spreadsheet id is required unless --dry-run is set")
		}
		if c.CredentialsFile == "" {
			return errors.New("credentials file cannot be empty")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// ExcludeSet returns the excluded pages as a lookup set.
func (c *Config) ExcludeSet() map[int]bool {
	set := make(map[int]bool, len(c.ExcludePages))
	for _, p := range c.ExcludePages {
		set[p] = true
	}
	return set
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, DocumentURL: %s, Pages: %s, Sheet: %s, DryRun: %t, LogLevel: %s}",
		c.Mode, c.DocumentURL, c.Pages, c.SheetTitle, c.DryRun, c.LogLevel)
}

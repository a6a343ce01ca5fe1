package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/YeomansIII/dompower"
	"github.com/go-openapi/strfmt"
)

// Config contains configuration for the exporter. Flags override values
// loaded from the optional YAML config file.
type Config struct {
	Account        string    `yaml:"account"`
	Meter          string    `yaml:"meter"`
	TokenFile      string    `yaml:"tokenFile"`
	OutputCSV      string    `yaml:"out"`
	RawFile        string    `yaml:"raw"`
	CacheDirectory string    `yaml:"cache"`
	Start          time.Time `yaml:"-"`
	End            time.Time `yaml:"-"`
}

// envOrString returns the environment variable value if set, otherwise returns the default value.
func envOrString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func parseFlags() *Config {
	configFile := flag.String("config", envOrString("DOMPOWER_CONFIG", ""), "Optional YAML config file")
	account := flag.String("account", envOrString("DOMPOWER_ACCOUNT", ""), "Dominion account number")
	meter := flag.String("meter", envOrString("DOMPOWER_METER", ""), "Meter number")
	tokenFile := flag.String("tokens", envOrString("DOMPOWER_TOKEN_FILE", ""), "JSON file holding the access/refresh token pair")
	outCSV := flag.String("out", envOrString("OUTPUT_CSV", ""), "Output CSV file")
	rawFile := flag.String("raw", "", "Save the untouched xlsx export to this file instead of writing CSV")
	cacheDir := flag.String("cache", envOrString("CACHE_DIR", ""), "Directory for HTTP cache ('disable' to disable, empty for temporary directory)")
	startDate := flag.String("start", "", "Start date (YYYY-MM-DD, defaults to 7 days ago)")
	endDate := flag.String("end", "", "End date (YYYY-MM-DD, defaults to today)")
	flag.Parse()

	config := &Config{}
	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			log.Fatalf("Failed to read config file: %v", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			log.Fatalf("Invalid config file %s: %v", *configFile, err)
		}
	}

	if *account != "" {
		config.Account = *account
	}
	if *meter != "" {
		config.Meter = *meter
	}
	if *tokenFile != "" {
		config.TokenFile = *tokenFile
	}
	if *outCSV != "" {
		config.OutputCSV = *outCSV
	}
	if *rawFile != "" {
		config.RawFile = *rawFile
	}
	if *cacheDir != "" {
		config.CacheDirectory = *cacheDir
	}

	if config.TokenFile == "" {
		config.TokenFile = "tokens.json"
	}
	if config.OutputCSV == "" {
		config.OutputCSV = "usage.csv"
	}
	if config.CacheDirectory == "" {
		config.CacheDirectory = "disable"
	}

	if config.Account == "" || config.Meter == "" {
		log.Fatalf("Required flags missing. Usage: %s -account=... -meter=... [-start=... -end=...]", os.Args[0])
	}

	config.End = time.Now()
	config.Start = config.End.AddDate(0, 0, -7)
	if *startDate != "" {
		parsed, err := time.Parse("2006-01-02", *startDate)
		if err != nil {
			log.Fatalf("Invalid start date: %v", err)
		}
		config.Start = parsed
	}
	if *endDate != "" {
		parsed, err := time.Parse("2006-01-02", *endDate)
		if err != nil {
			log.Fatalf("Invalid end date: %v", err)
		}
		config.End = parsed
	}

	return config
}

func main() {
	config := parseFlags()

	pair, err := loadTokens(config.TokenFile)
	if err != nil {
		log.Fatalf("Failed to load tokens from %s: %v (log in via a browser and seed the file)", config.TokenFile, err)
	}

	rt := http.RoundTripper(http.DefaultTransport)
	if config.CacheDirectory != "disable" {
		cacheDir := config.CacheDirectory
		if cacheDir == "" {
			cacheDir = os.TempDir()
		}
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			log.Fatalf("Failed to create cache dir: %v", err)
		}

		rt = &dompower.CachingRoundTripper{
			UnderlyingTransport: http.DefaultTransport, CacheDir: path.Clean(cacheDir),
		}

		log.Printf("HTTP caching enabled in directory: %s", cacheDir)
	}

	client := dompower.NewClient(rt, dompower.Options{
		Tokens: pair,
		OnRotate: func(access, refresh string) {
			if err := saveTokens(config.TokenFile, access, refresh); err != nil {
				log.Printf("Failed to save rotated tokens: %v", err)
			}
		},
	})

	rng := dompower.DateRange{Start: strfmt.Date(config.Start), End: strfmt.Date(config.End)}
	log.Printf("Using date range %s - %s", config.Start.Format("2006-01-02"), config.End.Format("2006-01-02"))

	ctx := context.Background()

	if config.RawFile != "" {
		doc, err := client.GetRawDocument(ctx, config.Account, config.Meter, rng)
		if err != nil {
			log.Fatalf("Failed to download usage export: %v", err)
		}
		if err := os.WriteFile(config.RawFile, doc, 0644); err != nil {
			log.Fatalf("Failed to write raw export: %v", err)
		}
		log.Printf("Wrote raw export to %s", config.RawFile)
		return
	}

	records, err := client.GetIntervalUsage(ctx, config.Account, config.Meter, rng)
	if err != nil {
		log.Fatalf("Failed to fetch interval usage: %v", err)
	}
	log.Printf("Fetched %d interval records", len(records))

	if err := writeCSV(config.OutputCSV, records); err != nil {
		log.Fatalf("Failed to write CSV: %v", err)
	}
	log.Printf("Wrote CSV to %s", config.OutputCSV)
}

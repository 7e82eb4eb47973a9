// Package config loads docgen settings. Sources are applied in order, later
// ones winning: built-in defaults, an optional YAML file, .env files, then the
// process environment.
//
// Environment variables:
//   - DOCGEN_DB_DRIVER ("sqlite" or "postgres"), DOCGEN_DB_DSN
//   - DOCGEN_CONCURRENCY, DOCGEN_STRICT_SCHEMA, DOCGEN_UPLOAD_DIR
//   - DOCGEN_COMPOSE_TIMEOUT (Go duration), DOCGEN_CHROME_BIN
//   - DOCGEN_LOG_LEVEL, DOCGEN_LOG_FORMAT ("text" or "json")
//   - DOCGEN_OTEL_ENDPOINT, DOCGEN_OTEL_INSECURE, DOCGEN_SERVICE_NAME
//   - DOCGEN_TEMPLATES_DIR, DOCGEN_PRESETS_FILE
//   - ARTIFACT_STORAGE_TYPE ("fs", "memory", "s3", "gcs"), DATA_DIR
//   - ARTIFACT_S3_BUCKET, ARTIFACT_S3_REGION (or AWS_REGION),
//     ARTIFACT_S3_ENDPOINT, ARTIFACT_S3_PREFIX
//   - ARTIFACT_GCS_BUCKET, ARTIFACT_GCS_PREFIX
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-legaldocs/pkg/artifacts"
)

// Config holds every docgen setting.
type Config struct {
	Database     Database         `yaml:"database"`
	Artifacts    artifacts.Config `yaml:"artifacts"`
	Concurrency  int              `yaml:"concurrency"`
	StrictSchema bool             `yaml:"strict_schema"`
	UploadDir    string           `yaml:"upload_dir"`
	Compose      Compose          `yaml:"compose"`
	Log          Log              `yaml:"log"`
	Telemetry    Telemetry        `yaml:"telemetry"`
	// TemplatesDir replaces the bundled catalog with one on disk.
	TemplatesDir string `yaml:"templates_dir"`
	PresetsFile  string `yaml:"presets_file"`
}

type Database struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type Compose struct {
	Timeout   time.Duration `yaml:"timeout"`
	ChromeBin string        `yaml:"chrome_bin"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Telemetry configures OpenTelemetry export. An empty endpoint disables it.
type Telemetry struct {
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Database:    Database{Driver: "sqlite", DSN: "docgen.db"},
		Artifacts:   artifacts.Config{Type: artifacts.StoreTypeFS, Dir: "data"},
		Concurrency: 4,
		UploadDir:   "uploads",
		Compose:     Compose{Timeout: 60 * time.Second},
		Log:         Log{Level: "info", Format: "text"},
		Telemetry:   Telemetry{ServiceName: "docgen"},
	}
}

// Options selects the sources Load reads.
type Options struct {
	// File is a YAML config file. Empty skips it.
	File string
	// EnvFiles are .env files. Missing files are ignored. Nil reads ".env".
	EnvFiles []string
	// LookupEnv reads the environment. Nil uses os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load builds the configuration.
func Load(opts Options) (Config, error) {
	cfg := Defaults()

	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", opts.File, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", opts.File, err)
		}
	}

	dotenv, err := readEnvFiles(opts.EnvFiles)
	if err != nil {
		return Config{}, err
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	if files == nil {
		files = []string{".env"}
	}
	out := map[string]string{}
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
		for k, v := range values {
			if _, seen := out[k]; !seen {
				out[k] = v
			}
		}
	}
	return out, nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, env lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := env(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("DOCGEN_DB_DRIVER", &cfg.Database.Driver)
	str("DOCGEN_DB_DSN", &cfg.Database.DSN)
	str("DOCGEN_UPLOAD_DIR", &cfg.UploadDir)
	str("DOCGEN_CHROME_BIN", &cfg.Compose.ChromeBin)
	str("DOCGEN_LOG_LEVEL", &cfg.Log.Level)
	str("DOCGEN_LOG_FORMAT", &cfg.Log.Format)
	str("DOCGEN_OTEL_ENDPOINT", &cfg.Telemetry.Endpoint)
	str("DOCGEN_SERVICE_NAME", &cfg.Telemetry.ServiceName)
	str("DOCGEN_TEMPLATES_DIR", &cfg.TemplatesDir)
	str("DOCGEN_PRESETS_FILE", &cfg.PresetsFile)

	var storeType string
	str("ARTIFACT_STORAGE_TYPE", &storeType)
	if storeType != "" {
		cfg.Artifacts.Type = artifacts.StoreType(strings.ToLower(storeType))
	}
	str("DATA_DIR", &cfg.Artifacts.Dir)
	str("AWS_REGION", &cfg.Artifacts.S3Region)
	str("ARTIFACT_S3_REGION", &cfg.Artifacts.S3Region)
	str("ARTIFACT_S3_BUCKET", &cfg.Artifacts.S3Bucket)
	str("ARTIFACT_S3_ENDPOINT", &cfg.Artifacts.S3Endpoint)
	str("ARTIFACT_S3_PREFIX", &cfg.Artifacts.S3Prefix)
	str("ARTIFACT_GCS_BUCKET", &cfg.Artifacts.GCSBucket)
	str("ARTIFACT_GCS_PREFIX", &cfg.Artifacts.GCSPrefix)

	if v, ok := env("DOCGEN_CONCURRENCY"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: DOCGEN_CONCURRENCY: %w", err)
		}
		cfg.Concurrency = n
	}
	if v, ok := env("DOCGEN_STRICT_SCHEMA"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: DOCGEN_STRICT_SCHEMA: %w", err)
		}
		cfg.StrictSchema = b
	}
	if v, ok := env("DOCGEN_OTEL_INSECURE"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: DOCGEN_OTEL_INSECURE: %w", err)
		}
		cfg.Telemetry.Insecure = b
	}
	if v, ok := env("DOCGEN_COMPOSE_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: DOCGEN_COMPOSE_TIMEOUT: %w", err)
		}
		cfg.Compose.Timeout = d
	}
	return nil
}

// Validate rejects settings no component can work with.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "sqlite3", "postgres", "postgresql", "pq":
	default:
		errs = append(errs, fmt.Errorf("config: unsupported database driver %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, errors.New("config: database dsn is required"))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("config: concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.Compose.Timeout < 0 {
		errs = append(errs, errors.New("config: compose timeout cannot be negative"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: unsupported log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Package config loads the probe configuration once at start-up from
// defaults, an optional TOML file, .env files and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/papercomputeco/vertexprobe/pkg/llm"
)

const (
	DefaultLocation       = "asia-south1"
	DefaultModel          = "gemini-1.5-flash"
	DefaultPrompt         = "Write a short motivational quote for students facing stress."
	DefaultPort           = "8080"
	DefaultMoodCollection = "mood_logs"
)

// Environment variables recognised by Load.
const (
	EnvProject         = "GOOGLE_CLOUD_PROJECT"
	EnvLocation        = "GOOGLE_CLOUD_LOCATION"
	EnvModel           = "GEMINI_MODEL"
	EnvCredentials     = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvPrompt          = "PROBE_PROMPT"
	EnvPort            = "PORT"
	EnvDBPath          = "PROBE_DB_PATH"
	EnvMoodCollection  = "MOOD_COLLECTION"
	EnvTemperature     = "CHAT_TEMPERATURE"
	EnvTopP            = "CHAT_TOP_P"
	EnvMaxOutputTokens = "CHAT_MAX_OUTPUT_TOKENS"
)

// Config is the full, immutable configuration of a run. It is passed by value
// into the components that need it and never re-read mid-call.
type Config struct {
	// Project identifies the billing / resource scope.
	Project string `toml:"project"`

	// Location selects the regional endpoint.
	Location string `toml:"location"`

	// Model selects the hosted model variant.
	Model string `toml:"model"`

	// CredentialsFile is a service account key. Empty means Application
	// Default Credentials.
	CredentialsFile string `toml:"credentials_file"`

	// Prompt is the fixed prompt sent by the probe.
	Prompt string `toml:"prompt"`

	Server Server `toml:"server"`
}

// Server configures the HTTP API.
type Server struct {
	Port string `toml:"port"`

	// DBPath is the path to the SQLite database file.
	// Empty means an in-memory store.
	DBPath string `toml:"db_path"`

	MoodCollection string `toml:"mood_collection"`

	// Chat holds the sampling options used by /api/chat.
	Chat llm.Options `toml:"chat"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	temp, topP, maxTokens := 0.9, 0.95, 512
	return Config{
		Location: DefaultLocation,
		Model:    DefaultModel,
		Prompt:   DefaultPrompt,
		Server: Server{
			Port:           DefaultPort,
			MoodCollection: DefaultMoodCollection,
			Chat: llm.Options{
				Temperature:     &temp,
				TopP:            &topP,
				MaxOutputTokens: &maxTokens,
			},
		},
	}
}

// Request builds the probe's generation request.
func (c Config) Request() llm.GenerationRequest {
	return llm.GenerationRequest{
		Project: c.Project,
		Region:  c.Location,
		Model:   c.Model,
		Prompt:  c.Prompt,
	}
}

// Validate checks the values every generation call needs.
func (c Config) Validate() error {
	var errs []error
	if c.Project == "" {
		errs = append(errs, fmt.Errorf("project is required (set %s or project in the config file)", EnvProject))
	}
	if c.Location == "" {
		errs = append(errs, fmt.Errorf("location is required (set %s)", EnvLocation))
	}
	if c.Model == "" {
		errs = append(errs, fmt.Errorf("model is required (set %s)", EnvModel))
	}
	return errors.Join(errs...)
}

// Loader reads configuration sources in increasing precedence:
// defaults, ConfigFile, EnvFiles, then LookupEnv.
type Loader struct {
	// ConfigFile is an optional TOML file. It must exist when set.
	ConfigFile string

	// EnvFiles are dotenv files. Missing files are skipped; earlier files
	// take precedence over later ones.
	EnvFiles []string

	// LookupEnv reads the process environment. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// Load merges every source into a Config.
func (l Loader) Load() (Config, error) {
	cfg := Default()

	if l.ConfigFile != "" {
		if _, err := toml.DecodeFile(l.ConfigFile, &cfg); err != nil {
			return cfg, fmt.Errorf("could not read config file %s: %w", l.ConfigFile, err)
		}
	}

	dotenv, err := l.readEnvFiles()
	if err != nil {
		return cfg, err
	}

	lookupEnv := l.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	lookup := func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}

	setString(lookup, EnvProject, &cfg.Project)
	setString(lookup, EnvLocation, &cfg.Location)
	setString(lookup, EnvModel, &cfg.Model)
	setString(lookup, EnvCredentials, &cfg.CredentialsFile)
	setString(lookup, EnvPrompt, &cfg.Prompt)
	setString(lookup, EnvPort, &cfg.Server.Port)
	setString(lookup, EnvDBPath, &cfg.Server.DBPath)
	setString(lookup, EnvMoodCollection, &cfg.Server.MoodCollection)

	if err := setFloat(lookup, EnvTemperature, &cfg.Server.Chat.Temperature); err != nil {
		return cfg, err
	}
	if err := setFloat(lookup, EnvTopP, &cfg.Server.Chat.TopP); err != nil {
		return cfg, err
	}
	if err := setInt(lookup, EnvMaxOutputTokens, &cfg.Server.Chat.MaxOutputTokens); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// readEnvFiles parses dotenv files without touching the process environment.
func (l Loader) readEnvFiles() (map[string]string, error) {
	merged := make(map[string]string)
	for _, path := range l.EnvFiles {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}

		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("could not read env file %s: %w", path, err)
		}
		for k, v := range values {
			if _, seen := merged[k]; !seen {
				merged[k] = v
			}
		}
	}
	return merged, nil
}

func setString(lookup func(string) (string, bool), key string, dst *string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setFloat(lookup func(string) (string, bool), key string, dst **float64) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = &f
	return nil
}

func setInt(lookup func(string) (string, bool), key string, dst **int) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = &n
	return nil
}

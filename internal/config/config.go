package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"ruby/internal/actions"
	"ruby/internal/appdirs"
	"ruby/internal/nlu"
	"ruby/internal/oracle"
	"ruby/internal/proxy"
)

type AssistantConfig struct {
	Name      string   `toml:"name"`
	Greeting  string   `toml:"greeting"`
	Farewells []string `toml:"farewells"`
}

type OracleConfig struct {
	Enabled        bool   `toml:"enabled"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	APIKey         string `toml:"api_key,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Proxy          string `toml:"proxy,omitempty"`
}

type SpeechConfig struct {
	Engines []string `toml:"engines"`
	Rate    int      `toml:"rate"`
	Voice   string   `toml:"voice,omitempty"`
	PauseMS int      `toml:"pause_ms"`
	Echo    bool     `toml:"echo"`
	Mute    bool     `toml:"mute"`
}

type NotesConfig struct {
	Dir         string `toml:"dir"`
	DefaultFile string `toml:"default_file"`
}

type CountdownConfig struct {
	Sound  string `toml:"sound,omitempty"`
	Notify bool   `toml:"notify"`
}

type SysinfoConfig struct {
	CPUSampleMS int    `toml:"cpu_sample_ms"`
	DiskPath    string `toml:"disk_path"`
}

type IntentConfig struct {
	Name    string   `toml:"name"`
	Phrases []string `toml:"phrases"`
}

type AppConfig struct {
	Keywords []string `toml:"keywords"`
	Label    string   `toml:"label"`
	Darwin   []string `toml:"darwin,omitempty"`
	Linux    []string `toml:"linux,omitempty"`
	Windows  []string `toml:"windows,omitempty"`
}

type Config struct {
	Assistant AssistantConfig `toml:"assistant"`
	Oracle    OracleConfig    `toml:"oracle"`
	Speech    SpeechConfig    `toml:"speech"`
	Notes     NotesConfig     `toml:"notes"`
	Countdown CountdownConfig `toml:"countdown"`
	Sysinfo   SysinfoConfig   `toml:"sysinfo"`
	Intents   []IntentConfig  `toml:"intents,omitempty"`
	Apps      []AppConfig     `toml:"apps"`
}

var (
	ErrNoFarewells = errors.New("assistant.farewells must not be empty")
	ErrBadTimeout  = errors.New("oracle.timeout_seconds must be positive")
	ErrBadNotes    = errors.New("notes.default_file must not be empty")
)

func Default() Config {
	return Config{
		Assistant: AssistantConfig{
			Name:      "Ruby",
			Greeting:  "Hi, I am Ruby, your personal virtual assistant.| Even though i am still a project under progress, how shall i assist you today?",
			Farewells: []string{"bye", "quit", "exit"},
		},
		Oracle: OracleConfig{
			Enabled:        true,
			BaseURL:        oracle.DefaultBaseURL,
			Model:          oracle.DefaultModel,
			TimeoutSeconds: int(nlu.DefaultTimeout / time.Second),
		},
		Speech: SpeechConfig{
			Engines: []string{"espeak-ng", "espeak", "say", "spd-say"},
			Rate:    180,
			Echo:    true,
		},
		Notes: NotesConfig{
			Dir:         ".",
			DefaultFile: "notes.txt",
		},
		Countdown: CountdownConfig{
			Notify: true,
		},
		Sysinfo: SysinfoConfig{
			CPUSampleMS: 1000,
			DiskPath:    "/",
		},
		Apps: defaultApps(),
	}
}

func defaultApps() []AppConfig {
	return []AppConfig{
		{
			Keywords: []string{"spotify"}, Label: "Spotify",
			Darwin: []string{"open", "-a", "Spotify"}, Linux: []string{"spotify"},
			Windows: []string{"cmd", "/c", "start", "", "spotify:"},
		},
		{
			Keywords: []string{"chrome"}, Label: "Chrome",
			Darwin: []string{"open", "-a", "Google Chrome"}, Linux: []string{"google-chrome"},
			Windows: []string{"cmd", "/c", "start", "", "chrome"},
		},
		{
			Keywords: []string{"brave"}, Label: "Brave",
			Darwin: []string{"open", "-a", "Brave"}, Linux: []string{"brave-browser"},
			Windows: []string{"cmd", "/c", "start", "", "brave"},
		},
		{
			Keywords: []string{"calc", "calculator"}, Label: "Calculator",
			Darwin: []string{"open", "-a", "Calculator"}, Linux: []string{"gnome-calculator"},
			Windows: []string{"calc"},
		},
		{
			Keywords: []string{"notes"}, Label: "Notes",
			Darwin: []string{"open", "-a", "Notes"}, Linux: []string{"gnome-text-editor"},
			Windows: []string{"notepad"},
		},
	}
}

// Load reads path, or the per-user config file when path is empty. A missing
// file yields the defaults.
func Load(path string) (Config, string, error) {
	if path == "" {
		p, err := appdirs.ConfigFilePath()
		if err != nil {
			return Config{}, "", err
		}
		path = p
	}

	cfg := Default()
	bytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, path, nil
	}
	if err != nil {
		return Config{}, "", fmt.Errorf("could not read config file: %w", err)
	}

	// lists in the file replace the defaults instead of extending them
	defaults := cfg
	cfg.Assistant.Farewells = nil
	cfg.Speech.Engines = nil
	cfg.Apps = nil
	if err := toml.Unmarshal(bytes, &cfg); err != nil {
		return Config{}, "", fmt.Errorf("could not parse config file: %w", err)
	}
	if cfg.Assistant.Farewells == nil {
		cfg.Assistant.Farewells = defaults.Assistant.Farewells
	}
	if cfg.Speech.Engines == nil {
		cfg.Speech.Engines = defaults.Speech.Engines
	}
	if cfg.Apps == nil {
		cfg.Apps = defaults.Apps
	}
	return cfg, path, nil
}

// ApplyEnv overrides file settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("RUBY_ORACLE_URL"); v != "" {
		c.Oracle.BaseURL = v
	}
	if v := getenv("RUBY_ORACLE_MODEL"); v != "" {
		c.Oracle.Model = v
	}
	if v := getenv("OPENAI_API_KEY"); v != "" {
		c.Oracle.APIKey = v
	}
	if v := getenv("RUBY_ORACLE_DISABLED"); v != "" {
		if disabled, err := strconv.ParseBool(v); err == nil {
			c.Oracle.Enabled = !disabled
		}
	}
	if v := getenv("RUBY_NOTES_DIR"); v != "" {
		c.Notes.Dir = v
	}
}

func (c Config) Validate() error {
	if len(c.FarewellWords()) == 0 {
		return ErrNoFarewells
	}
	if c.Oracle.Enabled && c.Oracle.TimeoutSeconds <= 0 {
		return ErrBadTimeout
	}
	if strings.TrimSpace(c.Notes.DefaultFile) == "" {
		return ErrBadNotes
	}
	if _, err := c.Vocabulary(); err != nil {
		return fmt.Errorf("intents: %w", err)
	}
	return nil
}

func (c Config) FarewellWords() []string {
	out := make([]string, 0, len(c.Assistant.Farewells))
	for _, w := range c.Assistant.Farewells {
		if w = nlu.Normalize(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func (c Config) OracleTimeout() time.Duration {
	return time.Duration(c.Oracle.TimeoutSeconds) * time.Second
}

func (c Config) SpeechPause() time.Duration {
	return time.Duration(c.Speech.PauseMS) * time.Millisecond
}

func (c Config) CPUSample() time.Duration {
	return time.Duration(c.Sysinfo.CPUSampleMS) * time.Millisecond
}

// Vocabulary builds the intent map, falling back to the built-in one when the
// file declares no intents.
func (c Config) Vocabulary() (nlu.Vocabulary, error) {
	if len(c.Intents) == 0 {
		return nlu.DefaultVocabulary(), nil
	}

	entries := make([]nlu.Entry, len(c.Intents))
	for i, in := range c.Intents {
		entries[i] = nlu.Entry{Intent: nlu.Intent(in.Name), Phrases: in.Phrases}
	}
	return nlu.NewVocabulary(entries)
}

// AppCatalog resolves the command of every app for goos.
func (c Config) AppCatalog(goos string) actions.Catalog {
	apps := make([]actions.App, 0, len(c.Apps))
	for _, a := range c.Apps {
		var cmd []string
		switch goos {
		case "darwin":
			cmd = a.Darwin
		case "windows":
			cmd = a.Windows
		default:
			cmd = a.Linux
		}
		apps = append(apps, actions.App{Keywords: a.Keywords, Label: a.Label, Command: cmd})
	}
	return actions.NewCatalog(apps)
}

func (c Config) OracleClient() (*oracle.Client, error) {
	httpClient, err := proxy.NewHTTPClient(c.Oracle.Proxy, c.OracleTimeout())
	if err != nil {
		return nil, err
	}
	return oracle.NewClient(oracle.Config{
		BaseURL:    c.Oracle.BaseURL,
		Model:      c.Oracle.Model,
		APIKey:     c.Oracle.APIKey,
		HTTPClient: httpClient,
	}), nil
}

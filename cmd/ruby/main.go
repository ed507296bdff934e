package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"ruby/internal/actions"
	"ruby/internal/assistant"
	"ruby/internal/config"
	"ruby/internal/nlu"
	"ruby/internal/notify"
	"ruby/internal/tts"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	configPath := cli.StringP("config", "c", "", "Config file path")
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "warn", "Log level")
	noLLM := cli.Bool("no-llm", false, "Disable the generative fallback")
	mute := cli.Bool("mute", false, "Print replies instead of speaking them")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Debug("Booting up")

	if err := godotenv.Load(*envFile); err != nil {
		log.Debug("No env file", "path", *envFile, "err", err)
	}

	cfg, path, err := config.Load(*configPath)
	if err != nil {
		log.Error("Failed to load config", "path", path, "err", err)
		os.Exit(1)
	}
	cfg.ApplyEnv(os.Getenv)
	if *noLLM {
		cfg.Oracle.Enabled = false
	}
	if *mute {
		cfg.Speech.Mute = true
	}
	if err := cfg.Validate(); err != nil {
		log.Error("Invalid config", "path", path, "err", err)
		os.Exit(1)
	}

	log.Debug("Loaded config", "path", path)

	resolver, err := newResolver(cfg)
	if err != nil {
		log.Error("Failed to build resolver", "err", err)
		os.Exit(1)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		log.Warn("No home directory, folders open relative to cwd", "err", err)
		home = "."
	}

	a, err := assistant.New(assistant.Deps{
		Resolver:  resolver,
		Speaker:   newSpeaker(cfg),
		Prompter:  assistant.NewLinePrompter(os.Stdin, os.Stdout),
		Out:       os.Stdout,
		Notebook:  actions.NewNotebook(cfg.Notes.Dir, cfg.Notes.DefaultFile),
		Apps:      cfg.AppCatalog(runtime.GOOS),
		Launcher:  actions.ExecLauncher{},
		Countdown: actions.Countdown{},
		Alarm: notify.Alarm{
			Title:   cfg.Assistant.Name,
			Sound:   cfg.Countdown.Sound,
			Desktop: cfg.Countdown.Notify,
		},
		SystemInfo: func(ctx context.Context) []actions.Field {
			return actions.CollectSystemInfo(ctx, actions.SysinfoOptions{
				CPUSample: cfg.CPUSample(),
				DiskPath:  cfg.Sysinfo.DiskPath,
			})
		},
		Greeting:  cfg.Assistant.Greeting,
		Farewells: cfg.FarewellWords(),
		Home:      home,
		GOOS:      runtime.GOOS,
	})
	if err != nil {
		log.Error("Failed to build assistant", "err", err)
		os.Exit(1)
	}

	log.Debug("Boot up - successful", "oracle", resolver.FallbackEnabled())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.Run(ctx); err != nil {
		log.Error("Assistant stopped", "err", err)
		os.Exit(1)
	}
}

func newResolver(cfg config.Config) (*nlu.Resolver, error) {
	vocab, err := cfg.Vocabulary()
	if err != nil {
		return nil, err
	}
	if !cfg.Oracle.Enabled {
		return nlu.NewResolver(vocab), nil
	}

	client, err := cfg.OracleClient()
	if err != nil {
		return nil, err
	}

	return nlu.NewResolver(vocab,
		nlu.WithOracle(client),
		nlu.WithTimeout(cfg.OracleTimeout()),
	), nil
}

func newSpeaker(cfg config.Config) tts.Speaker {
	console := tts.Console{Out: os.Stdout, Name: cfg.Assistant.Name}

	var voices []tts.Speaker
	if !cfg.Speech.Mute {
		for _, name := range cfg.Speech.Engines {
			e := tts.NewEngine(name, cfg.Speech.Rate, cfg.Speech.Voice)
			if !e.Available() {
				log.Debug("Speech engine not found", "engine", name)
				continue
			}
			voices = append(voices, e)
		}
	}

	chain := tts.NewChain(console, voices...)
	chain.Echo = cfg.Speech.Echo
	chain.Pause = cfg.SpeechPause()
	return chain
}

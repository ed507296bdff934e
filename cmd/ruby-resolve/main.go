package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	cli "github.com/spf13/pflag"
	log "log/slog"

	"ruby/internal/config"
	"ruby/internal/nlu"
	"ruby/internal/oracle"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := cli.NewFlagSet("ruby-resolve", cli.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.StringP("config", "c", "", "Config file path")
	logLevel := flags.StringP("log", "l", "warn", "Log level")
	noLLM := flags.Bool("no-llm", false, "Disable the generative fallback")
	raw := flags.Bool("raw", false, "Print the oracle's raw answer to the classification prompt")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	log.SetDefault(log.New(tint.NewHandler(stderr, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	utterance := strings.Join(flags.Args(), " ")
	if utterance == "" {
		fmt.Fprintln(stderr, "usage: ruby-resolve [flags] <utterance>")
		return 2
	}

	cfg, path, err := config.Load(*configPath)
	if err != nil {
		log.Error("Failed to load config", "path", path, "err", err)
		return 1
	}
	cfg.ApplyEnv(os.Getenv)
	if *noLLM {
		cfg.Oracle.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		log.Error("Invalid config", "path", path, "err", err)
		return 1
	}

	vocab, err := cfg.Vocabulary()
	if err != nil {
		log.Error("Invalid intents", "path", path, "err", err)
		return 1
	}

	opts := []nlu.Option{}
	var client *oracle.Client
	if cfg.Oracle.Enabled {
		client, err = cfg.OracleClient()
		if err != nil {
			log.Error("Failed to set up oracle", "err", err)
			return 1
		}
		opts = append(opts, nlu.WithOracle(client), nlu.WithTimeout(cfg.OracleTimeout()))
	}

	if *raw {
		if client == nil {
			log.Error("Oracle disabled")
			return 1
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.OracleTimeout()+time.Second)
		defer cancel()
		fmt.Fprintln(stdout, oracle.Answer(ctx, client, nlu.ClassificationPrompt(utterance, vocab)))
		return 0
	}

	res := nlu.NewResolver(vocab, opts...).Resolve(context.Background(), utterance)
	intent := string(res.Intent)
	if !res.Matched() {
		intent = "-"
	}
	fmt.Fprintf(stdout, "%s\t%s\t%s\n", intent, res.Stage, res.Oracle)
	return 0
}

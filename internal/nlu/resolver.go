package nlu

import (
	"context"
	"fmt"
	log "log/slog"
	"time"
)

const DefaultTimeout = 15 * time.Second

// Oracle is the generative classifier. An error means the oracle broke; a
// literal "unknown" answer is still an answer.
type Oracle interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

type Stage int

const (
	StageNone Stage = iota
	StagePhrase
	StageOracle
	StageSubstring
)

func (s Stage) String() string {
	switch s {
	case StagePhrase:
		return "phrase"
	case StageOracle:
		return "oracle"
	case StageSubstring:
		return "substring"
	default:
		return "none"
	}
}

type OracleOutcome int

const (
	OracleSkipped OracleOutcome = iota
	OracleAccepted
	OracleRejected
	OracleFailed
)

func (o OracleOutcome) String() string {
	switch o {
	case OracleAccepted:
		return "accepted"
	case OracleRejected:
		return "rejected"
	case OracleFailed:
		return "failed"
	default:
		return "skipped"
	}
}

type Result struct {
	Intent Intent
	Stage  Stage
	Oracle OracleOutcome
	// Answer is the normalized oracle candidate, if one was received.
	Answer Intent
}

func (r Result) Matched() bool { return r.Stage != StageNone }

type Resolver struct {
	vocab    Vocabulary
	oracle   Oracle
	fallback bool
	timeout  time.Duration
	logger   *log.Logger

	// set by WithFallback, wins over the WithOracle default
	fallbackFlag *bool
}

type Option func(*Resolver)

// WithOracle sets the classifier. The fallback stage is enabled unless
// WithFallback(false) is given, in any order.
func WithOracle(o Oracle) Option {
	return func(r *Resolver) { r.oracle = o }
}

func WithFallback(enabled bool) Option {
	return func(r *Resolver) { r.fallbackFlag = &enabled }
}

func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewResolver(v Vocabulary, opts ...Option) *Resolver {
	r := &Resolver{
		vocab:   v,
		timeout: DefaultTimeout,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.fallback = r.oracle != nil && (r.fallbackFlag == nil || *r.fallbackFlag)
	return r
}

func (r *Resolver) Vocabulary() Vocabulary { return r.vocab }

func (r *Resolver) FallbackEnabled() bool { return r.fallback }

// Resolve runs phrase matching, then the oracle (when enabled), then the
// substring pass. It never fails: no match is a Result with StageNone.
func (r *Resolver) Resolve(ctx context.Context, utterance string) Result {
	text := Normalize(utterance)

	if id, ok := MatchPhrase(text, r.vocab); ok {
		return Result{Intent: id, Stage: StagePhrase}
	}

	res := Result{Oracle: OracleSkipped}
	if r.fallback {
		res = r.classify(ctx, text)
		if res.Oracle == OracleAccepted {
			return res
		}
	}

	if id, ok := MatchSubstring(text, r.vocab); ok {
		res.Intent = id
		res.Stage = StageSubstring
		return res
	}

	return res
}

func (r *Resolver) classify(ctx context.Context, text string) Result {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	answer, err := r.ask(ctx, ClassificationPrompt(text, r.vocab))
	if err != nil {
		r.logger.Warn("Oracle unavailable, falling through", "err", err)
		return Result{Oracle: OracleFailed}
	}

	candidate := NormalizeAnswer(answer)
	r.logger.Debug("Oracle answered", "raw", answer, "candidate", candidate)

	if !r.vocab.Contains(candidate) {
		return Result{Oracle: OracleRejected, Answer: candidate}
	}
	return Result{Intent: candidate, Stage: StageOracle, Oracle: OracleAccepted, Answer: candidate}
}

func (r *Resolver) ask(ctx context.Context, prompt string) (answer string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("oracle panicked: %v", p)
		}
	}()
	return r.oracle.Classify(ctx, prompt)
}

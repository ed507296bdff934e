package actions

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDuration = errors.New("invalid countdown duration")

// MaxCountdown caps a countdown, in seconds.
const MaxCountdown = math.MaxInt32

// ParseDuration reads "3", "10 seconds", "1 minute" or "1.5 minutes" as a
// whole number of seconds.
func ParseDuration(input string) (int, error) {
	input = strings.ToLower(input)
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return 0, ErrInvalidDuration
	}

	if strings.Contains(input, "minute") {
		n, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || math.IsNaN(n) || n < 0 || n*60 > MaxCountdown {
			return 0, ErrInvalidDuration
		}
		return int(n * 60), nil
	}

	if len(fields) == 2 && strings.HasPrefix(fields[1], "sec") {
		fields = fields[:1]
	}
	if len(fields) != 1 {
		return 0, ErrInvalidDuration
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 || n > MaxCountdown {
		return 0, ErrInvalidDuration
	}
	return n, nil
}

type Countdown struct {
	// After defaults to time.After.
	After func(time.Duration) <-chan time.Time
}

// Run calls tick with the remaining seconds, once per second, down to 1.
// It returns early with ctx.Err() when ctx is done.
func (c Countdown) Run(ctx context.Context, seconds int, tick func(remaining int)) error {
	after := c.After
	if after == nil {
		after = time.After
	}

	for remaining := seconds; remaining > 0; remaining-- {
		tick(remaining)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-after(time.Second):
		}
	}
	return nil
}

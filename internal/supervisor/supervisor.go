// Package supervisor restarts a long-running function with backoff until its
// context is canceled, logging each restart the way a process supervisor
// would log a child's exit.
package supervisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// DurationString accepts either a Go duration string ("3s") or a bare number
// of seconds when unmarshaled from JSON, so config files can use whichever
// is more natural.
type DurationString time.Duration

func (d *DurationString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = 0
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			*d = 0
			return nil
		}
		dd, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = DurationString(dd)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err == nil {
		if secs < 0 {
			return fmt.Errorf("duration seconds must be >= 0")
		}
		*d = DurationString(time.Duration(secs * float64(time.Second)))
		return nil
	}
	return fmt.Errorf("invalid duration")
}

func (d DurationString) Duration(def time.Duration) time.Duration {
	if time.Duration(d) <= 0 {
		return def
	}
	return time.Duration(d)
}

// Config controls how RunFunc restarts its target.
type Config struct {
	Restart      bool           `json:"restart"`
	RestartDelay DurationString `json:"restartDelay"`
	FailFast     bool           `json:"failFast"`
}

// RunFunc runs fn repeatedly until ctx is canceled or fn returns nil or
// context.Canceled. Any other error from fn is logged and, when
// cfg.Restart is true, followed by a restart after cfg.RestartDelay; when
// cfg.Restart is false or cfg.FailFast is true the error is returned
// immediately instead.
func RunFunc(ctx context.Context, name string, cfg Config, fn func(ctx context.Context) error) error {
	delay := cfg.RestartDelay.Duration(2 * time.Second)
	for {
		err := fn(ctx)
		if err == nil || errors.Is(err, context.Canceled) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("supervisor[%s]: exited (%v)", name, err)
		if cfg.FailFast || !cfg.Restart {
			return err
		}
		log.Printf("supervisor[%s]: restarting in %s", name, delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

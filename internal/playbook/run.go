package playbook

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/eventsystem/internal/config"
	"github.com/dshills/eventsystem/internal/event"
	"github.com/dshills/eventsystem/internal/event/script"
)

// Report is the outcome of a playbook run.
type Report struct {
	Mode  string         `toml:"mode"`
	State map[string]any `toml:"state"`
	Stats event.Stats    `toml:"stats"`
	Steps []StepReport   `toml:"step"`
}

// StepReport is the outcome of one step.
type StepReport struct {
	Action string `toml:"action"`
	Target string `toml:"target"`
	Error  string `toml:"error,omitempty"`
}

// Failed returns the number of steps that reported an error.
func (r *Report) Failed() int {
	n := 0
	for _, s := range r.Steps {
		if s.Error != "" {
			n++
		}
	}
	return n
}

// Run executes cfg. Listener failures during a step are recorded in the
// report; only setup problems such as a script that does not compile are
// returned as errors.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := script.NewEngine(script.WithLogger(logger.Named("lua")))
	defer engine.Close()

	sys := newSystem(cfg.Mode, event.WithLogger(logger.Named("events")))

	handles := make(map[string]event.Unsubscribe, len(cfg.Listeners))
	for _, l := range cfg.Listeners {
		if err := engine.Load(l.Name, l.Source); err != nil {
			return nil, fmt.Errorf("loading listener %s: %w", l.Name, err)
		}
		off, err := sys.bind(engine, event.NewKey[script.Payload](l.Event), l.Name, l.Once)
		if err != nil {
			return nil, err
		}
		handles[l.Name] = off
		logger.Debug("listener registered",
			zap.String("listener", l.Name),
			zap.String("event", l.Event),
			zap.Bool("once", l.Once),
		)
	}

	report := &Report{Mode: cfg.Mode}
	for i, step := range cfg.Steps {
		sr := StepReport{Action: step.Action(), Target: step.Target()}

		switch sr.Action {
		case "remove":
			off, ok := handles[step.Remove]
			if !ok {
				sr.Error = fmt.Sprintf("unknown listener %q", step.Remove)
				break
			}
			off()
		default:
			payload := step.Payload
			if payload == nil {
				payload = script.Payload{}
			}
			if err := sys.emit(ctx, event.NewKey[script.Payload](step.Emit), payload); err != nil {
				sr.Error = err.Error()
				logger.Warn("step failed", zap.Int("step", i), zap.String("event", step.Emit), zap.Error(err))
			}
		}

		report.Steps = append(report.Steps, sr)
	}

	report.State = engine.State()
	report.Stats = sys.stats()
	return report, nil
}

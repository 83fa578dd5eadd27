package flow

import (
	"context"
	"errors"
	"log/slog"

	"funbot/core/logger"
	"funbot/core/session"
)

// Engine advances a session's active flow by exactly one step per input.
type Engine struct {
	defs     map[Kind]Definition
	fallback string
}

// NewEngine builds an engine over the given definitions. fallbackText is
// returned when a session is in a state the definitions cannot explain.
func NewEngine(defs map[Kind]Definition, fallbackText string) *Engine {
	return &Engine{defs: defs, fallback: fallbackText}
}

// Definition returns the definition registered for kind.
func (e *Engine) Definition(kind Kind) (Definition, bool) {
	d, ok := e.defs[kind]
	return d, ok
}

// Advance validates the input against the session's current step and moves
// the flow forward. The caller must hold the session's lock. Every failure
// path yields exactly one effect; an engine-level invariant violation never
// mutates the session.
func (e *Engine) Advance(ctx context.Context, sess *session.Session, input string) Effect {
	def, ok := e.defs[Kind(sess.Flow)]
	if !ok || sess.Step < 0 || sess.Step >= len(def.Steps) {
		logger.Error(ctx, "flow", "advance.invalid_state",
			slog.Int64("user_id", sess.UserID),
			slog.String("flow", sess.Flow),
			slog.Int("step", sess.Step),
		)
		return SendText{Text: e.fallback}
	}

	step := def.Steps[sess.Step]
	value := input
	if step.Validate != nil {
		v, err := step.Validate(input, sess.Data)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				logger.Debug(ctx, "flow", "advance.reject",
					slog.Int64("user_id", sess.UserID),
					slog.String("flow", sess.Flow),
					slog.Int("step", sess.Step),
					slog.String("field", step.Field),
				)
				return SendText{Text: verr.Message}
			}
			logger.Error(ctx, "flow", "advance.validate_failed",
				slog.Int64("user_id", sess.UserID),
				slog.String("flow", sess.Flow),
				slog.Int("step", sess.Step),
				slog.String("err", err.Error()),
			)
			return SendText{Text: e.fallback}
		}
		value = v
	}

	sess.Data[step.Field] = value

	if !step.Terminal {
		sess.Step++
		return SendText{Text: def.Steps[sess.Step].Prompt}
	}

	eff, err := def.Finish(ctx, sess.Data)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Warn(ctx, "flow", "finish.not_found",
				slog.Int64("user_id", sess.UserID),
				slog.String("flow", sess.Flow),
				slog.String("field", step.Field),
			)
			return SendText{Text: def.RetryText}
		}
		logger.Error(ctx, "flow", "finish.failed",
			slog.Int64("user_id", sess.UserID),
			slog.String("flow", sess.Flow),
			slog.String("err", err.Error()),
		)
		sess.Reset()
		return SendText{Text: def.AbortText}
	}

	logger.Info(ctx, "flow", "finish.done",
		slog.Int64("user_id", sess.UserID),
		slog.String("flow", sess.Flow),
		slog.String("status", "ok"),
	)
	sess.Reset()
	return eff
}

// Package dispatch routes incoming user text to the right handler: an
// active flow always wins, then command triggers, then the fallback.
package dispatch

import (
	"context"
	"log/slog"
	"strings"

	"funbot/core/flow"
	"funbot/core/logger"
	"funbot/core/session"
)

// Command is one trigger entry. Exactly one of Help, Run or Kind is set:
// Help replies with the welcome text, Run executes a stateless action,
// Kind starts the flow of that kind.
type Command struct {
	Help bool
	Run  func(ctx context.Context) (flow.Effect, error)
	Kind flow.Kind
}

// Options wires a Dispatcher.
type Options struct {
	Store    *session.Store
	Engine   *flow.Engine
	Commands map[string]Command

	WelcomeText  string
	FallbackText string
	FailText     string
}

// Dispatcher turns one incoming message into exactly one effect.
type Dispatcher struct {
	store    *session.Store
	engine   *flow.Engine
	commands map[string]Command

	welcome  string
	fallback string
	failText string
}

func New(opts Options) *Dispatcher {
	return &Dispatcher{
		store:    opts.Store,
		engine:   opts.Engine,
		commands: opts.Commands,
		welcome:  opts.WelcomeText,
		fallback: opts.FallbackText,
		failText: opts.FailText,
	}
}

// Handle processes one message from userID under that user's session lock.
// While a flow is in progress every message, including command keywords,
// is treated as flow input.
func (d *Dispatcher) Handle(ctx context.Context, userID int64, text string) flow.Effect {
	var eff flow.Effect
	d.store.Do(userID, func(sess *session.Session) {
		if sess.Active() {
			eff = d.engine.Advance(ctx, sess, text)
			return
		}
		eff = d.dispatch(ctx, sess, strings.TrimSpace(text))
	})
	return eff
}

func (d *Dispatcher) dispatch(ctx context.Context, sess *session.Session, text string) flow.Effect {
	cmd, ok := d.commands[text]
	if !ok {
		logger.Debug(ctx, "dispatch", "fallback",
			slog.Int64("user_id", sess.UserID),
			slog.String("command", logger.SanitizeLimit(text, 64)),
		)
		return flow.SendText{Text: d.fallback}
	}

	switch {
	case cmd.Help:
		return flow.SendText{Text: d.welcome, Menu: true}

	case cmd.Run != nil:
		eff, err := cmd.Run(ctx)
		if err != nil {
			logger.Error(ctx, "dispatch", "command.failed",
				slog.Int64("user_id", sess.UserID),
				slog.String("command", text),
				slog.String("err", err.Error()),
			)
			return flow.SendText{Text: d.failText}
		}
		return eff

	default:
		def, ok := d.engine.Definition(cmd.Kind)
		if !ok {
			logger.Error(ctx, "dispatch", "command.unknown_flow",
				slog.Int64("user_id", sess.UserID),
				slog.String("flow", string(cmd.Kind)),
			)
			return flow.SendText{Text: d.fallback}
		}
		sess.Begin(string(cmd.Kind))
		logger.Info(ctx, "dispatch", "flow.start",
			slog.Int64("user_id", sess.UserID),
			slog.String("flow", string(cmd.Kind)),
		)
		return flow.SendText{Text: def.FirstPrompt()}
	}
}

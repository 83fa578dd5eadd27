package dispatch

import (
	"context"
	"errors"
	"testing"

	"funbot/core/flow"
	"funbot/core/session"
)

const (
	promptName  = "name?"
	promptColor = "color?"
)

func testDefinition(finish func(context.Context, map[string]string) (flow.Effect, error)) flow.Definition {
	return flow.Definition{
		Kind: "greet",
		Steps: []flow.Step{
			{Field: "name", Prompt: promptName},
			{Field: "color", Prompt: promptColor, Terminal: true},
		},
		Finish:    finish,
		AbortText: "fail",
	}
}

func newDispatcher(t *testing.T, finish func(context.Context, map[string]string) (flow.Effect, error), commands map[string]Command) (*Dispatcher, *session.Store) {
	t.Helper()
	store := session.New(0)
	t.Cleanup(store.Close)
	defs := map[flow.Kind]flow.Definition{"greet": testDefinition(finish)}
	engine := flow.NewEngine(defs, "fallback")
	if commands == nil {
		commands = map[string]Command{}
	}
	commands["/greet"] = Command{Kind: "greet"}
	return New(Options{
		Store:        store,
		Engine:       engine,
		Commands:     commands,
		WelcomeText:  "welcome",
		FallbackText: "fallback",
		FailText:     "fail",
	}), store
}

func okFinish(_ context.Context, data map[string]string) (flow.Effect, error) {
	return flow.SendText{Text: "hi " + data["name"]}, nil
}

func text(t *testing.T, eff flow.Effect) string {
	t.Helper()
	st, ok := eff.(flow.SendText)
	if !ok {
		t.Fatalf("expected SendText, got %T", eff)
	}
	return st.Text
}

func TestHandleUnknownTextLeavesSessionIdle(t *testing.T) {
	d, store := newDispatcher(t, okFinish, nil)
	if got := text(t, d.Handle(context.Background(), 1, "blah")); got != "fallback" {
		t.Fatalf("got %q", got)
	}
	if store.InProgress(1) {
		t.Fatal("fallback must not start a flow")
	}
}

func TestHandleStartsFlow(t *testing.T) {
	d, store := newDispatcher(t, okFinish, nil)
	if got := text(t, d.Handle(context.Background(), 1, "/greet")); got != promptName {
		t.Fatalf("got %q", got)
	}
	if !store.InProgress(1) {
		t.Fatal("flow should be in progress")
	}
}

func TestHandleActiveFlowTakesPrecedenceOverCommands(t *testing.T) {
	d, _ := newDispatcher(t, okFinish, nil)
	ctx := context.Background()

	d.Handle(ctx, 1, "/greet")
	// A command keyword typed mid-flow is plain input for the current step.
	if got := text(t, d.Handle(ctx, 1, "/greet")); got != promptColor {
		t.Fatalf("got %q", got)
	}
	if got := text(t, d.Handle(ctx, 1, "red")); got != "hi /greet" {
		t.Fatalf("got %q", got)
	}
}

func TestHandleTransientFailureAllowsRestart(t *testing.T) {
	fail := func(_ context.Context, _ map[string]string) (flow.Effect, error) {
		return nil, errors.New("upstream down")
	}
	d, store := newDispatcher(t, fail, nil)
	ctx := context.Background()

	d.Handle(ctx, 1, "/greet")
	d.Handle(ctx, 1, "bob")
	if got := text(t, d.Handle(ctx, 1, "red")); got != "fail" {
		t.Fatalf("got %q", got)
	}
	if store.InProgress(1) {
		t.Fatal("session should be idle after abort")
	}
	if got := text(t, d.Handle(ctx, 1, "/greet")); got != promptName {
		t.Fatalf("restart after abort: got %q", got)
	}
}

func TestHandleHelpCommand(t *testing.T) {
	d, _ := newDispatcher(t, okFinish, map[string]Command{"/start": {Help: true}})
	eff := d.Handle(context.Background(), 1, "/start")
	st, ok := eff.(flow.SendText)
	if !ok || st.Text != "welcome" || !st.Menu {
		t.Fatalf("got %#v", eff)
	}
}

func TestHandleStatelessCommand(t *testing.T) {
	run := func(_ context.Context) (flow.Effect, error) {
		return flow.SendPhoto{Data: []byte{1, 2, 3}}, nil
	}
	d, store := newDispatcher(t, okFinish, map[string]Command{"/photo": {Run: run}})

	eff := d.Handle(context.Background(), 1, "/photo")
	if _, ok := eff.(flow.SendPhoto); !ok {
		t.Fatalf("expected SendPhoto, got %T", eff)
	}
	if store.InProgress(1) {
		t.Fatal("stateless command must not start a flow")
	}
}

func TestHandleStatelessCommandFailure(t *testing.T) {
	run := func(_ context.Context) (flow.Effect, error) {
		return nil, errors.New("upstream down")
	}
	d, _ := newDispatcher(t, okFinish, map[string]Command{"/photo": {Run: run}})
	if got := text(t, d.Handle(context.Background(), 1, "/photo")); got != "fail" {
		t.Fatalf("got %q", got)
	}
}

func TestHandleTrimsTriggerWhitespace(t *testing.T) {
	d, _ := newDispatcher(t, okFinish, nil)
	if got := text(t, d.Handle(context.Background(), 1, "  /greet ")); got != promptName {
		t.Fatalf("got %q", got)
	}
}

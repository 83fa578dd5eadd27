package flow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"funbot/core/session"
)

const (
	testFallback  = "not understood"
	testRetryText = "try another value"
	testAbortText = "something broke"
)

// twoStepDef builds a two-step flow whose terminal action is injectable.
func twoStepDef(finish func(ctx context.Context, data map[string]string) (Effect, error)) Definition {
	return Definition{
		Kind: "pair",
		Steps: []Step{
			{
				Field:  "first",
				Prompt: "enter first",
				Validate: func(input string, _ map[string]string) (string, error) {
					if input == "" {
						return "", Invalid("first must not be empty")
					}
					return input, nil
				},
			},
			{
				Field:    "second",
				Prompt:   "enter second",
				Terminal: true,
			},
		},
		Finish:    finish,
		RetryText: testRetryText,
		AbortText: testAbortText,
	}
}

func newTestEngine(def Definition) (*Engine, *session.Store) {
	defs := map[Kind]Definition{def.Kind: def}
	return NewEngine(defs, testFallback), session.New(time.Hour)
}

func advance(t *testing.T, e *Engine, store *session.Store, userID int64, input string) Effect {
	t.Helper()
	var eff Effect
	store.Do(userID, func(sess *session.Session) {
		eff = e.Advance(context.Background(), sess, input)
	})
	return eff
}

func wantText(t *testing.T, eff Effect, text string) {
	t.Helper()
	st, ok := eff.(SendText)
	if !ok {
		t.Fatalf("effect = %T, want SendText", eff)
	}
	if st.Text != text {
		t.Fatalf("text = %q, want %q", st.Text, text)
	}
}

func TestAdvanceValidationErrorKeepsStep(t *testing.T) {
	def := twoStepDef(func(context.Context, map[string]string) (Effect, error) {
		return SendText{Text: "done"}, nil
	})
	e, store := newTestEngine(def)
	defer store.Close()

	store.Do(1, func(sess *session.Session) { sess.Begin("pair") })

	wantText(t, advance(t, e, store, 1, ""), "first must not be empty")
	store.Do(1, func(sess *session.Session) {
		if sess.Step != 0 {
			t.Fatalf("step advanced on invalid input: %d", sess.Step)
		}
		if len(sess.Data) != 0 {
			t.Fatalf("data mutated on invalid input: %v", sess.Data)
		}
	})

	// The same step accepts corrected input afterwards.
	wantText(t, advance(t, e, store, 1, "ok"), "enter second")
	store.Do(1, func(sess *session.Session) {
		if sess.Data["first"] != "ok" {
			t.Fatalf("data = %v", sess.Data)
		}
	})
}

func TestAdvanceTerminalResetsSession(t *testing.T) {
	var got map[string]string
	def := twoStepDef(func(_ context.Context, data map[string]string) (Effect, error) {
		got = map[string]string{"first": data["first"], "second": data["second"]}
		return SendText{Text: "done"}, nil
	})
	e, store := newTestEngine(def)
	defer store.Close()

	store.Do(2, func(sess *session.Session) { sess.Begin("pair") })
	advance(t, e, store, 2, "a")
	wantText(t, advance(t, e, store, 2, "b"), "done")

	if got["first"] != "a" || got["second"] != "b" {
		t.Fatalf("finish saw %v", got)
	}
	store.Do(2, func(sess *session.Session) {
		if sess.Active() {
			t.Fatal("session must be idle after terminal step")
		}
		if len(sess.Data) != 0 {
			t.Fatalf("data not cleared: %v", sess.Data)
		}
	})
}

func TestAdvanceTransientFailureAborts(t *testing.T) {
	calls := 0
	def := twoStepDef(func(context.Context, map[string]string) (Effect, error) {
		calls++
		return nil, errors.New("gateway down")
	})
	e, store := newTestEngine(def)
	defer store.Close()

	store.Do(3, func(sess *session.Session) { sess.Begin("pair") })
	advance(t, e, store, 3, "a")
	wantText(t, advance(t, e, store, 3, "b"), testAbortText)

	if calls != 1 {
		t.Fatalf("finish called %d times, want 1", calls)
	}
	store.Do(3, func(sess *session.Session) {
		if sess.Active() {
			t.Fatal("transient failure must abort to idle")
		}
	})
}

func TestAdvanceNotFoundRetriesSameStep(t *testing.T) {
	attempts := 0
	def := twoStepDef(func(context.Context, map[string]string) (Effect, error) {
		attempts++
		if attempts == 1 {
			return nil, fmt.Errorf("no such place: %w", ErrNotFound)
		}
		return SendText{Text: "done"}, nil
	})
	e, store := newTestEngine(def)
	defer store.Close()

	store.Do(4, func(sess *session.Session) { sess.Begin("pair") })
	advance(t, e, store, 4, "a")

	wantText(t, advance(t, e, store, 4, "nowhere"), testRetryText)
	store.Do(4, func(sess *session.Session) {
		if !sess.Active() || sess.Step != 1 {
			t.Fatalf("not-found must keep the step: flow=%q step=%d", sess.Flow, sess.Step)
		}
	})

	wantText(t, advance(t, e, store, 4, "somewhere"), "done")
}

func TestAdvanceInvalidStateLeavesSessionUntouched(t *testing.T) {
	def := twoStepDef(func(context.Context, map[string]string) (Effect, error) {
		return SendText{Text: "done"}, nil
	})
	e, store := newTestEngine(def)
	defer store.Close()

	// No active flow: advancing is a programming error, not a crash.
	wantText(t, advance(t, e, store, 5, "hello"), testFallback)
	store.Do(5, func(sess *session.Session) {
		if sess.Active() || len(sess.Data) != 0 {
			t.Fatalf("session mutated: %+v", sess)
		}
	})

	// Step out of range: same containment.
	store.Do(5, func(sess *session.Session) {
		sess.Begin("pair")
		sess.Step = 99
	})
	wantText(t, advance(t, e, store, 5, "hello"), testFallback)
	store.Do(5, func(sess *session.Session) {
		if sess.Step != 99 {
			t.Fatalf("invalid state must not be repaired silently, step=%d", sess.Step)
		}
	})
}

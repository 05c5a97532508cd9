package bot

import (
	"testing"

	tele "gopkg.in/telebot.v3"
)

// fakeCtx implements just enough of tele.Context for dispatch tests.
type fakeCtx struct {
	tele.Context
	data      string
	responded bool
}

func (f *fakeCtx) Callback() *tele.Callback {
	if f.data == "" {
		return nil
	}
	return &tele.Callback{Data: f.data}
}

func (f *fakeCtx) Respond(resp ...*tele.CallbackResponse) error {
	f.responded = true
	return nil
}

func TestRouterFirstMatchWins(t *testing.T) {
	var hit string
	r := &Router{}
	r.On(DataHasPrefix("wf_"), func(c tele.Context) error { hit = "prefix"; return nil })
	r.On(DataIs("wf_cpu-monitor"), func(c tele.Context) error { hit = "exact"; return nil })

	if err := r.Handle(&fakeCtx{data: "wf_cpu-monitor"}); err != nil {
		t.Fatal(err)
	}
	if hit != "prefix" {
		t.Fatalf("registration order must win, dispatched to %q", hit)
	}
}

func TestRouterDispatchesByData(t *testing.T) {
	var hit string
	r := &Router{}
	r.On(DataIs("main_menu"), func(c tele.Context) error { hit = "menu"; return nil })
	r.On(DataHasPrefix("wf_"), func(c tele.Context) error { hit = "card"; return nil })

	if err := r.Handle(&fakeCtx{data: "wf_cpu-monitor"}); err != nil {
		t.Fatal(err)
	}
	if hit != "card" {
		t.Fatalf("want card handler, got %q", hit)
	}
}

func TestRouterAcknowledgesUnmatched(t *testing.T) {
	r := &Router{}
	r.On(DataIs("main_menu"), func(c tele.Context) error { return nil })

	c := &fakeCtx{data: "stale_button"}
	if err := r.Handle(c); err != nil {
		t.Fatal(err)
	}
	if !c.responded {
		t.Fatal("unmatched callbacks must still be acknowledged")
	}
}

func TestCallbackDataTrimsTelegramPrefix(t *testing.T) {
	// Telegram pads callback data with control characters in some clients.
	c := &fakeCtx{data: "\fwf_cpu-monitor"}
	if got := callbackData(c); got != "wf_cpu-monitor" {
		t.Fatalf("callbackData = %q", got)
	}

	if got := callbackData(&fakeCtx{}); got != "" {
		t.Fatalf("nil callback should yield empty data, got %q", got)
	}
}

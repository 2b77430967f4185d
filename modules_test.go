package gamekit

import (
	"errors"
	"testing"
)

// --- Modules ---

func TestModulesDefineAndGet(t *testing.T) {
	m := NewModules(nil)
	m.Define("speed", 3)
	m.Define("made", func() any { return "built" })
	if v, ok := m.Get("speed"); !ok || v != 3 {
		t.Errorf("speed = %v %v", v, ok)
	}
	if v, _ := m.Get("made"); v != "built" {
		t.Errorf("made = %v, factory result should be stored", v)
	}
	if _, ok := m.Get("none"); ok {
		t.Error("unknown module should be missing")
	}
}

func TestModulesPendingDefinition(t *testing.T) {
	m := NewModules(nil)
	p := NewPromise()
	m.Define("late", p)
	if _, ok := m.Get("late"); ok {
		t.Fatal("pending module should not be returned")
	}
	fetched := m.Fetch("late")
	if !fetched.IsPending() {
		t.Fatal("fetch should wait for the pending module")
	}
	p.Resolve("value")
	if v, _ := m.Get("late"); v != "value" {
		t.Errorf("late = %v, want value", v)
	}
	if !fetched.IsResolved() {
		t.Error("fetch should resolve")
	}
}

func TestModulesRejectedDefinition(t *testing.T) {
	c, _, _ := newTestCore(t)
	m := NewModules(c)
	p := c.NewPromise()
	m.Define("bad", p)
	fetched := m.Fetch("bad")
	p.Reject(errors.New("load failed"))
	if !fetched.IsRejected() {
		t.Error("fetch should reject")
	}
	if _, ok := m.Get("bad"); ok {
		t.Error("rejected module should not be defined")
	}
}

func TestModulesRedefineWhilePending(t *testing.T) {
	m := NewModules(nil)
	p := NewPromise()
	m.Define("x", p)
	m.Define("x", 1)
	p.Resolve(2)
	if v, _ := m.Get("x"); v != 1 {
		t.Errorf("x = %v, a stale promise should not overwrite a later definition", v)
	}
}

func TestModulesFetchRunsFactoryOnce(t *testing.T) {
	m := NewModules(nil)
	calls := 0
	m.Register("lazy", func() any {
		calls++
		return "ready"
	})
	if !m.Fetch("lazy").IsResolved() {
		t.Fatal("synchronous factory should resolve at once")
	}
	m.Fetch("lazy")
	if calls != 1 {
		t.Errorf("factory calls = %d, want 1", calls)
	}
	if v, _ := m.Get("lazy"); v != "ready" {
		t.Errorf("lazy = %v", v)
	}
}

func TestModulesFetchAsyncFactory(t *testing.T) {
	m := NewModules(nil)
	m.Register("ok", func() any { return Resolved("done") })
	m.Register("fail", func() any { return Rejected("nope") })
	if !m.Fetch("ok").IsResolved() {
		t.Error("resolved factory promise should resolve the fetch")
	}
	if !m.Fetch("fail").IsRejected() {
		t.Error("rejected factory promise should reject the fetch")
	}
}

func TestModulesFetchUnknown(t *testing.T) {
	m := NewModules(nil)
	m.Define("a", 1)
	if err := m.Fetch("a", "missing").Err(); !errors.Is(err, ErrUnknownModule) {
		t.Errorf("err = %v, want ErrUnknownModule", err)
	}
}

package tracer

import "testing"

func TestAllocateRetainReleaseBalances(t *testing.T) {
	tr := New()
	id := tr.Allocate("let x = mkPoint(1, 2)")

	if err := tr.Retain(id); err != nil {
		t.Fatalf("unexpected retain error: %v", err)
	}
	if err := tr.Release(id); err != nil {
		t.Fatalf("unexpected release error: %v", err)
	}
	if err := tr.Release(id); err != nil {
		t.Fatalf("unexpected release error: %v", err)
	}

	if errs := tr.CheckLeaks(); !errs.OK() {
		t.Fatalf("expected no leaks after balanced retain/release, got %v", errs.All())
	}
	if tr.Live() != 0 {
		t.Fatalf("expected the object to be removed from the table once refcount hit zero, live=%d", tr.Live())
	}
}

func TestCheckLeaksReportsUnreleasedObject(t *testing.T) {
	tr := New()
	id := tr.Allocate("let y = mkList(3)")

	errs := tr.CheckLeaks()
	if errs.OK() {
		t.Fatalf("expected a leak to be reported for an object never released")
	}
	if errs.Len() != 1 {
		t.Fatalf("expected exactly one leak, got %d", errs.Len())
	}
	msg := errs.All()[0].Error()
	if !contains(msg, "leaked") {
		t.Fatalf("expected leak message to mention 'leaked', got %q", msg)
	}
	_ = id
}

func TestMarkGlobalExemptsFromLeakCheck(t *testing.T) {
	tr := New()
	id := tr.Allocate("globalTable")

	if err := tr.MarkGlobal(id); err != nil {
		t.Fatalf("unexpected MarkGlobal error: %v", err)
	}

	if errs := tr.CheckLeaks(); !errs.OK() {
		t.Fatalf("expected a global object to never be reported as leaked, got %v", errs.All())
	}
	if tr.Live() != 1 {
		t.Fatalf("expected the global object to remain tracked, live=%d", tr.Live())
	}
}

func TestReleaseUnknownObjectReportsRefcountMismatch(t *testing.T) {
	tr := New()
	if err := tr.Release(999); err == nil {
		t.Fatalf("expected releasing an unknown id to report a mismatch")
	}
	if err := tr.Retain(999); err == nil {
		t.Fatalf("expected retaining an unknown id to report a mismatch")
	}
}

func TestReleaseBelowZeroReportsRefcountMismatch(t *testing.T) {
	tr := New()
	id := tr.Allocate("once")
	if err := tr.Release(id); err != nil {
		t.Fatalf("unexpected error releasing once: %v", err)
	}
	if err := tr.Release(id); err == nil {
		t.Fatalf("expected releasing an already-deallocated object to report a mismatch")
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

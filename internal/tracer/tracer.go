// Package tracer implements the optional allocation tracer described in
// spec §9: a diagnostic collaborator for the reference-counted
// expression-tree ownership model (spec §2's "Ownership" paragraph),
// surfacing the source sanitizer's report_malloc/retain/release/
// check_leak contract as explicit operations on an in-process table
// rather than a process-wide lazy singleton.
//
// No file in the retrieval pack traces allocations this way; the table
// shape (a mutex-guarded map keyed by object id) is grounded on
// internal/cache's MemoryCache, and the refcount bookkeeping itself is
// translated from original_source/sanitizer/src/lib.rs.
package tracer

import (
	"sync"

	"github.com/sunholo/fixcore/internal/diag"
)

type objectInfo struct {
	code     string
	refcount int64
	isGlobal bool
}

// Tracer tracks the lifetime of reference-counted objects across one
// compile or one interpreted run. It is safe for concurrent use so an
// embedding host can trace allocations from parallel workers (§5).
type Tracer struct {
	mu      sync.Mutex
	nextID  int64
	objects map[int64]*objectInfo
}

// New creates an empty allocation tracer.
func New() *Tracer {
	return &Tracer{objects: make(map[int64]*objectInfo)}
}

// Allocate registers a freshly allocated object (refcount starts at 1,
// mirroring report_malloc) and returns its tracer-assigned id.
func (t *Tracer) Allocate(code string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	id := t.nextID
	t.objects[id] = &objectInfo{code: code, refcount: 1}
	return id
}

// MarkGlobal marks an object as a leaked-by-design global: check_leaks
// never flags it, no matter its refcount.
func (t *Tracer) MarkGlobal(id int64) *diag.Error {
	t.mu.Lock()
	defer t.mu.Unlock()

	info, ok := t.objects[id]
	if !ok {
		return diag.NewRefcountMismatch(id)
	}
	info.isGlobal = true
	return nil
}

// Retain increments id's refcount.
func (t *Tracer) Retain(id int64) *diag.Error {
	t.mu.Lock()
	defer t.mu.Unlock()

	info, ok := t.objects[id]
	if !ok || info.refcount == 0 {
		return diag.NewRefcountMismatch(id)
	}
	info.refcount++
	return nil
}

// Release decrements id's refcount, removing the object from the table
// once it reaches zero (mirroring report_release's dealloc-on-zero
// behavior). A global object released down to zero is never removed.
func (t *Tracer) Release(id int64) *diag.Error {
	t.mu.Lock()
	defer t.mu.Unlock()

	info, ok := t.objects[id]
	if !ok || info.refcount == 0 {
		return diag.NewRefcountMismatch(id)
	}
	info.refcount--
	if info.refcount == 0 && !info.isGlobal {
		delete(t.objects, id)
	}
	return nil
}

// CheckLeaks reports every non-global object still in the table: for a
// well-behaved trace, retains and releases on non-global ids balance
// exactly, leaving the table holding only globals (or nothing).
func (t *Tracer) CheckLeaks() diag.Errors {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs diag.Errors
	for id, info := range t.objects {
		if !info.isGlobal {
			errs.Add(diag.NewLeakedObject(id, info.code, int(info.refcount)))
		}
	}
	return errs
}

// Live reports the number of objects currently tracked, global and
// non-global alike. Exposed for tests and for cmd/fixcore's diagnostic
// banner rather than anything the pipeline itself consults.
func (t *Tracer) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.objects)
}

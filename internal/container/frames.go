package container

import (
	"context"
	"slices"
	"strings"
	"sync/atomic"
)

type frameKey struct{}

// frame is one construction in progress on a call path. Frames form a
// chain through the context, from the outermost request to the innermost
// construction, so a nested request can see what its callers are building.
type frame struct {
	provider *Provider
	// part is empty for the root frame of a top-level request.
	part   string
	parent *frame
	// finished is set once the construction returns. A context that
	// outlives its construction still carries the frame, so every walk
	// skips finished frames.
	finished atomic.Bool
}

func (p *Provider) frameFrom(ctx context.Context) *frame {
	if f, ok := ctx.Value(frameKey{}).(*frame); ok && f.provider == p {
		return f
	}
	return &frame{provider: p}
}

func (f *frame) child(partID string) *frame {
	return &frame{provider: f.provider, part: partID, parent: f}
}

func (f *frame) finish() {
	f.finished.Store(true)
}

func (f *frame) with(ctx context.Context) context.Context {
	return context.WithValue(ctx, frameKey{}, f)
}

// building reports whether partID is under construction on this call path.
func (f *frame) building(partID string) bool {
	for cur := f; cur != nil; cur = cur.parent {
		if cur.part == partID && !cur.finished.Load() {
			return true
		}
	}
	return false
}

// within reports whether f is other or nested inside it.
func (f *frame) within(other *frame) bool {
	for cur := f; cur != nil; cur = cur.parent {
		if cur == other && !cur.finished.Load() {
			return true
		}
	}
	return false
}

// path renders the chain from the outermost construction down to partID.
func (f *frame) path(partID string) string {
	var ids []string
	for cur := f; cur != nil; cur = cur.parent {
		if cur.part != "" && !cur.finished.Load() {
			ids = append(ids, cur.part)
		}
	}
	slices.Reverse(ids)
	return strings.Join(append(ids, partID), " -> ")
}

// wait is an edge of the waits-for graph: a call path blocked on another
// path's construction.
type wait struct {
	waiter *frame
	owner  *frame
}

// beginWait records that waiter is about to block on owner's construction.
// It fails if owner can only finish after waiter does.
func (p *Provider) beginWait(waiter, owner *frame) (*wait, bool) {
	p.waitMu.Lock()
	defer p.waitMu.Unlock()

	visited := make(map[*frame]bool)
	var blocksOn func(o *frame) bool
	blocksOn = func(o *frame) bool {
		// Everything on waiter's path is blocked while it waits.
		if waiter.within(o) {
			return true
		}
		if visited[o] {
			return false
		}
		visited[o] = true
		for w := range p.waits {
			if w.waiter.within(o) && blocksOn(w.owner) {
				return true
			}
		}
		return false
	}
	if blocksOn(owner) {
		return nil, false
	}

	w := &wait{waiter: waiter, owner: owner}
	p.waits[w] = struct{}{}
	return w, true
}

func (p *Provider) endWait(w *wait) {
	p.waitMu.Lock()
	defer p.waitMu.Unlock()
	delete(p.waits, w)
}

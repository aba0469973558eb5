package container

import (
	"context"
	"sync"

	"github.com/vk/partgrid/internal/composition"
	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/part"
)

// inputs implements part.Inputs for one construction.
type inputs struct {
	part     string
	settings part.Metadata
	eager    map[contract.ID][]any
	lazy     map[contract.ID][]part.Lazy
}

func (in *inputs) Part() string            { return in.part }
func (in *inputs) Settings() part.Metadata { return in.settings }

func (in *inputs) One(c contract.ID) (any, bool) {
	values := in.eager[c]
	if len(values) == 0 {
		return nil, false
	}
	return values[0], true
}

func (in *inputs) Many(c contract.ID) []any {
	return append([]any(nil), in.eager[c]...)
}

func (in *inputs) Lazy(c contract.ID) (part.Lazy, bool) {
	handles := in.lazy[c]
	if len(handles) == 0 {
		return nil, false
	}
	return handles[0], true
}

func (in *inputs) LazyMany(c contract.ID) []part.Lazy {
	return append([]part.Lazy(nil), in.lazy[c]...)
}

// lazyRef is a deferred reference to one supplier. The first successful Get
// is remembered, so a non-shared target is built once per handle.
type lazyRef struct {
	provider *Provider
	target   *composition.Part

	mu    sync.Mutex
	ready bool
	value any
}

func (l *lazyRef) Get(ctx context.Context) (any, error) {
	l.mu.Lock()
	if l.ready {
		v := l.value
		l.mu.Unlock()
		return v, nil
	}
	l.mu.Unlock()

	v, err := l.provider.instance(ctx, l.target)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.ready {
		l.value, l.ready = v, true
	}
	return l.value, nil
}

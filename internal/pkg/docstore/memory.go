package docstore

import (
	"context"
	"sync"
)

// MemoryStore keeps the whole tree in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	root   map[string]any
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{root: map[string]any{}}
}

func (s *MemoryStore) Get(_ context.Context, path string) (any, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	return deepCopy(s.lookup(segs)), nil
}

func (s *MemoryStore) Set(_ context.Context, path string, value any) error {
	segs, err := SplitPath(path)
	if err != nil {
		return err
	}
	nv, err := Normalize(value)
	if err != nil {
		return err
	}
	if err := validateTree(nv); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.write(segs, nv)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, path string, fields map[string]any) error {
	base, err := SplitPath(path)
	if err != nil {
		return err
	}
	writes, err := expandUpdate(base, fields)
	if err != nil {
		return err
	}
	for _, v := range writes {
		if err := validateTree(v); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	for p, v := range writes {
		segs, _ := SplitPath(p)
		s.write(segs, v)
	}
	return nil
}

func (s *MemoryStore) Push(_ context.Context, path string) (string, error) {
	if _, err := SplitPath(path); err != nil {
		return "", err
	}
	return NewPushKey()
}

func (s *MemoryStore) Remove(ctx context.Context, path string) error {
	return s.Set(ctx, path, nil)
}

func (s *MemoryStore) Transaction(_ context.Context, path string, fn TransactionFn) (any, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	next, err := fn(deepCopy(s.lookup(segs)))
	if err != nil {
		return nil, err
	}
	nv, err := Normalize(next)
	if err != nil {
		return nil, err
	}
	if err := validateTree(nv); err != nil {
		return nil, err
	}
	s.write(segs, nv)
	return deepCopy(nv), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *MemoryStore) lookup(segs []string) any {
	var node any = s.root
	for _, seg := range segs {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node, ok = m[seg]
		if !ok {
			return nil
		}
	}
	if m, ok := node.(map[string]any); ok && len(m) == 0 {
		return nil
	}
	return node
}

// write must be called with the lock held.
func (s *MemoryStore) write(segs []string, v any) {
	if len(segs) == 0 {
		if m, ok := v.(map[string]any); ok {
			s.root = m
		} else {
			s.root = map[string]any{}
		}
		return
	}
	trail := make([]map[string]any, 0, len(segs))
	node := s.root
	for _, seg := range segs[:len(segs)-1] {
		trail = append(trail, node)
		next, ok := node[seg].(map[string]any)
		if !ok {
			if v == nil {
				return
			}
			next = map[string]any{}
			node[seg] = next
		}
		node = next
	}
	last := segs[len(segs)-1]
	if v == nil {
		delete(node, last)
	} else {
		node[last] = v
	}
	// drop parents left empty by a removal
	for i := len(trail) - 1; i >= 0 && len(node) == 0; i-- {
		delete(trail[i], segs[i])
		node = trail[i]
	}
}

func validateTree(v any) error {
	return flatten("", v, map[string]any{})
}

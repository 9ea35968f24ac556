// Package store holds the small pieces of UI state the core owns outright:
// the current category selection and the flash toast. Each store is an
// injected object whose methods are the only legal write path; consumers
// receive a reference instead of reaching for ambient globals.
package store

import (
	"sync"

	"snackhub/internal/category"
)

// SelectionStore tracks the category the user is browsing. An unresolvable
// category id simply leaves the selection unset.
type SelectionStore struct {
	mu      sync.Mutex
	current *category.Path
}

func NewSelectionStore() *SelectionStore {
	return &SelectionStore{}
}

// Select resolves id and records the result. Unknown ids clear nothing and
// set nothing; the previous selection stays.
func (s *SelectionStore) Select(id int) bool {
	path, ok := category.ResolvePath(id)
	if !ok {
		return false
	}

	s.mu.Lock()
	s.current = &path
	s.mu.Unlock()
	return true
}

func (s *SelectionStore) Current() (category.Path, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return category.Path{}, false
	}
	return *s.current, true
}

func (s *SelectionStore) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// ToastKind distinguishes how a flash message renders.
type ToastKind string

const (
	ToastInfo  ToastKind = "info"
	ToastError ToastKind = "error"
)

type Toast struct {
	Kind    ToastKind
	Message string
}

// ToastStore holds at most one flash message. Consume hands it over and
// clears it, so a toast renders exactly once.
type ToastStore struct {
	mu      sync.Mutex
	pending *Toast
}

func NewToastStore() *ToastStore {
	return &ToastStore{}
}

func (s *ToastStore) Show(kind ToastKind, message string) {
	s.mu.Lock()
	s.pending = &Toast{Kind: kind, Message: message}
	s.mu.Unlock()
}

func (s *ToastStore) Consume() (Toast, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return Toast{}, false
	}
	t := *s.pending
	s.pending = nil
	return t, true
}

func (s *ToastStore) Clear() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

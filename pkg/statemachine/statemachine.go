package statemachine

import (
	"context"
	"fmt"
)

// Guard evaluates whether a transition should be allowed for the subject.
type Guard[S comparable, T any] func(ctx context.Context, from, to S, subject T) bool

// Action executes during a transition and returns the updated subject.
// Returning an error aborts the transition.
type Action[S comparable, T any] func(ctx context.Context, from, to S, subject T) (T, error)

type transition[S comparable, T any] struct {
	guards  []Guard[S, T]
	actions []Action[S, T]
}

// Machine is an immutable transition table over states S applied to subjects
// of type T. The machine holds no current state; callers pass the subject's
// state to Fire and store the result themselves. Safe for concurrent use once built.
type Machine[S comparable, T any] struct {
	states      []S
	index       map[S]int
	transitions map[S]map[S]*transition[S, T]
	enter       map[S][]Action[S, T]
}

func newMachine[S comparable, T any]() *Machine[S, T] {
	return &Machine[S, T]{
		index:       make(map[S]int),
		transitions: make(map[S]map[S]*transition[S, T]),
		enter:       make(map[S][]Action[S, T]),
	}
}

// States returns the declared states in declaration order.
func (m *Machine[S, T]) States() []S {
	out := make([]S, len(m.states))
	copy(out, m.states)
	return out
}

// Targets returns the states reachable from from, in declaration order.
func (m *Machine[S, T]) Targets(from S) []S {
	var out []S
	for _, to := range m.states {
		if _, ok := m.transitions[from][to]; ok {
			out = append(out, to)
		}
	}
	return out
}

// CanFire reports whether Fire would pass lookup and guards.
func (m *Machine[S, T]) CanFire(ctx context.Context, from, to S, subject T) bool {
	t, err := m.lookup(from, to)
	if err != nil {
		return false
	}
	return t.allowed(ctx, from, to, subject)
}

// Fire applies the transition from -> to to subject. Guards run first, then
// the transition's actions, then the enter actions of the target state.
// On failure the original subject is returned with the error.
func (m *Machine[S, T]) Fire(ctx context.Context, from, to S, subject T) (T, error) {
	t, err := m.lookup(from, to)
	if err != nil {
		return subject, err
	}
	if !t.allowed(ctx, from, to, subject) {
		return subject, NewErrTransitionRejected(name(from), name(to))
	}

	next := subject
	actions := append(append([]Action[S, T]{}, t.actions...), m.enter[to]...)
	for _, action := range actions {
		if next, err = action(ctx, from, to, next); err != nil {
			return subject, fmt.Errorf("action failed: %w", err)
		}
	}
	return next, nil
}

func (m *Machine[S, T]) lookup(from, to S) (*transition[S, T], error) {
	for _, s := range []S{from, to} {
		if _, ok := m.index[s]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownState, name(s))
		}
	}
	t, ok := m.transitions[from][to]
	if !ok {
		return nil, NewErrNoTransitionAvailable(name(from), name(to))
	}
	return t, nil
}

func (m *Machine[S, T]) add(from, to S, guards []Guard[S, T], actions []Action[S, T]) error {
	for _, s := range []S{from, to} {
		if _, ok := m.index[s]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownState, name(s))
		}
	}
	if _, ok := m.transitions[from]; !ok {
		m.transitions[from] = make(map[S]*transition[S, T])
	}
	t, ok := m.transitions[from][to]
	if !ok {
		t = &transition[S, T]{}
		m.transitions[from][to] = t
	}
	t.guards = append(t.guards, guards...)
	t.actions = append(t.actions, actions...)
	return nil
}

func (t *transition[S, T]) allowed(ctx context.Context, from, to S, subject T) bool {
	for _, guard := range t.guards {
		if !guard(ctx, from, to, subject) {
			return false
		}
	}
	return true
}

func name[S comparable](s S) string {
	return fmt.Sprint(s)
}

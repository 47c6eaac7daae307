package statemachine

import (
	"fmt"
)

// Option configures a state machine during construction.
type Option[S comparable, T any] func(*Machine[S, T]) error

// TransitionOption configures a single transition with guards and actions.
type TransitionOption[S comparable, T any] func(*transitionConfig[S, T])

type transitionConfig[S comparable, T any] struct {
	guards  []Guard[S, T]
	actions []Action[S, T]
}

// New creates a state machine from the given options.
// States must be declared with WithStates before transitions refer to them.
func New[S comparable, T any](opts ...Option[S, T]) (*Machine[S, T], error) {
	m := newMachine[S, T]()
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if len(m.states) == 0 {
		return nil, ErrNoStates
	}
	return m, nil
}

// MustNew is like New but panics on invalid configuration.
func MustNew[S comparable, T any](opts ...Option[S, T]) *Machine[S, T] {
	m, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// WithStates declares states. Declaration order defines "forward".
func WithStates[S comparable, T any](states ...S) Option[S, T] {
	return func(m *Machine[S, T]) error {
		for _, s := range states {
			if _, ok := m.index[s]; ok {
				return fmt.Errorf("%w: %s", ErrDuplicateState, name(s))
			}
			m.index[s] = len(m.states)
			m.states = append(m.states, s)
		}
		return nil
	}
}

// WithTransition adds a single transition.
func WithTransition[S comparable, T any](from, to S, opts ...TransitionOption[S, T]) Option[S, T] {
	return func(m *Machine[S, T]) error {
		cfg := &transitionConfig[S, T]{}
		for _, opt := range opts {
			opt(cfg)
		}
		if err := m.add(from, to, cfg.guards, cfg.actions); err != nil {
			return fmt.Errorf("failed to add transition %s->%s: %w", name(from), name(to), err)
		}
		return nil
	}
}

// WithAnyTransition allows every declared state to move to every declared
// state, itself included.
func WithAnyTransition[S comparable, T any](opts ...TransitionOption[S, T]) Option[S, T] {
	return func(m *Machine[S, T]) error {
		for _, from := range m.states {
			for _, to := range m.states {
				if err := WithTransition(from, to, opts...)(m); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// WithForwardTransitions allows moves only to states declared later.
func WithForwardTransitions[S comparable, T any](opts ...TransitionOption[S, T]) Option[S, T] {
	return func(m *Machine[S, T]) error {
		for i, from := range m.states {
			for _, to := range m.states[i+1:] {
				if err := WithTransition(from, to, opts...)(m); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// WithEnterAction registers an action that runs on every transition into state.
func WithEnterAction[S comparable, T any](state S, action Action[S, T]) Option[S, T] {
	return func(m *Machine[S, T]) error {
		if _, ok := m.index[state]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownState, name(state))
		}
		if action != nil {
			m.enter[state] = append(m.enter[state], action)
		}
		return nil
	}
}

// WithGuard adds a single guard to a transition.
func WithGuard[S comparable, T any](guard Guard[S, T]) TransitionOption[S, T] {
	return func(cfg *transitionConfig[S, T]) {
		if guard != nil {
			cfg.guards = append(cfg.guards, guard)
		}
	}
}

// WithAction adds a single action to a transition.
func WithAction[S comparable, T any](action Action[S, T]) TransitionOption[S, T] {
	return func(cfg *transitionConfig[S, T]) {
		if action != nil {
			cfg.actions = append(cfg.actions, action)
		}
	}
}

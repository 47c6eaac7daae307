// Package statemachine provides a generic, stateless transition table for
// finite-state workflows.
//
// A Machine[S, T] knows the set of states S, which moves between them are
// allowed, and what has to happen to a subject T during a move. It does not
// remember a current state: the subject carries its own state, the caller
// passes it to Fire and persists whatever Fire returns. One machine can
// therefore serve any number of subjects concurrently.
//
// # Usage
//
//	type Doc struct {
//	    State     string
//	    Published time.Time
//	}
//
//	m := statemachine.MustNew(
//	    statemachine.WithStates[string, Doc]("draft", "review", "published"),
//	    statemachine.WithForwardTransitions[string, Doc](),
//	    statemachine.WithEnterAction("published", func(ctx context.Context, from, to string, d Doc) (Doc, error) {
//	        d.Published = time.Now()
//	        return d, nil
//	    }),
//	)
//
//	doc, err := m.Fire(ctx, doc.State, "published", doc)
//
// # Guards and Actions
//
// Guards veto a transition. Actions run after all guards pass, in order:
// transition actions first, then enter actions of the target state. Each
// action receives the subject returned by the previous one.
//
// # Error Handling
//
//	if statemachine.IsNoTransitionAvailableError(err) { /* move not defined */ }
//	if statemachine.IsTransitionRejectedError(err)   { /* guard said no */ }
//	if errors.Is(err, statemachine.ErrUnknownState)  { /* not declared */ }
package statemachine

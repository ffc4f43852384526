package graph

import (
	"context"
	"sync"
)

// NodeEvent represents different types of node events
type NodeEvent string

const (
	// NodeEventStart indicates a node has started execution
	NodeEventStart NodeEvent = "start"

	// NodeEventComplete indicates a node has completed successfully
	NodeEventComplete NodeEvent = "complete"

	// NodeEventError indicates a node encountered an error
	NodeEventError NodeEvent = "error"
)

// NodeListener receives node lifecycle events. On NodeEventStart state is the
// state the node runs against; on NodeEventComplete it is the partial update
// the node returned.
type NodeListener[S any] interface {
	OnNodeEvent(ctx context.Context, event NodeEvent, nodeName string, state S, err error)
}

// NodeListenerFunc is a function adapter for NodeListener
type NodeListenerFunc[S any] func(ctx context.Context, event NodeEvent, nodeName string, state S, err error)

// OnNodeEvent implements the NodeListener interface
func (f NodeListenerFunc[S]) OnNodeEvent(ctx context.Context, event NodeEvent, nodeName string, state S, err error) {
	f(ctx, event, nodeName, state, err)
}

// StepHandler is called after each superstep once the updates of every node
// in the step have been merged.
type StepHandler[S any] interface {
	OnGraphStep(ctx context.Context, step int, nodes []string, state S)
}

// StepHandlerFunc is a function adapter for StepHandler
type StepHandlerFunc[S any] func(ctx context.Context, step int, nodes []string, state S)

// OnGraphStep implements the StepHandler interface
func (f StepHandlerFunc[S]) OnGraphStep(ctx context.Context, step int, nodes []string, state S) {
	f(ctx, step, nodes, state)
}

// listenerSet fans events out to registered listeners one at a time, so a
// listener never sees two events concurrently even when nodes run in parallel.
type listenerSet[S any] struct {
	mu    sync.Mutex
	nodes []NodeListener[S]
	steps []StepHandler[S]
}

func (ls *listenerSet[S]) notifyNode(ctx context.Context, event NodeEvent, name string, state S, err error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for _, l := range ls.nodes {
		l.OnNodeEvent(ctx, event, name, state, err)
	}
}

func (ls *listenerSet[S]) notifyStep(ctx context.Context, step int, nodes []string, state S) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for _, h := range ls.steps {
		h.OnGraphStep(ctx, step, nodes, state)
	}
}

package graph

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/roshanshetty271/ShipOrSkip/parallel"
)

// StateGraph is a typed state graph. Nodes return partial updates of S that
// the graph's schema merges into the shared state between supersteps.
//
// Example usage:
//
//	type MyState struct {
//	    Items []string
//	    Done  bool
//	}
//
//	g := graph.NewStateGraph[MyState]()
//	g.AddNode("collect", "Collect items", func(ctx context.Context, state MyState) (MyState, error) {
//	    return MyState{Items: []string{"a"}}, nil
//	})
type StateGraph[S any] struct {
	// nodes is a map of node names to their corresponding Node objects
	nodes map[string]TypedNode[S]

	// order keeps insertion order for export and validation messages
	order []string

	// edges is a slice of Edge objects representing the connections between nodes
	edges []Edge

	// entryPoint is the name of the entry point node in the graph
	entryPoint string

	// maxSteps bounds the supersteps of one invocation
	maxSteps int

	// Schema defines the state structure and update logic
	Schema StateSchema[S]
}

// TypedNode represents a typed node in the graph.
type TypedNode[S any] struct {
	Name        string
	Description string
	Function    func(ctx context.Context, state S) (S, error)
}

// NewStateGraph creates a new instance of StateGraph.
func NewStateGraph[S any]() *StateGraph[S] {
	return &StateGraph[S]{
		nodes:    make(map[string]TypedNode[S]),
		maxSteps: DefaultMaxSteps,
	}
}

// AddNode adds a new node to the state graph with the given name, description and function.
func (g *StateGraph[S]) AddNode(name string, description string, fn func(ctx context.Context, state S) (S, error)) {
	if _, exists := g.nodes[name]; !exists {
		g.order = append(g.order, name)
	}
	g.nodes[name] = TypedNode[S]{
		Name:        name,
		Description: description,
		Function:    fn,
	}
}

// AddEdge adds a new edge to the state graph between the "from" and "to" nodes.
// Several edges from one node fan out; several edges into one node fan in.
func (g *StateGraph[S]) AddEdge(from, to string) {
	g.edges = append(g.edges, Edge{
		From: from,
		To:   to,
	})
}

// SetEntryPoint sets the entry point node name for the state graph.
func (g *StateGraph[S]) SetEntryPoint(name string) {
	g.entryPoint = name
}

// SetSchema sets the state schema for the graph.
func (g *StateGraph[S]) SetSchema(schema StateSchema[S]) {
	g.Schema = schema
}

// SetMaxSteps overrides DefaultMaxSteps.
func (g *StateGraph[S]) SetMaxSteps(n int) {
	if n > 0 {
		g.maxSteps = n
	}
}

// Nodes returns the nodes in insertion order.
func (g *StateGraph[S]) Nodes() []TypedNode[S] {
	out := make([]TypedNode[S], 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.nodes[name])
	}
	return out
}

// Edges returns a copy of the graph's edges.
func (g *StateGraph[S]) Edges() []Edge {
	return slices.Clone(g.edges)
}

// StateRunnable represents a compiled state graph that can be invoked.
type StateRunnable[S any] struct {
	graph     *StateGraph[S]
	listeners *listenerSet[S]
}

// Compile validates the graph and returns a StateRunnable instance.
func (g *StateGraph[S]) Compile() (*StateRunnable[S], error) {
	if g.entryPoint == "" {
		return nil, ErrEntryPointNotSet
	}
	if _, ok := g.nodes[g.entryPoint]; !ok {
		return nil, fmt.Errorf("%w: entry point %s", ErrNodeNotFound, g.entryPoint)
	}

	hasOutgoing := make(map[string]bool, len(g.nodes))
	for _, e := range g.edges {
		if _, ok := g.nodes[e.From]; !ok {
			return nil, fmt.Errorf("%w: %s (edge %s -> %s)", ErrNodeNotFound, e.From, e.From, e.To)
		}
		if _, ok := g.nodes[e.To]; !ok && e.To != END {
			return nil, fmt.Errorf("%w: %s (edge %s -> %s)", ErrNodeNotFound, e.To, e.From, e.To)
		}
		hasOutgoing[e.From] = true
	}
	for _, name := range g.order {
		if !hasOutgoing[name] {
			return nil, fmt.Errorf("%w: %s", ErrNoOutgoingEdge, name)
		}
	}

	return &StateRunnable[S]{
		graph:     g,
		listeners: &listenerSet[S]{},
	}, nil
}

// AddListener registers a node listener.
func (r *StateRunnable[S]) AddListener(l NodeListener[S]) *StateRunnable[S] {
	r.listeners.mu.Lock()
	r.listeners.nodes = append(r.listeners.nodes, l)
	r.listeners.mu.Unlock()
	return r
}

// AddStepHandler registers a handler called after every superstep.
func (r *StateRunnable[S]) AddStepHandler(h StepHandler[S]) *StateRunnable[S] {
	r.listeners.mu.Lock()
	r.listeners.steps = append(r.listeners.steps, h)
	r.listeners.mu.Unlock()
	return r
}

// Graph returns the graph this runnable was compiled from.
func (r *StateRunnable[S]) Graph() *StateGraph[S] {
	return r.graph
}

// Invoke executes the compiled graph from the entry point and returns the
// final state. All nodes of a superstep run concurrently against the same
// state; their updates are merged in node-name order once every node in the
// step has settled. The first node error, in the same order, stops the run.
func (r *StateRunnable[S]) Invoke(ctx context.Context, initialState S) (S, error) {
	state := initialState

	if r.graph.Schema != nil {
		var err error
		state, err = r.graph.Schema.Update(r.graph.Schema.Init(), initialState)
		if err != nil {
			var zero S
			return zero, fmt.Errorf("failed to initialize state with schema: %w", err)
		}
	}

	currentNodes := []string{r.graph.entryPoint}

	for step := 1; len(currentNodes) > 0; step++ {
		if step > r.graph.maxSteps {
			return state, fmt.Errorf("%w: %d", ErrMaxStepsExceeded, r.graph.maxSteps)
		}
		if err := ctx.Err(); err != nil {
			return state, err
		}

		results, errorsList := r.executeNodesParallel(ctx, currentNodes, state)

		for _, err := range errorsList {
			if err != nil {
				return state, err
			}
		}

		var err error
		state, err = r.mergeState(state, results)
		if err != nil {
			return state, err
		}

		r.listeners.notifyStep(ctx, step, slices.Clone(currentNodes), state)

		currentNodes = r.determineNextNodes(currentNodes)
	}

	return state, nil
}

// executeNodesParallel executes nodes in parallel and returns their results or errors.
func (r *StateRunnable[S]) executeNodesParallel(ctx context.Context, nodes []string, state S) ([]S, []error) {
	var wg sync.WaitGroup
	results := make([]S, len(nodes))
	errorsList := make([]error, len(nodes))

	for i, nodeName := range nodes {
		node, ok := r.graph.nodes[nodeName]
		if !ok {
			errorsList[i] = fmt.Errorf("%w: %s", ErrNodeNotFound, nodeName)
			continue
		}

		idx := i
		n := node

		parallel.SafeGo(&wg, func() {
			r.listeners.notifyNode(ctx, NodeEventStart, n.Name, state, nil)

			res, err := n.Function(ctx, state)
			if err != nil {
				nodeErr := &NodeError{Node: n.Name, Err: err}
				errorsList[idx] = nodeErr
				r.listeners.notifyNode(ctx, NodeEventError, n.Name, res, nodeErr)
				return
			}

			results[idx] = res
			r.listeners.notifyNode(ctx, NodeEventComplete, n.Name, res, nil)
		}, func(panicVal any) {
			nodeErr := &NodeError{Node: n.Name, Err: fmt.Errorf("panic: %v", panicVal)}
			errorsList[idx] = nodeErr
			var zero S
			r.listeners.notifyNode(ctx, NodeEventError, n.Name, zero, nodeErr)
		})
	}
	wg.Wait()
	return results, errorsList
}

// mergeState merges the node results into the current state.
func (r *StateRunnable[S]) mergeState(currentState S, results []S) (S, error) {
	state := currentState
	if r.graph.Schema == nil {
		if len(results) > 0 {
			state = results[len(results)-1]
		}
		return state, nil
	}
	for _, res := range results {
		var err error
		state, err = r.graph.Schema.Update(state, res)
		if err != nil {
			return currentState, fmt.Errorf("schema update failed: %w", err)
		}
	}
	return state, nil
}

// determineNextNodes collects the targets of every outgoing edge of the
// current step. A node reached from several predecessors runs once.
func (r *StateRunnable[S]) determineNextNodes(currentNodes []string) []string {
	nextNodesSet := make(map[string]bool)
	for _, nodeName := range currentNodes {
		for _, edge := range r.graph.edges {
			if edge.From == nodeName && edge.To != END {
				nextNodesSet[edge.To] = true
			}
		}
	}

	next := make([]string, 0, len(nextNodesSet))
	for node := range nextNodesSet {
		next = append(next, node)
	}
	slices.Sort(next)
	return next
}

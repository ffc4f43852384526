package graph

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flowState struct {
	Input string
	Trail []string
	Out   string
}

func flowSchema() *FieldMerger[flowState] {
	s := NewFieldMerger(flowState{})
	s.RegisterFieldMerge("Trail", AppendSliceMerge)
	return s
}

func visit(name string) func(context.Context, flowState) (flowState, error) {
	return func(ctx context.Context, s flowState) (flowState, error) {
		return flowState{Trail: []string{name}}, nil
	}
}

func diamond() *StateGraph[flowState] {
	g := NewStateGraph[flowState]()
	g.AddNode("plan", "plan", visit("plan"))
	g.AddNode("a", "a", visit("a"))
	g.AddNode("b", "b", visit("b"))
	g.AddNode("c", "c", visit("c"))
	g.AddNode("join", "join", func(ctx context.Context, s flowState) (flowState, error) {
		trail := append([]string(nil), s.Trail...)
		sort.Strings(trail)
		return flowState{Trail: []string{"join"}, Out: s.Input + ":" + trail[0]}, nil
	})
	g.SetEntryPoint("plan")
	g.AddEdge("plan", "a")
	g.AddEdge("plan", "b")
	g.AddEdge("plan", "c")
	g.AddEdge("a", "join")
	g.AddEdge("b", "join")
	g.AddEdge("c", "join")
	g.AddEdge("join", END)
	g.SetSchema(flowSchema())
	return g
}

func TestInvoke_FanOutFanIn(t *testing.T) {
	r, err := diamond().Compile()
	require.NoError(t, err)

	out, err := r.Invoke(context.Background(), flowState{Input: "x"})
	require.NoError(t, err)

	// Parallel branches merge in node-name order; the joined node runs once.
	assert.Equal(t, []string{"plan", "a", "b", "c", "join"}, out.Trail)
	assert.Equal(t, "x:a", out.Out)
}

func TestInvoke_BranchesRunConcurrently(t *testing.T) {
	g := NewStateGraph[flowState]()
	var wg sync.WaitGroup
	wg.Add(2)
	barrier := func(name string) func(context.Context, flowState) (flowState, error) {
		return func(ctx context.Context, s flowState) (flowState, error) {
			wg.Done()
			wg.Wait()
			return flowState{Trail: []string{name}}, nil
		}
	}
	g.AddNode("start", "start", visit("start"))
	g.AddNode("left", "left", barrier("left"))
	g.AddNode("right", "right", barrier("right"))
	g.SetEntryPoint("start")
	g.AddEdge("start", "left")
	g.AddEdge("start", "right")
	g.AddEdge("left", END)
	g.AddEdge("right", END)
	g.SetSchema(flowSchema())

	r, err := g.Compile()
	require.NoError(t, err)

	done := make(chan flowState, 1)
	go func() {
		out, _ := r.Invoke(context.Background(), flowState{})
		done <- out
	}()

	select {
	case out := <-done:
		assert.Equal(t, []string{"start", "left", "right"}, out.Trail)
	case <-time.After(2 * time.Second):
		t.Fatal("parallel branches did not run concurrently")
	}
}

func TestInvoke_NodeErrorStopsRun(t *testing.T) {
	g := NewStateGraph[flowState]()
	boom := errors.New("boom")
	g.AddNode("a", "a", visit("a"))
	g.AddNode("b", "b", func(ctx context.Context, s flowState) (flowState, error) { return flowState{}, boom })
	g.AddNode("c", "c", visit("c"))
	g.SetEntryPoint("a")
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", END)
	g.SetSchema(flowSchema())

	r, err := g.Compile()
	require.NoError(t, err)

	out, err := r.Invoke(context.Background(), flowState{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var nodeErr *NodeError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "b", nodeErr.Node)
	assert.Equal(t, []string{"a"}, out.Trail)
}

func TestInvoke_PanicBecomesError(t *testing.T) {
	g := NewStateGraph[flowState]()
	g.AddNode("a", "a", func(ctx context.Context, s flowState) (flowState, error) { panic("kaboom") })
	g.SetEntryPoint("a")
	g.AddEdge("a", END)

	r, err := g.Compile()
	require.NoError(t, err)

	_, err = r.Invoke(context.Background(), flowState{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestInvoke_CancelledContext(t *testing.T) {
	r, err := diamond().Compile()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Invoke(ctx, flowState{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInvoke_MaxSteps(t *testing.T) {
	g := NewStateGraph[flowState]()
	g.AddNode("loop", "loop", visit("loop"))
	g.SetEntryPoint("loop")
	g.AddEdge("loop", "loop")
	g.SetMaxSteps(3)
	g.SetSchema(flowSchema())

	r, err := g.Compile()
	require.NoError(t, err)

	out, err := r.Invoke(context.Background(), flowState{})
	assert.ErrorIs(t, err, ErrMaxStepsExceeded)
	assert.Len(t, out.Trail, 3)
}

func TestInvoke_WithoutSchemaLastResultWins(t *testing.T) {
	g := NewStateGraph[flowState]()
	g.AddNode("a", "a", func(ctx context.Context, s flowState) (flowState, error) {
		return flowState{Out: "from a"}, nil
	})
	g.SetEntryPoint("a")
	g.AddEdge("a", END)

	r, err := g.Compile()
	require.NoError(t, err)

	out, err := r.Invoke(context.Background(), flowState{Input: "dropped"})
	require.NoError(t, err)
	assert.Equal(t, flowState{Out: "from a"}, out)
}

func TestCompile_Validation(t *testing.T) {
	noop := visit("x")

	g := NewStateGraph[flowState]()
	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrEntryPointNotSet)

	g = NewStateGraph[flowState]()
	g.SetEntryPoint("missing")
	_, err = g.Compile()
	assert.ErrorIs(t, err, ErrNodeNotFound)

	g = NewStateGraph[flowState]()
	g.AddNode("a", "a", noop)
	g.SetEntryPoint("a")
	g.AddEdge("a", "ghost")
	_, err = g.Compile()
	assert.ErrorIs(t, err, ErrNodeNotFound)

	g = NewStateGraph[flowState]()
	g.AddNode("a", "a", noop)
	g.AddNode("b", "b", noop)
	g.SetEntryPoint("a")
	g.AddEdge("a", "b")
	_, err = g.Compile()
	assert.ErrorIs(t, err, ErrNoOutgoingEdge)
}

func TestNodesAndEdgesAccessors(t *testing.T) {
	g := diamond()

	names := make([]string, 0)
	for _, n := range g.Nodes() {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"plan", "a", "b", "c", "join"}, names)
	assert.Len(t, g.Edges(), 7)
}

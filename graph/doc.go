// Package graph is a small typed state-graph engine.
//
// A StateGraph[S] holds named nodes and static edges. Invoke runs the graph
// in supersteps: every node scheduled for a step runs concurrently against
// the same state snapshot, each returns a partial update of S, and the
// graph's StateSchema merges those updates once the whole step has settled.
// Several edges leaving a node fan out; several edges entering a node fan in,
// and the joined node runs once after all its predecessors in the step.
//
// FieldMerger gives struct states per-field merge rules. List fields that
// parallel branches write together are registered with AppendSliceMerge;
// every other field is overwritten by non-zero updates:
//
//	schema := graph.NewFieldMerger(State{})
//	schema.RegisterFieldMerge("Hits", graph.AppendSliceMerge)
//	g.SetSchema(schema)
//
// Node listeners observe start, completion and failure of every node, and
// step handlers observe the merged state after every superstep. Exporter
// renders the topology as Mermaid or an ASCII tree.
package graph

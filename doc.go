// Package duorc implements an eager reference-counting heap for a
// managed-object model with fixed-arity nodes.
//
// Every node is a header (a count, a field-length, a shared-mode flag
// and a spin lock) followed by a fixed vector of field slots, each
// holding either nil or a pointer to another node. Four handle kinds
// share this header:
//
//   - Handle, the dynamic handle: dispatches per-node between the
//     solo and shared protocols based on the node's is-shared flag,
//     and propagates that flag ahead of publication (see MarkShared).
//     This is the one meant for production use.
//   - SoloHandle: always the cheap, non-atomic, unlocked protocol.
//   - ThreadSafeHandle: always the atomic, spin-locked protocol.
//   - ManualHandle: no counting at all; the caller frees explicitly.
//     Exists only as a benchmarking baseline.
//
// The graph is assumed acyclic. There is no cycle collector.
package duorc

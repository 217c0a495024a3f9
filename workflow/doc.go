// Package workflow implements the taskweave orchestrator: a round-based
// scheduler that executes registered agents over a task dependency graph.
//
// Each round the readiness resolver selects every pending task whose
// dependencies have all completed, ordered by priority (registration order
// breaks ties). The executor runs the round either strictly sequentially or
// as a bounded concurrent batch, applying exponential-backoff retries per
// task, then the checkpoint store persists recoverable state. Rounds repeat
// until every task is terminal or the graph is stuck.
//
// Parallelism is batched: the loop never starts round N+1 until round N has
// fully settled, and a slot freed by an early finisher is not reused within
// the round. This keeps scheduling deterministic at the cost of some
// utilization.
package workflow

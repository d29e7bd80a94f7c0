// Package harness runs spell scenarios: scripted sequences of operations,
// each made under a named call context, checked against expectations and
// recorded as a deterministic trace for golden comparison.
//
// # Scenario Format
//
//	name: host_cannot_write_private
//	description: "Host writes only h_ and hw_ keys"
//	capacity:          # optional journal bounds
//	  logs: 5
//	contexts:          # optional; spell, worker, host, outside are predefined
//	  relay_owner:
//	    caller: 12D3KooWWorker
//	    particle: p-1
//	    service_id: test-spell
//	    creator: 12D3KooWWorker
//	    worker: 12D3KooWWorker
//	    host: 12D3KooWHost
//	steps:
//	  - call: set_string
//	    as: host
//	    args: [private, v]
//	    expect:
//	      success: false
//	      code: FORBIDDEN
//	  - call: store_log
//	    as: spell
//	    args: ["log {i}"]
//	    repeat: 7      # {i} is replaced by the iteration index
//	assertions:
//	  - type: journal_count
//	    journal: logs
//	    count: 5
//
// # Determinism
//
// Each scenario runs against a fresh in-memory store whose clock starts at
// testutil.Epoch and advances one second per journal append, so the trace of
// a scenario is byte-identical across runs.
//
// # Golden Files
//
// The trace is rendered as canonical JSON (sorted keys, no insignificant
// whitespace) and compared with testdata/golden/<name>.golden via goldie.
// Regenerate with:
//
//	go test ./internal/harness -update
package harness

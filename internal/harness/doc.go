// Package harness provides declarative conformance scenarios for the
// observation oracle.
//
// Scenarios are YAML files declaring observable members, a step
// sequence that feeds and expects observations, and assertions over
// the resulting report trace:
//
//	name: greeting
//	description: "Greeting event matches on arguments"
//	members:
//	  - name: Greeted
//	    kind: event
//	    params: [string]
//	steps:
//	  - feed_event:
//	      member: Greeted
//	      args: ["hello"]
//	  - expect_event:
//	      patterns:
//	        - member: Greeted
//	          args: ["hello"]
//	      expect_match: 0
//	assertions:
//	  - type: trace_count
//	    kind: assert
//	    count: 1
//
// # Assertion Types
//
//   - trace_contains: some entry matches kind/description (and outcome)
//   - trace_order: entries with given descriptions appear in order
//   - trace_count: exactly N entries match the filter
//
// # Deterministic Testing
//
// Every run uses a deterministic clock for observation timestamps and,
// when the scenario pins a run token, a fixed token generator for the
// archive. Identical scenarios therefore produce byte-identical
// canonical traces, which golden comparison depends on.
package harness

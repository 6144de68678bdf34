// Package writers turns reports and scanned records into serialized outputs.
//
// Design:
//   - Writers own all presentation dispatch (text/JSON/JSONL/CSV).
//   - Engine stays domain-only; Pipeline stays orchestration-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers

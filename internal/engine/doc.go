// Package engine ties the core packages into calibrated motif models. It
// never imports app, writers, cli, or pipeline; keep it domain-only.
//
// External outputs must not depend on the internal shape here. Use pkg/api
// for stable wire types (JSON/JSONL v1).
package engine

// Package pipeline sequences one upload run end to end.
//
// # Overview
//
// A run takes an ordered candidate list from a Discoverer and drives each
// candidate through the two external tools: the PAR2 generator first, then
// the poster. Outcomes are classified per item and collected into a Report;
// a failed item never aborts the run. The resume ledger drops candidates
// recorded by earlier runs and receives a record for every success-class
// post, so re-running the same tree is idempotent.
//
// # Modes
//
// One Mode per run selects which stages execute:
//
//   - Default:      recover pending raw articles, then generate and post
//   - SkipRaw:      generate and post, raw articles left alone
//   - OnlyGenerate: generate only, nothing posted or recorded
//   - OnlyPost:     post with pre-existing PAR2 sets, skip generation
//   - OnlyRaw:      recover pending raw articles, then stop
//   - OnlyMove:     sort files into per-title directories, then stop
//   - ClearRaw:     delete pending raw articles, then stop
//   - ClearResume:  wipe resume ledger entries, then stop
//
// Modes are mutually exclusive; ResolveMode rejects combined switches.
//
// # Failure Semantics
//
// Per-item tool failures are data on the Report, never errors. Only three
// things abort a run: a missing collaborator at construction, a ledger
// storage fault, and context cancellation. Cancellation is checked between
// items and kills the in-flight external process; the interrupted item gets
// no ledger entry, and Run returns the partial Report with ErrCancelled.
//
// See Pipeline.Run for the exact stage order.
package pipeline

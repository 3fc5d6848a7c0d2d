// Package store materializes conversion output into SQLite so finished
// runs can be queried and compared without re-reading the ntuples.
//
// Schema changes ship as file-based migrations under migrations/ at the
// repository root; the CLI applies them with the migrate subcommand.
// Two tables exist: analysis_runs records one row per conversion pass,
// phsp_results one row per successfully converted candidate.
package store

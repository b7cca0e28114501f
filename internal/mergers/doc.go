// Package mergers loads per-simulation merger-history tables
// (Mergers_TNG<sim>-1.csv) and exposes dbid-keyed lookups used to label
// catalog rows. A missing table degrades to default labels rather than
// failing the run.
package mergers

// Package pipeline orchestrates batch runs: each URL is parsed, downloaded,
// split into per-filter images, and accumulated into catalog entries, with
// every state transition recorded in the ledger. URLs are independent and
// processed by a bounded worker pool; the catalog is merged and written
// exactly once after all workers finish, followed by the failure report.
package pipeline

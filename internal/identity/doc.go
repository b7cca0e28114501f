// Package identity derives simulation/snapshot/subhalo/version identifiers
// from TNG API image URLs and turns them into deterministic parent and split
// filenames.
//
// All functions are pure: the same input string always yields the same
// identity or the same field-level parse error. Version is the only field
// allowed to degrade; when no v<N> token is present in the source filename it
// falls back to the VersionUnknown placeholder instead of failing.
package identity

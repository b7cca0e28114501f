// Package preflight provides readiness checks for the filesystem paths and
// the upstream API that a batch run depends on.
//
// These checks run in two contexts:
//   - The split command calls RunAll before starting a batch. If any check
//     fails, the run aborts up front instead of failing URL by URL.
//   - The CLI "skysplit status" command uses the same checks to display
//     environment health.
package preflight

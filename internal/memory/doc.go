// Package memory keeps the gallery inside its container memory budget.
//
// [ApplyLimit] sets GOMEMLIMIT from MEMORY_LIMIT (typically injected through
// the Kubernetes Downward API) scaled by MEMORY_RATIO. An explicit GOMEMLIMIT
// always wins.
//
// [Monitor] samples heap usage against that limit. Thumbnails are held in
// memory, so when usage crosses the critical mark the monitor calls its
// release hook, which the server wires to purging the thumbnail cache.
// Thumbnails are regenerated on demand afterwards.
package memory

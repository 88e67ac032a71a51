// Package roadnet loads the road centerline geometry that the live
// traffic layer is drawn from. The full network comes from a bulk GML
// document parsed off the caller's goroutine and cached locally, with a
// paged viewport-scoped fallback for backends that only serve pages.
// Segments are deduplicated by route identifier for the life of a loader.
package roadnet

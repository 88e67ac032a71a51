// Package layers is the orchestrator. It owns every dataset's in-memory
// state and load lifecycle: the initial parallel fetch of essential
// datasets, lazy loads triggered by layer visibility, viewport-scoped
// refetches guarded by per-layer generation counters, the chunked road
// geometry stream and the periodic speed restyle. Rendering is delegated
// to a collaborator interface.
package layers

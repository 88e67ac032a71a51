// Package fetch implements the shared HTTP retrieval layer. Every request
// first goes to the origin, then falls through the configured proxy list,
// and the whole chain is retried with exponential backoff for transient
// failures. Client errors such as 404 abort immediately.
package fetch

// Package speed maintains the live traffic picture: it decodes the
// journey-time feed into per-segment readings, classifies each reading
// into a reliability tier and re-styles already drawn road geometry on a
// fixed interval without ever re-fetching the geometry itself.
package speed

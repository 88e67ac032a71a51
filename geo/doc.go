// Package geo provides the small geometry helpers shared by the layer
// loaders and the navigation session: great-circle distance, point to
// segment projection and bounding-box filtering over orb geometries.
package geo

// Package decode turns the raw dataset payloads into feature collections
// and row sets. It understands GeoJSON documents, KML and zipped KMZ
// archives, and the CSV layout used by the tabular sources.
package decode

package geo

// Style describes how a rendered feature is drawn. Colors are CSS hex
// strings so the values can be handed straight to a map client.
type Style struct {
	Color  string
	Weight int
}

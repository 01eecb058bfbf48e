package extractor

// StateLink is one entry of the directory's top-level state menu.
// Href is the raw href attribute, usually root-relative.
type StateLink struct {
	Name string
	Href string
}

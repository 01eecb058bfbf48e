package extractor

// Selectors for the park directory's markup. They describe the structure
// the directory actually serves; a change on the remote side breaks
// extraction and surfaces as ErrCauseNoStateMenu / ErrCauseNoParkList.
const (
	// Top-level navigation dropdown holding one <li><a> per state.
	selectorStateMenu = ".dropdown-menu.SearchBar-keywordSearch"
	// State page container holding one <li> per park, each with a detail link.
	selectorParkList = "#list_parks"

	// Detail page fields. All optional; a missing field is substituted
	// with a sentinel downstream, never treated as an error here.
	selectorSiteName        = ".Hero-title"
	selectorSiteDesignation = ".Hero-designation"
	selectorAddressLocality = "[itemprop=addressLocality]"
	selectorAddressRegion   = "[itemprop=addressRegion]"
	selectorPostalCode      = "[itemprop=postalCode]"
	selectorPhone           = "[itemprop=telephone]"
)

package urlutil

import "net/url"

// ResolveRef resolves an href found in a directory page against the page's
// base URL, producing an absolute URL string.
//
// Directory pages emit root-relative hrefs (e.g. "/state/mi/index.htm");
// resolving against the base yields the fetchable absolute form.
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
//   - Absolute hrefs pass through untouched
//
// An href that cannot be parsed as a URL reference falls back to plain
// concatenation with the base, which matches how the legacy cache keys
// were built and therefore keeps key compatibility.
func ResolveRef(base url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return base.String() + href
	}
	return base.ResolveReference(ref).String()
}

package fetcher

import (
	"net/url"
)

// HTTP boundary

type FetchParam struct {
	fetchUrl  url.URL
	userAgent string
}

func NewFetchParam(fetchUrl url.URL, userAgent string) FetchParam {
	return FetchParam{
		fetchUrl:  fetchUrl,
		userAgent: userAgent,
	}
}

type FetchResult struct {
	url  url.URL
	body []byte
	meta ResponseMeta
}

func (f *FetchResult) URL() url.URL {
	return f.url
}

func (f *FetchResult) Body() []byte {
	return f.body
}

func (f *FetchResult) Code() int {
	return f.meta.statusCode
}

func (f *FetchResult) Headers() map[string]string {
	return f.meta.responseHeaders
}

type ResponseMeta struct {
	statusCode      int
	responseHeaders map[string]string
}

// Geolocation search boundary

type SearchParam struct {
	endpoint    url.URL
	apiKey      string
	origin      string
	radius      int
	maxMatches  int
	ambiguities string
}

func NewSearchParam(
	endpoint url.URL,
	apiKey string,
	origin string,
	radius int,
	maxMatches int,
	ambiguities string,
) SearchParam {
	return SearchParam{
		endpoint:    endpoint,
		apiKey:      apiKey,
		origin:      origin,
		radius:      radius,
		maxMatches:  maxMatches,
		ambiguities: ambiguities,
	}
}

type SearchResult struct {
	origin string
	body   []byte
}

func (s *SearchResult) Origin() string {
	return s.origin
}

func (s *SearchResult) Body() []byte {
	return s.body
}

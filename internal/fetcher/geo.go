package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

/*
Responsibilities

- Issue radius searches against the geolocation API
- Encode the fixed query parameters and the origin postal code
- Classify responses

Search Semantics

- The raw JSON response body is returned unmodified; callers decide how
  to interpret or display it
- A failed request is never retried
*/

type GeoFetcher struct {
	metadataSink metadata.MetadataSink
	httpClient   *http.Client
}

func NewGeoFetcher(
	metadataSink metadata.MetadataSink,
	timeout time.Duration,
) GeoFetcher {
	return GeoFetcher{
		metadataSink: metadataSink,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

func (g *GeoFetcher) Search(
	ctx context.Context,
	searchParam SearchParam,
) (SearchResult, failure.ClassifiedError) {
	startTime := time.Now()

	searchUrl := searchURL(searchParam)
	result, err := g.performSearch(ctx, searchUrl, searchParam.origin)

	duration := time.Since(startTime)

	if err != nil {
		g.recordSearchError("GeoFetcher.Search", searchUrl, err)
		return SearchResult{}, err
	}

	g.metadataSink.RecordFetch(
		searchUrl.String(),
		http.StatusOK,
		duration,
	)

	return result, nil
}

// searchURL builds the radius-search request URL. The API key travels as
// a query parameter, which is why search URLs are never cached or echoed.
func searchURL(searchParam SearchParam) url.URL {
	searchUrl := searchParam.endpoint
	query := url.Values{}
	query.Set("key", searchParam.apiKey)
	query.Set("origin", searchParam.origin)
	query.Set("radius", strconv.Itoa(searchParam.radius))
	query.Set("maxMatches", strconv.Itoa(searchParam.maxMatches))
	query.Set("ambiguities", searchParam.ambiguities)
	query.Set("outFormat", "json")
	searchUrl.RawQuery = query.Encode()
	return searchUrl
}

func (g *GeoFetcher) performSearch(ctx context.Context, searchUrl url.URL, origin string) (SearchResult, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchUrl.String(), nil)
	if err != nil {
		return SearchResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return SearchResult{}, &FetchError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	defer resp.Body.Close()

	if classified := classifyStatus(resp.StatusCode); classified != nil {
		return SearchResult{}, classified
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SearchResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to read response body: %v", err),
			Retryable: true,
			Cause:     ErrCauseReadResponseBodyError,
		}
	}

	return SearchResult{
		origin: origin,
		body:   body,
	}, nil
}

func (g *GeoFetcher) recordSearchError(callerMethod string, searchUrl url.URL, err failure.ClassifiedError) {
	var fetchError *FetchError
	if errors.As(err, &fetchError) {
		g.metadataSink.RecordError(
			time.Now(),
			"fetcher",
			callerMethod,
			mapFetchErrorToMetadataCause(fetchError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, searchUrl.Host+searchUrl.Path),
			},
		)
	}
}

package resolver

import (
	"context"
	"net/url"
	"strings"

	"github.com/rohmanhakim/parks-explorer/internal/cache"
	"github.com/rohmanhakim/parks-explorer/internal/config"
	"github.com/rohmanhakim/parks-explorer/internal/extractor"
	"github.com/rohmanhakim/parks-explorer/internal/fetcher"
	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
	"github.com/rohmanhakim/parks-explorer/pkg/urlutil"
)

/*
 Resolver owns the cache-or-fetch policy for every request shape.

 Policy, applied uniformly per request key:
 - Load the store from disk.
 - Key present: return the stored value. No network access.
 - Key absent: perform the live fetch, normalize, write the value under
   the key, persist the full store, return the value.

 Guarantees:
 - At most one live fetch per key per store lifetime: once a key exists
   in the persisted store its value is authoritative forever. There is
   no invalidation, no TTL, no staleness detection.
 - Every operation reloads the store before consulting it, so a value
   persisted by an earlier call in the same process is always visible.
 - Resolution is single-threaded and blocking. Two processes sharing one
   cache file race with last-writer-wins semantics; that is accepted for
   a single-user interactive tool.

 The resolver is the ONLY component that reads or writes the store.
 Fetchers and the extractor stay stateless collaborators.
*/

// StateIndexKey is the fixed sentinel key the state index lives under.
// It predates this implementation: existing cache files already use it.
const StateIndexKey = "state_url_dict"

type Resolver struct {
	cfg          config.Config
	store        cache.FileStore
	pages        fetcher.Fetcher
	geo          fetcher.GeoSearcher
	dom          extractor.DomExtractor
	metadataSink metadata.MetadataSink
}

func New(cfg config.Config, metadataSink metadata.MetadataSink) Resolver {
	store := cache.NewFileStore(cfg.CacheFile(), metadataSink)
	htmlFetcher := fetcher.NewHtmlFetcher(metadataSink, cfg.Timeout())
	geoFetcher := fetcher.NewGeoFetcher(metadataSink, cfg.Timeout())
	dom := extractor.NewDomExtractor(metadataSink)
	return Resolver{
		cfg:          cfg,
		store:        store,
		pages:        &htmlFetcher,
		geo:          &geoFetcher,
		dom:          dom,
		metadataSink: metadataSink,
	}
}

// NewWithDeps creates a Resolver with injected fetchers for testing.
func NewWithDeps(
	cfg config.Config,
	pages fetcher.Fetcher,
	geo fetcher.GeoSearcher,
	metadataSink metadata.MetadataSink,
) Resolver {
	store := cache.NewFileStore(cfg.CacheFile(), metadataSink)
	dom := extractor.NewDomExtractor(metadataSink)
	return Resolver{
		cfg:          cfg,
		store:        store,
		pages:        pages,
		geo:          geo,
		dom:          dom,
		metadataSink: metadataSink,
	}
}

// StateIndex resolves the lowercase state name to directory URL mapping,
// building it from the directory root page on a cache miss.
func (r *Resolver) StateIndex(ctx context.Context) (cache.StateIndex, failure.ClassifiedError) {
	store := r.store.Load()
	if value, ok := store[StateIndexKey]; ok {
		index, ok := value.StateIndex()
		if !ok {
			return nil, r.shapeMismatch("Resolver.StateIndex", StateIndexKey)
		}
		r.metadataSink.RecordCacheHit(StateIndexKey)
		return index, nil
	}

	base := r.cfg.BaseURL()
	result, err := r.pages.Fetch(ctx, fetcher.NewFetchParam(base, r.cfg.UserAgent()))
	if err != nil {
		return nil, err
	}
	links, err := r.dom.StateLinks(base, result.Body())
	if err != nil {
		return nil, err
	}

	index := make(cache.StateIndex, len(links))
	for _, link := range links {
		index[strings.ToLower(link.Name)] = urlutil.ResolveRef(base, link.Href)
	}

	store[StateIndexKey] = cache.NewStateIndexValue(index)
	if err := r.store.Save(store); err != nil {
		return nil, err
	}
	return index, nil
}

func (r *Resolver) parseSiteURL(raw string, callerMethod string) (url.URL, failure.ClassifiedError) {
	parsed, err := url.Parse(raw)
	if err != nil {
		resolveErr := &ResolveError{
			Message: err.Error(),
			Cause:   ErrCauseBadURL,
			Key:     raw,
		}
		r.recordResolveError(callerMethod, resolveErr)
		return url.URL{}, resolveErr
	}
	return *parsed, nil
}

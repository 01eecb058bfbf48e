package resolver

import (
	"context"

	"github.com/rohmanhakim/parks-explorer/internal/cache"
	"github.com/rohmanhakim/parks-explorer/internal/fetcher"
	"github.com/rohmanhakim/parks-explorer/internal/site"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
	"github.com/rohmanhakim/parks-explorer/pkg/urlutil"
)

// SitesForState resolves the full site records for one state page.
//
// The state URL key only shortcuts URL discovery: each site in the list
// still goes through its own independent cache check in Site, so a state
// whose URL list is cached can still trigger detail fetches for sites
// that were never resolved.
func (r *Resolver) SitesForState(ctx context.Context, stateURL string) ([]site.Record, failure.ClassifiedError) {
	siteURLs, err := r.siteURLs(ctx, stateURL)
	if err != nil {
		return nil, err
	}

	records := make([]site.Record, 0, len(siteURLs))
	for _, siteURL := range siteURLs {
		record, err := r.Site(ctx, siteURL)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// siteURLs resolves the ordered detail-page URL list for one state,
// keyed by the state's directory URL.
func (r *Resolver) siteURLs(ctx context.Context, stateURL string) (cache.SiteURLList, failure.ClassifiedError) {
	store := r.store.Load()
	if value, ok := store[stateURL]; ok {
		urls, ok := value.SiteURLs()
		if !ok {
			return nil, r.shapeMismatch("Resolver.siteURLs", stateURL)
		}
		r.metadataSink.RecordCacheHit(stateURL)
		return urls, nil
	}

	fetchUrl, err := r.parseSiteURL(stateURL, "Resolver.siteURLs")
	if err != nil {
		return nil, err
	}
	result, err := r.pages.Fetch(ctx, fetcher.NewFetchParam(fetchUrl, r.cfg.UserAgent()))
	if err != nil {
		return nil, err
	}
	hrefs, err := r.dom.ParkLinks(fetchUrl, result.Body())
	if err != nil {
		return nil, err
	}

	base := r.cfg.BaseURL()
	urls := make(cache.SiteURLList, 0, len(hrefs))
	for _, href := range hrefs {
		urls = append(urls, urlutil.ResolveRef(base, href))
	}

	store[stateURL] = cache.NewSiteURLListValue(urls)
	if err := r.store.Save(store); err != nil {
		return nil, err
	}
	return urls, nil
}

// Site resolves one site's normalized record, keyed by its detail-page URL.
func (r *Resolver) Site(ctx context.Context, siteURL string) (site.Record, failure.ClassifiedError) {
	store := r.store.Load()
	if value, ok := store[siteURL]; ok {
		record, ok := value.Site()
		if !ok {
			return site.Record{}, r.shapeMismatch("Resolver.Site", siteURL)
		}
		r.metadataSink.RecordCacheHit(siteURL)
		return record, nil
	}

	fetchUrl, err := r.parseSiteURL(siteURL, "Resolver.Site")
	if err != nil {
		return site.Record{}, err
	}
	result, err := r.pages.Fetch(ctx, fetcher.NewFetchParam(fetchUrl, r.cfg.UserAgent()))
	if err != nil {
		return site.Record{}, err
	}
	fields, err := r.dom.SiteFields(fetchUrl, result.Body())
	if err != nil {
		return site.Record{}, err
	}

	record := site.Normalize(fields)

	store[siteURL] = cache.NewSiteValue(record)
	if err := r.store.Save(store); err != nil {
		return site.Record{}, err
	}
	return record, nil
}

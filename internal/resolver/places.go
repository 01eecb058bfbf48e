package resolver

import (
	"context"

	"github.com/rohmanhakim/parks-explorer/internal/cache"
	"github.com/rohmanhakim/parks-explorer/internal/fetcher"
	"github.com/rohmanhakim/parks-explorer/internal/site"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

// NearbyPlaces resolves the raw nearby-places payload for one site,
// keyed by the site's postal code.
//
// The key is the record's zipcode even when it is the "No Zipcode"
// placeholder: every site lacking an address shares that one cache slot,
// and the search request still goes out with the placeholder as origin.
// Existing cache files carry such entries, so the behavior stays.
func (r *Resolver) NearbyPlaces(ctx context.Context, record site.Record) (cache.PlacesPayload, failure.ClassifiedError) {
	key := record.Zipcode

	store := r.store.Load()
	if value, ok := store[key]; ok {
		payload, ok := value.Places()
		if !ok {
			return nil, r.shapeMismatch("Resolver.NearbyPlaces", key)
		}
		r.metadataSink.RecordCacheHit(key)
		return payload, nil
	}

	result, err := r.geo.Search(ctx, fetcher.NewSearchParam(
		r.cfg.SearchURL(),
		r.cfg.APIKey(),
		record.Zipcode,
		r.cfg.SearchRadius(),
		r.cfg.MaxMatches(),
		r.cfg.Ambiguities(),
	))
	if err != nil {
		return nil, err
	}

	payload := cache.PlacesPayload(result.Body())

	store[key] = cache.NewPlacesValue(payload)
	if err := r.store.Save(store); err != nil {
		return nil, err
	}
	return payload, nil
}

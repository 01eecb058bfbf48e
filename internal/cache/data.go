package cache

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rohmanhakim/parks-explorer/internal/site"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindStateIndex Kind = iota
	KindSiteURLList
	KindSite
	KindPlaces
)

// StateIndex maps a lowercase state name to its directory-page URL.
type StateIndex map[string]string

// SiteURLList is the ordered list of site detail-page URLs for one state.
type SiteURLList []string

// PlacesPayload is the raw structured response from the geolocation
// search, stored and returned unmodified.
type PlacesPayload []byte

/*
Value is the tagged variant stored under a cache key.

Exactly one variant is set per Value, so a caller can never misinterpret
a key's stored shape: the typed accessors report whether the Value holds
the requested variant.

Serialization stays compatible with the legacy flat cache file: a Value
marshals to its bare payload (no tag envelope), and loading sniffs the
shape back from the payload. The persisted shapes are disjoint enough
for the sniff to be unambiguous:
  - JSON array                                -> site URL list
  - object with exactly the five record keys  -> site record
  - object whose values are all strings       -> state index
  - anything else                             -> places payload
*/
type Value struct {
	kind       Kind
	stateIndex StateIndex
	siteURLs   SiteURLList
	site       site.Record
	places     PlacesPayload
}

func NewStateIndexValue(index StateIndex) Value {
	return Value{kind: KindStateIndex, stateIndex: index}
}

func NewSiteURLListValue(urls SiteURLList) Value {
	return Value{kind: KindSiteURLList, siteURLs: urls}
}

func NewSiteValue(record site.Record) Value {
	return Value{kind: KindSite, site: record}
}

func NewPlacesValue(payload PlacesPayload) Value {
	return Value{kind: KindPlaces, places: payload}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) StateIndex() (StateIndex, bool) {
	return v.stateIndex, v.kind == KindStateIndex
}

func (v Value) SiteURLs() (SiteURLList, bool) {
	return v.siteURLs, v.kind == KindSiteURLList
}

func (v Value) Site() (site.Record, bool) {
	return v.site, v.kind == KindSite
}

func (v Value) Places() (PlacesPayload, bool) {
	return v.places, v.kind == KindPlaces
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindStateIndex:
		return json.Marshal(v.stateIndex)
	case KindSiteURLList:
		return json.Marshal(v.siteURLs)
	case KindSite:
		return json.Marshal(v.site)
	case KindPlaces:
		if !json.Valid(v.places) {
			return nil, fmt.Errorf("places payload is not valid JSON")
		}
		return v.places, nil
	default:
		return nil, fmt.Errorf("unknown cache value kind %d", v.kind)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return fmt.Errorf("empty cache value")
	}

	if trimmed[0] == '[' {
		var urls SiteURLList
		if err := json.Unmarshal(data, &urls); err != nil {
			return err
		}
		*v = NewSiteURLListValue(urls)
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	switch {
	case isSiteShape(fields):
		var record site.Record
		if err := json.Unmarshal(data, &record); err != nil {
			return err
		}
		*v = NewSiteValue(record)
	case allStringValues(fields):
		var index StateIndex
		if err := json.Unmarshal(data, &index); err != nil {
			return err
		}
		*v = NewStateIndexValue(index)
	default:
		payload := make(PlacesPayload, len(data))
		copy(payload, data)
		*v = NewPlacesValue(payload)
	}
	return nil
}

// siteRecordKeys are the exact field names a persisted site record carries.
var siteRecordKeys = []string{"category", "name", "address", "zipcode", "phone"}

func isSiteShape(fields map[string]json.RawMessage) bool {
	if len(fields) != len(siteRecordKeys) {
		return false
	}
	for _, key := range siteRecordKeys {
		raw, ok := fields[key]
		if !ok || !isJSONString(raw) {
			return false
		}
	}
	return true
}

func allStringValues(fields map[string]json.RawMessage) bool {
	for _, raw := range fields {
		if !isJSONString(raw) {
			return false
		}
	}
	return true
}

func isJSONString(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '"'
}

// Store is the full persistent mapping from cache key to stored value.
// Keys are the state-index sentinel, full state/site URLs, or postal codes.
type Store map[string]Value

package resolver_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rohmanhakim/parks-explorer/internal/config"
	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/internal/resolver"
	"github.com/rohmanhakim/parks-explorer/internal/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDirectory serves a miniature park directory and counts every
// request per path, so tests can assert exactly how often the resolver
// reached the network.
type fakeDirectory struct {
	server *httptest.Server
	counts map[string]int
}

const fakeDirectoryRoot = `<html><body>
<ul class="dropdown-menu SearchBar-keywordSearch">
	<li><a href="/state/mi/index.htm">Michigan</a></li>
	<li><a href="/state/wy/index.htm">Wyoming</a></li>
</ul>
</body></html>`

const fakeMichiganPage = `<html><body>
<ul id="list_parks">
	<li><h3><a href="/isro/index.htm">Isle Royale</a></h3></li>
	<li><h3><a href="/kewe/index.htm">Keweenaw</a></h3></li>
</ul>
</body></html>`

const fakeWyomingPage = `<html><body>
<ul id="list_parks">
	<li><h3><a href="/blank/index.htm">Blank One</a></h3></li>
	<li><h3><a href="/empty/index.htm">Blank Two</a></h3></li>
</ul>
</body></html>`

func detailPage(name, designation, locality, region, zipcode, phone string) string {
	return fmt.Sprintf(`<html><body>
<a class="Hero-title">%s</a>
<span class="Hero-designation">%s</span>
<span itemprop="addressLocality">%s</span>
<span itemprop="addressRegion">%s</span>
<span itemprop="postalCode">%s</span>
<span itemprop="telephone">%s</span>
</body></html>`, name, designation, locality, region, zipcode, phone)
}

func newFakeDirectory(t *testing.T) *fakeDirectory {
	t.Helper()
	dir := &fakeDirectory{counts: map[string]int{}}

	pages := map[string]string{
		"/":                   fakeDirectoryRoot,
		"/state/mi/index.htm": fakeMichiganPage,
		"/state/wy/index.htm": fakeWyomingPage,
		"/isro/index.htm":     detailPage("Isle Royale", "National Park", "Houghton", "MI", "49931", "(906) 482-0984"),
		"/kewe/index.htm":     detailPage("Keweenaw", "National Historical Park", "Calumet", "MI", "49931", "(906) 337-3168"),
		// Detail pages carrying none of the optional fields.
		"/blank/index.htm": "<html><body><p>under construction</p></body></html>",
		"/empty/index.htm": "<html><body><p>under construction</p></body></html>",
	}

	dir.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dir.counts[r.URL.Path]++
		page, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	t.Cleanup(dir.server.Close)
	return dir
}

// fakeGeoAPI answers radius searches with a payload echoing the origin
// and counts the calls.
type fakeGeoAPI struct {
	server *httptest.Server
	calls  int
}

func newFakeGeoAPI(t *testing.T) *fakeGeoAPI {
	t.Helper()
	geo := &fakeGeoAPI{}
	geo.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		geo.calls++
		origin := r.URL.Query().Get("origin")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"resultsCount":1,"searchResults":[{"name":"Place near %s","fields":{"city":"Testville"}}]}`, origin)
	}))
	t.Cleanup(geo.server.Close)
	return geo
}

func newTestResolver(t *testing.T, dir *fakeDirectory, geo *fakeGeoAPI, cacheFile string) resolver.Resolver {
	t.Helper()

	baseURL, err := url.Parse(dir.server.URL)
	require.NoError(t, err)
	searchURL, err := url.Parse(geo.server.URL)
	require.NoError(t, err)

	cfg, err := config.WithDefault().
		WithAPIKey("test-key").
		WithBaseURL(*baseURL).
		WithSearchURL(*searchURL).
		WithCacheFile(cacheFile).
		Build()
	require.NoError(t, err)

	return resolver.New(cfg, &metadata.NoopSink{})
}

func TestStateIndex_BuildsLowercaseMapping(t *testing.T) {
	dir := newFakeDirectory(t)
	geo := newFakeGeoAPI(t)
	res := newTestResolver(t, dir, geo, filepath.Join(t.TempDir(), "cache.json"))

	index, err := res.StateIndex(context.Background())
	require.Nil(t, err)

	require.Contains(t, index, "michigan")
	require.Contains(t, index, "wyoming")
	assert.Equal(t, dir.server.URL+"/state/mi/index.htm", index["michigan"])
}

func TestStateIndex_CaseInsensitiveLookup(t *testing.T) {
	dir := newFakeDirectory(t)
	geo := newFakeGeoAPI(t)
	res := newTestResolver(t, dir, geo, filepath.Join(t.TempDir(), "cache.json"))

	index, err := res.StateIndex(context.Background())
	require.Nil(t, err)

	// "Michigan" and "michigan" reach the same entry through lowercasing.
	mixed := index[strings.ToLower("Michigan")]
	lower := index[strings.ToLower("michigan")]
	assert.NotEmpty(t, mixed)
	assert.Equal(t, lower, mixed)
}

func TestStateIndex_SecondCallHitsCache(t *testing.T) {
	dir := newFakeDirectory(t)
	geo := newFakeGeoAPI(t)
	res := newTestResolver(t, dir, geo, filepath.Join(t.TempDir(), "cache.json"))

	_, err := res.StateIndex(context.Background())
	require.Nil(t, err)
	first, err := res.StateIndex(context.Background())
	require.Nil(t, err)
	second, err := res.StateIndex(context.Background())
	require.Nil(t, err)

	assert.Equal(t, 1, dir.counts["/"], "directory root must be fetched exactly once")
	assert.Equal(t, first, second)
}

func TestSite_Idempotence(t *testing.T) {
	dir := newFakeDirectory(t)
	geo := newFakeGeoAPI(t)
	res := newTestResolver(t, dir, geo, filepath.Join(t.TempDir(), "cache.json"))

	siteURL := dir.server.URL + "/isro/index.htm"

	first, err := res.Site(context.Background(), siteURL)
	require.Nil(t, err)
	second, err := res.Site(context.Background(), siteURL)
	require.Nil(t, err)

	assert.Equal(t, 1, dir.counts["/isro/index.htm"], "detail page must be fetched exactly once")
	assert.Equal(t, first, second, "hit and miss must return identical field values")
	assert.Equal(t, "Isle Royale", first.Name)
	assert.Equal(t, "Houghton, MI", first.Address)
}

func TestSitesForState_EndToEndFetchCounts(t *testing.T) {
	dir := newFakeDirectory(t)
	geo := newFakeGeoAPI(t)
	res := newTestResolver(t, dir, geo, filepath.Join(t.TempDir(), "cache.json"))
	ctx := context.Background()

	index, err := res.StateIndex(ctx)
	require.Nil(t, err)

	sites, err := res.SitesForState(ctx, index["michigan"])
	require.Nil(t, err)
	require.Len(t, sites, 2)

	// One fetch for the index, one for the state page, one per site found.
	assert.Equal(t, 1, dir.counts["/"])
	assert.Equal(t, 1, dir.counts["/state/mi/index.htm"])
	assert.Equal(t, 1, dir.counts["/isro/index.htm"])
	assert.Equal(t, 1, dir.counts["/kewe/index.htm"])

	again, err := res.SitesForState(ctx, index["michigan"])
	require.Nil(t, err)

	// The second pass resolves everything from the cache.
	assert.Equal(t, 1, dir.counts["/state/mi/index.htm"])
	assert.Equal(t, 1, dir.counts["/isro/index.htm"])
	assert.Equal(t, 1, dir.counts["/kewe/index.htm"])
	assert.Equal(t, sites, again)
}

func TestSitesForState_CacheSurvivesRestart(t *testing.T) {
	dir := newFakeDirectory(t)
	geo := newFakeGeoAPI(t)
	cacheFile := filepath.Join(t.TempDir(), "cache.json")
	ctx := context.Background()

	res := newTestResolver(t, dir, geo, cacheFile)
	index, err := res.StateIndex(ctx)
	require.Nil(t, err)
	sites, err := res.SitesForState(ctx, index["michigan"])
	require.Nil(t, err)

	// A fresh resolver on the same cache file stands in for a new process.
	restarted := newTestResolver(t, dir, geo, cacheFile)
	indexAfter, err := restarted.StateIndex(ctx)
	require.Nil(t, err)
	sitesAfter, err := restarted.SitesForState(ctx, indexAfter["michigan"])
	require.Nil(t, err)

	assert.Equal(t, 1, dir.counts["/"], "no refetch after restart")
	assert.Equal(t, 1, dir.counts["/state/mi/index.htm"])
	assert.Equal(t, 1, dir.counts["/isro/index.htm"])
	assert.Equal(t, index, indexAfter)
	assert.Equal(t, sites, sitesAfter)
}

func TestSite_SentinelsForBlankDetailPage(t *testing.T) {
	dir := newFakeDirectory(t)
	geo := newFakeGeoAPI(t)
	res := newTestResolver(t, dir, geo, filepath.Join(t.TempDir(), "cache.json"))

	record, err := res.Site(context.Background(), dir.server.URL+"/blank/index.htm")
	require.Nil(t, err)

	assert.Equal(t, site.NoName, record.Name)
	assert.Equal(t, site.NoCategory, record.Category)
	assert.Equal(t, site.NoAddress, record.Address)
	assert.Equal(t, site.NoZipcode, record.Zipcode)
	assert.Equal(t, site.NoPhone, record.Phone)
}

func TestNearbyPlaces_SharedZipcodeSharesCacheSlot(t *testing.T) {
	dir := newFakeDirectory(t)
	geo := newFakeGeoAPI(t)
	res := newTestResolver(t, dir, geo, filepath.Join(t.TempDir(), "cache.json"))
	ctx := context.Background()

	isro, err := res.Site(ctx, dir.server.URL+"/isro/index.htm")
	require.Nil(t, err)
	kewe, err := res.Site(ctx, dir.server.URL+"/kewe/index.htm")
	require.Nil(t, err)
	require.Equal(t, isro.Zipcode, kewe.Zipcode, "fixture sites share a zipcode")

	first, err := res.NearbyPlaces(ctx, isro)
	require.Nil(t, err)
	second, err := res.NearbyPlaces(ctx, kewe)
	require.Nil(t, err)

	assert.Equal(t, 1, geo.calls, "a shared postal code must not trigger a second search")
	assert.Equal(t, first, second)
}

// Sites lacking an address all carry the "No Zipcode" placeholder, so they
// share one cache slot and the search is issued with the literal
// placeholder as origin. This documents the behavior; it is not a bug to
// fix here.
func TestNearbyPlaces_PlaceholderZipcodeCollision(t *testing.T) {
	dir := newFakeDirectory(t)
	geo := newFakeGeoAPI(t)
	res := newTestResolver(t, dir, geo, filepath.Join(t.TempDir(), "cache.json"))
	ctx := context.Background()

	blankOne, err := res.Site(ctx, dir.server.URL+"/blank/index.htm")
	require.Nil(t, err)
	blankTwo, err := res.Site(ctx, dir.server.URL+"/empty/index.htm")
	require.Nil(t, err)
	require.Equal(t, site.NoZipcode, blankOne.Zipcode)
	require.Equal(t, site.NoZipcode, blankTwo.Zipcode)

	first, err := res.NearbyPlaces(ctx, blankOne)
	require.Nil(t, err)
	second, err := res.NearbyPlaces(ctx, blankTwo)
	require.Nil(t, err)

	assert.Equal(t, 1, geo.calls, "all placeholder-zipcode sites share one cache entry")
	assert.Equal(t, first, second)
	assert.Contains(t, string(first), "No Zipcode", "the placeholder went out as the search origin")
}

func TestStateIndex_ShapeMismatchIsAnError(t *testing.T) {
	dir := newFakeDirectory(t)
	geo := newFakeGeoAPI(t)
	cacheFile := filepath.Join(t.TempDir(), "cache.json")

	// A foreign cache file holding a URL list under the state index key.
	corrupt := `{"state_url_dict": ["not", "an", "index"]}`
	require.NoError(t, os.WriteFile(cacheFile, []byte(corrupt), 0644))

	res := newTestResolver(t, dir, geo, cacheFile)
	_, err := res.StateIndex(context.Background())
	require.NotNil(t, err)

	var resolveErr *resolver.ResolveError
	require.ErrorAs(t, err, &resolveErr)
	assert.Equal(t, resolver.ErrCauseShapeMismatch, resolveErr.Cause)
}

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/rohmanhakim/parks-explorer/internal/cache"
	"github.com/rohmanhakim/parks-explorer/internal/site"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

const (
	statePrompt = `Enter a state name (e.g. Michigan, michigan) or "exit": `
	sitePrompt  = `Choose the number for detail search or "exit" or "back": `

	divider = "----------------------------------"
)

// siteResolver is the slice of the resolver the loop consumes. The concrete
// resolver satisfies it; tests substitute a fake.
type siteResolver interface {
	StateIndex(ctx context.Context) (cache.StateIndex, failure.ClassifiedError)
	SitesForState(ctx context.Context, stateURL string) ([]site.Record, failure.ClassifiedError)
	NearbyPlaces(ctx context.Context, record site.Record) (cache.PlacesPayload, failure.ClassifiedError)
}

// runLoop drives the interactive session: prompt for a state, list its
// sites, then let the user pick sites for a nearby-places lookup until
// they type "back" (returns to the state prompt) or "exit" (ends the
// session). Resolver failures are printed as a clean message and end the
// session without a stack trace.
func runLoop(ctx context.Context, in io.Reader, out io.Writer, res siteResolver) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, statePrompt)
		if !scanner.Scan() {
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(input, "exit") {
			return nil
		}

		index, err := res.StateIndex(ctx)
		if err != nil {
			fmt.Fprintf(out, "[Error] %s\n", err.Error())
			return nil
		}

		stateURL, found := index[strings.ToLower(input)]
		if !found {
			fmt.Fprintln(out, "[Error] Enter proper state name")
			continue
		}

		sites, err := res.SitesForState(ctx, stateURL)
		if err != nil {
			fmt.Fprintf(out, "[Error] %s\n", err.Error())
			return nil
		}

		printSiteList(out, strings.ToLower(input), sites)

		if exited := siteSelectionLoop(ctx, scanner, out, res, sites); exited {
			return nil
		}
	}
}

// siteSelectionLoop handles the inner numeric prompt for one state's site
// list. It reports true when the session should end and false when the
// user asked to go back to the state prompt.
func siteSelectionLoop(ctx context.Context, scanner *bufio.Scanner, out io.Writer, res siteResolver, sites []site.Record) bool {
	for {
		fmt.Fprint(out, sitePrompt)
		if !scanner.Scan() {
			return true
		}

		input := strings.TrimSpace(scanner.Text())
		switch {
		case strings.EqualFold(input, "exit"):
			return true
		case strings.EqualFold(input, "back"):
			return false
		}

		selection, err := strconv.Atoi(input)
		if err != nil || selection < 1 || selection > len(sites) {
			fmt.Fprintln(out, "[Error] Invalid input")
			continue
		}

		chosen := sites[selection-1]
		payload, resolveErr := res.NearbyPlaces(ctx, chosen)
		if resolveErr != nil {
			fmt.Fprintf(out, "[Error] %s\n", resolveErr.Error())
			return true
		}

		printPlaces(out, chosen.Name, payload)
	}
}

func printSiteList(out io.Writer, stateName string, sites []site.Record) {
	fmt.Fprintln(out, divider)
	fmt.Fprintf(out, "List of national sites in %s\n", stateName)
	fmt.Fprintln(out, divider)
	for i, record := range sites {
		fmt.Fprintf(out, "[%d] %s\n", i+1, record.Info())
	}
}

// printPlaces renders the raw radius-search payload. The payload is stored
// verbatim in the cache, so field plucking and display-time defaults happen
// here rather than at fetch time.
func printPlaces(out io.Writer, siteName string, payload cache.PlacesPayload) {
	fmt.Fprintln(out, divider)
	fmt.Fprintf(out, "Places near %s\n", siteName)
	fmt.Fprintln(out, divider)

	gjson.GetBytes(payload, "searchResults").ForEach(func(_, place gjson.Result) bool {
		name := place.Get("name").String()
		category := orDefault(place.Get("fields.group_sic_code_name").String(), "no category")
		address := orDefault(place.Get("fields.address").String(), "no address")
		city := orDefault(place.Get("fields.city").String(), "no city")
		fmt.Fprintf(out, "- %s (%s): %s, %s\n", name, category, address, city)
		return true
	})
}

func orDefault(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/internal/site"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

/*
Responsibilities
- Parse directory HTML into a DOM tree
- Extract the top-level state menu entries
- Extract a state page's ordered park detail links
- Extract a detail page's optional site fields

Extraction Strategy
- Structural containers (state menu, park listing) are mandatory: their
  absence is a classified error
- Detail fields are optional: a missing field yields an empty entry in
  the field bag, sentinel substitution happens downstream
- All extracted text is whitespace-trimmed
*/

type DomExtractor struct {
	metadataSink metadata.MetadataSink
}

func NewDomExtractor(
	metadataSink metadata.MetadataSink,
) DomExtractor {
	return DomExtractor{
		metadataSink: metadataSink,
	}
}

// StateLinks extracts the (state name, href) pairs of the directory's
// top-level state menu.
func (d *DomExtractor) StateLinks(
	sourceUrl url.URL,
	htmlByte []byte,
) ([]StateLink, failure.ClassifiedError) {
	links, err := stateLinks(htmlByte)
	if err != nil {
		d.recordExtractionError("DomExtractor.StateLinks", sourceUrl, err)
		return nil, err
	}
	return links, nil
}

// ParkLinks extracts the ordered list of park detail hrefs from a state
// page's park listing.
func (d *DomExtractor) ParkLinks(
	sourceUrl url.URL,
	htmlByte []byte,
) ([]string, failure.ClassifiedError) {
	links, err := parkLinks(htmlByte)
	if err != nil {
		d.recordExtractionError("DomExtractor.ParkLinks", sourceUrl, err)
		return nil, err
	}
	return links, nil
}

// SiteFields extracts the optional detail fields of one site page.
// Missing fields stay empty in the returned bag; only an unparseable
// document is an error.
func (d *DomExtractor) SiteFields(
	sourceUrl url.URL,
	htmlByte []byte,
) (site.Fields, failure.ClassifiedError) {
	fields, err := siteFields(htmlByte)
	if err != nil {
		d.recordExtractionError("DomExtractor.SiteFields", sourceUrl, err)
		return site.Fields{}, err
	}
	return fields, nil
}

func (d *DomExtractor) recordExtractionError(callerMethod string, sourceUrl url.URL, err failure.ClassifiedError) {
	var extractionError *ExtractionError
	if errors.As(err, &extractionError) {
		d.metadataSink.RecordError(
			time.Now(),
			"extractor",
			callerMethod,
			mapExtractionErrorToMetadataCause(extractionError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, sourceUrl.String()),
			},
		)
	}
}

func stateLinks(htmlByte []byte) ([]StateLink, failure.ClassifiedError) {
	doc, err := parseDocument(htmlByte)
	if err != nil {
		return nil, err
	}

	menu := doc.Find(selectorStateMenu).First()
	if menu.Length() == 0 {
		return nil, &ExtractionError{
			Message:   fmt.Sprintf("selector %q matched nothing", selectorStateMenu),
			Retryable: false,
			Cause:     ErrCauseNoStateMenu,
		}
	}

	var links []StateLink
	menu.ChildrenFiltered("li").Each(func(_ int, item *goquery.Selection) {
		anchor := item.Find("a").First()
		if anchor.Length() == 0 {
			return
		}
		href, ok := anchor.Attr("href")
		if !ok {
			return
		}
		links = append(links, StateLink{
			Name: strings.TrimSpace(anchor.Text()),
			Href: href,
		})
	})

	return links, nil
}

func parkLinks(htmlByte []byte) ([]string, failure.ClassifiedError) {
	doc, err := parseDocument(htmlByte)
	if err != nil {
		return nil, err
	}

	listing := doc.Find(selectorParkList).First()
	if listing.Length() == 0 {
		return nil, &ExtractionError{
			Message:   fmt.Sprintf("selector %q matched nothing", selectorParkList),
			Retryable: false,
			Cause:     ErrCauseNoParkList,
		}
	}

	var hrefs []string
	listing.ChildrenFiltered("li").Each(func(_ int, item *goquery.Selection) {
		anchor := item.Find("a").First()
		if anchor.Length() == 0 {
			return
		}
		if href, ok := anchor.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})

	return hrefs, nil
}

func siteFields(htmlByte []byte) (site.Fields, failure.ClassifiedError) {
	doc, err := parseDocument(htmlByte)
	if err != nil {
		return site.Fields{}, err
	}

	return site.Fields{
		Name:        selectionText(doc, selectorSiteName),
		Designation: selectionText(doc, selectorSiteDesignation),
		Locality:    selectionText(doc, selectorAddressLocality),
		Region:      selectionText(doc, selectorAddressRegion),
		PostalCode:  selectionText(doc, selectorPostalCode),
		Phone:       selectionText(doc, selectorPhone),
	}, nil
}

// selectionText returns the trimmed text of the first match, or "" when
// the selector matches nothing.
func selectionText(doc *goquery.Document, selector string) string {
	match := doc.Find(selector).First()
	if match.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(match.Text())
}

func parseDocument(htmlByte []byte) (*goquery.Document, failure.ClassifiedError) {
	node, err := html.Parse(bytes.NewReader(htmlByte))
	if err != nil {
		return nil, &ExtractionError{
			Message:   fmt.Sprintf("failed to parse HTML: %v", err),
			Retryable: false,
			Cause:     ErrCauseNotHTML,
		}
	}
	return goquery.NewDocumentFromNode(node), nil
}

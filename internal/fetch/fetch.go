// Package fetch talks to the upstream road-data provider: given two
// endpoints, it computes a padded bounding box, issues a single request,
// validates the shape of the response, and returns a list of ways
// (SPEC_FULL.md §4.2).
package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/paulmach/osm"
	"github.com/paulmach/orb"
	"github.com/valyala/fasthttp"

	"osmroute/internal/graph"
	"osmroute/internal/routeerr"
)

// roadClassWhitelist is the fixed set of OSM highway tag values the fetcher
// asks the upstream provider for (SPEC_FULL.md §3).
var roadClassWhitelist = []string{
	"motorway", "trunk", "primary", "secondary", "tertiary", "residential", "unclassified",
}

// Config holds the two configuration knobs SPEC_FULL.md §6 documents.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Fetcher queries the upstream road-data provider for ways inside a
// bounding box.
type Fetcher struct {
	endpoint string
	timeout  time.Duration
	client   *fasthttp.Client
}

// New builds a Fetcher from cfg.
func New(cfg Config) *Fetcher {
	return &Fetcher{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		client: &fasthttp.Client{
			Name: "osmroute-fetcher",
		},
	}
}

// overpassResponse is the JSON document shape documented in SPEC_FULL.md
// §6: a top-level `elements` list.
type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	ID       int64                `json:"id"`
	Tags     map[string]string    `json:"tags"`
	Geometry []overpassGeoPoint   `json:"geometry"`
}

type overpassGeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Fetch queries the upstream provider for the roads inside the padded
// bounding box of source and destination.
func (f *Fetcher) Fetch(ctx context.Context, source, dest orb.Point) ([]graph.Way, error) {
	bbox := PaddedBBox(source, dest)
	body := buildQuery(bbox)

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(f.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("text/plain; charset=utf-8")
	req.SetBodyString(body)

	timeout := f.timeout
	if dl, ok := ctx.Deadline(); ok {
		if remaining := time.Until(dl); remaining < timeout {
			timeout = remaining
		}
	}

	if err := f.do(ctx, req, resp, timeout); err != nil {
		return nil, err
	}

	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusTooManyRequests:
		return nil, routeerr.New(routeerr.UpstreamRateLimited, "upstream rate limited the request")
	case status >= 500:
		return nil, routeerr.New(routeerr.UpstreamServerError, fmt.Sprintf("upstream returned status %d", status))
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, routeerr.Wrap(routeerr.UpstreamBadShape, "response is not valid JSON", err)
	}
	rawElements, ok := payload["elements"]
	if !ok {
		return nil, routeerr.New(routeerr.UpstreamBadShape, "response missing elements list")
	}

	var elements []overpassElement
	if err := json.Unmarshal(rawElements, &elements); err != nil {
		return nil, routeerr.Wrap(routeerr.UpstreamBadShape, "elements is not a list of ways", err)
	}
	if len(elements) == 0 {
		return nil, routeerr.New(routeerr.EmptyArea, "no roads found in the requested area")
	}

	// Short ways (<2 points) are passed through; the graph builder is the
	// one that discards them (SPEC_FULL.md §4.3.1), matching the way-list
	// contract ("a sequence of ≥2 coordinates") being the builder's input
	// invariant, not the fetcher's filtering responsibility.
	ways := make([]graph.Way, 0, len(elements))
	for _, el := range elements {
		tags := tagsFrom(el.Tags)
		geom := make([]orb.Point, len(el.Geometry))
		for i, p := range el.Geometry {
			geom[i] = orb.Point{p.Lon, p.Lat}
		}
		ways = append(ways, graph.Way{
			ID:        el.ID,
			Geometry:  geom,
			RoadClass: tags.Find("highway"),
			Name:      tags.Find("name"),
		})
	}

	return ways, nil
}

// do executes the request honoring both the fetcher's configured timeout
// and the caller's context deadline/cancellation.
func (f *Fetcher) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- f.client.DoTimeout(req, resp, timeout)
	}()

	select {
	case <-ctx.Done():
		return routeerr.Wrap(routeerr.UpstreamTimeout, "request canceled", ctx.Err())
	case err := <-done:
		if err == nil {
			return nil
		}
		if err == fasthttp.ErrTimeout || err == fasthttp.ErrDialTimeout {
			return routeerr.Wrap(routeerr.UpstreamTimeout, "try a smaller area", err)
		}
		return routeerr.Wrap(routeerr.UpstreamServerError, "upstream request failed", err)
	}
}

// tagsFrom adapts a plain string map into osm.Tags so lookups go through
// the same Find helper the teacher repo uses for OSM tag access.
func tagsFrom(raw map[string]string) osm.Tags {
	tags := make(osm.Tags, 0, len(raw))
	for k, v := range raw {
		tags = append(tags, osm.Tag{Key: k, Value: v})
	}
	return tags
}

// buildQuery renders an Overpass-QL query restricted to the road-class
// whitelist over bbox, matching the POST-with-text-body contract of
// SPEC_FULL.md §6.
func buildQuery(bbox BBox) string {
	classPattern := strings.Join(roadClassWhitelist, "|")
	return fmt.Sprintf(
		"[out:json][timeout:25];\nway[\"highway\"~\"^(%s)$\"](%f,%f,%f,%f);\nout geom;",
		classPattern, bbox.South, bbox.West, bbox.North, bbox.East,
	)
}

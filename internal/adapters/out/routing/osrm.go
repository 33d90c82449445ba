// Package routing estimates road distances through an OSRM server. The
// estimate feeds the platform's suggested price; callers degrade to
// "price unknown" when the router is unreachable.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

const defaultTimeout = 5 * time.Second

// OSRMClient implements RoutePricer against the OSRM HTTP API.
type OSRMClient struct {
	baseURL string
	client  *http.Client
}

// NewOSRMClient creates a client for the given OSRM base URL, for example
// "https://router.project-osrm.org".
func NewOSRMClient(baseURL string) (*OSRMClient, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	return &OSRMClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}, nil
}

// osrmResponse is the subset of the OSRM route response we consume.
type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

// DistanceKm returns the road distance between two points in kilometers.
// OSRM expects coordinates in lon,lat order and reports distance in
// meters.
func (c *OSRMClient) DistanceKm(ctx context.Context, from, to kernel.GeoPoint) (float64, error) {
	url := fmt.Sprintf(
		"%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		c.baseURL,
		from.Lon(), from.Lat(),
		to.Lon(), to.Lat(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("osrm: unexpected status %d", resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}

	if body.Code != "Ok" || len(body.Routes) == 0 {
		return 0, fmt.Errorf("osrm: no route found (code %q)", body.Code)
	}

	return body.Routes[0].Distance / 1000, nil
}

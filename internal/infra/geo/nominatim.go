// Package geo resolves postal addresses to coordinates through a
// Nominatim-compatible search endpoint.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"staybook/internal/app/policies"
)

var ErrNoMatch = errors.New("geo: no match for address")

type Nominatim struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

func NewNominatim(baseURL string) *Nominatim {
	return &Nominatim{
		BaseURL:   baseURL,
		UserAgent: "staybook/1.0",
		Client:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (n *Nominatim) Geocode(ctx context.Context, address string) (policies.Coordinates, error) {
	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return policies.Coordinates{}, err
	}
	req.Header.Set("User-Agent", n.UserAgent)

	resp, err := n.client().Do(req)
	if err != nil {
		return policies.Coordinates{}, fmt.Errorf("geo: search request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return policies.Coordinates{}, fmt.Errorf("geo: search status %d", resp.StatusCode)
	}

	var hits []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return policies.Coordinates{}, fmt.Errorf("geo: decode response: %w", err)
	}
	if len(hits) == 0 {
		return policies.Coordinates{}, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return policies.Coordinates{}, fmt.Errorf("geo: bad latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return policies.Coordinates{}, fmt.Errorf("geo: bad longitude: %w", err)
	}
	return policies.Coordinates{Lat: lat, Lon: lon}, nil
}

func (n *Nominatim) client() *http.Client {
	if n.Client != nil {
		return n.Client
	}
	return http.DefaultClient
}

var _ policies.GeocoderPort = (*Nominatim)(nil)

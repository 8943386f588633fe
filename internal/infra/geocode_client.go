package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"storefront-service/internal/domain"
)

// ErrAddressNotFound is returned when the geocoder cannot resolve the
// address text to coordinates.
var ErrAddressNotFound = fmt.Errorf("address not found")

type GeocodeClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewGeocodeClient(baseURL string, timeout time.Duration) *GeocodeClient {
	return &GeocodeClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *GeocodeClient) Geocode(ctx context.Context, addressText string) (*domain.Coordinates, error) {
	endpoint := fmt.Sprintf("%s/geocode?q=%s", c.baseURL, url.QueryEscape(addressText))
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrAddressNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode service returned status %d", resp.StatusCode)
	}

	var coords domain.Coordinates
	if err := json.NewDecoder(resp.Body).Decode(&coords); err != nil {
		return nil, err
	}
	return &coords, nil
}

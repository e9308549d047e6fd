package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
)

// apiClient calls the admin endpoints of the running API server.
type apiClient struct {
	baseURL string
	client  *rest.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		client:  &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
	}
}

// clearLocationCache purges the API server's location cache and returns how many lookups were dropped.
func (api *apiClient) clearLocationCache(ctx context.Context) (int, error) {
	res, err := api.client.SendWithContext(ctx, rest.Request{
		Method:  rest.Delete,
		BaseURL: api.baseURL + "/v1/locations/cache",
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return 0, errors.Wrapf(err, "reaching API at %s", api.baseURL)
	}
	if res.StatusCode != http.StatusOK {
		return 0, errors.Errorf("clearing location cache: API answered %d: %s", res.StatusCode, res.Body)
	}

	var body struct {
		Cleared int `json:"cleared"`
	}
	if err = json.Unmarshal([]byte(res.Body), &body); err != nil {
		return 0, errors.Wrap(err, "decoding API response")
	}
	return body.Cleared, nil
}

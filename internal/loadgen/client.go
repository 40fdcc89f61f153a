// Package loadgen drives path queries against a running campusnav server.
package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/atharv3903/campusnav/internal/model"
)

var ErrTooFewLabels = errors.New("loadgen: need at least two locations")

type Client struct {
	Base string
	HTTP *http.Client
}

// NewClient returns a client with a pooled transport sized for conns
// concurrent workers.
func NewClient(base string, conns int) *Client {
	if conns < 1 {
		conns = 1
	}
	return &Client{
		Base: strings.TrimRight(base, "/"),
		HTTP: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        conns * 2,
				MaxIdleConnsPerHost: conns * 2,
				IdleConnTimeout:     90 * time.Second,
				DisableCompression:  true,
			},
		},
	}
}

// Labels fetches the location names the server answers for.
func (c *Client) Labels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+"/locations", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET /locations: %s", resp.Status)
	}

	var body model.LocationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	labels := make([]string, len(body.Locations))
	for i, l := range body.Locations {
		labels[i] = l.Name
	}
	if len(labels) < 2 {
		return nil, ErrTooFewLabels
	}
	return labels, nil
}

// Path issues one /get_path query. A non-200 answer is returned as an error
// carrying the server's message.
func (c *Client) Path(ctx context.Context, start, end string) (model.RouteResponse, error) {
	body, err := json.Marshal(model.RouteRequest{Start: start, End: end})
	if err != nil {
		return model.RouteResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/get_path", bytes.NewReader(body))
	if err != nil {
		return model.RouteResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return model.RouteResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e model.ErrorResponse
		json.NewDecoder(resp.Body).Decode(&e)
		return model.RouteResponse{}, fmt.Errorf("%d: %s", resp.StatusCode, e.Error)
	}

	var rr model.RouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return model.RouteResponse{}, fmt.Errorf("decode path: %w", err)
	}
	return rr, nil
}

// RandomPair picks two distinct labels.
func RandomPair(rnd *rand.Rand, labels []string) (string, string) {
	i := rnd.Intn(len(labels))
	j := rnd.Intn(len(labels) - 1)
	if j >= i {
		j++
	}
	return labels[i], labels[j]
}

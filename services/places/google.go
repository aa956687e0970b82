// Package placesvc wraps the Google Places autocomplete API. Predictions are
// display strings with opaque place ids; nothing from here is ever persisted
// beyond the string the user picks.
package placesvc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/walimu/walimu/core"
)

const autocompleteURL = "https://maps.googleapis.com/maps/api/place/autocomplete/json"

type Prediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

type Service struct {
	key     string
	country string

	once sync.Once // client is dialed lazily, on first lookup
	http *http.Client
}

func NewService(conf *core.Config) *Service {
	return &Service{
		key:     conf.Places.ApiKey,
		country: conf.Places.Country,
	}
}

func (svc *Service) Enabled() bool { return svc.key != "" }

// Autocomplete returns country-restricted predictions for a free-text query.
func (svc *Service) Autocomplete(ctx context.Context, query string) ([]Prediction, error) {
	if !svc.Enabled() {
		return nil, nil
	}
	svc.once.Do(func() {
		svc.http = &http.Client{Timeout: 10 * time.Second}
	})

	q := make(url.Values)
	q.Set("input", query)
	q.Set("key", svc.key)
	q.Set("components", "country:"+svc.country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, autocompleteURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "building places request")
	}

	res, err := svc.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "querying places")
	}
	//goland:noinspection GoUnhandledErrorResult
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading places response")
	}
	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("places request failed: %d", res.StatusCode)
	}

	var payload struct {
		Status      string       `json:"status"`
		Predictions []Prediction `json:"predictions"`
	}
	if err = json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(err, "decoding places response")
	}
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		return nil, errors.New("places request failed: " + payload.Status)
	}
	return payload.Predictions, nil
}

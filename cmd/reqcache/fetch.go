package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/jonwraymond/reqcache/cache"
)

// maxBody bounds the size of a response envelope.
const maxBody = 8 << 20

// httpFetch loads a response envelope with a GET request to url.
func httpFetch(client *http.Client, url string) cache.FetchFunc {
	return func(ctx context.Context) (*cache.Envelope, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
		}

		return cache.DecodeEnvelope(body)
	}
}

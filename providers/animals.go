package providers

import (
	"context"
	"fmt"
	"math/rand"
)

// RandomAnimalImage fetches a random cat or dog photo: one search request
// against a randomly chosen API, then the image download itself.
func (c *Client) RandomAnimalImage(ctx context.Context) ([]byte, error) {
	searchURL := c.catURL
	if rand.Intn(2) == 1 {
		searchURL = c.dogURL
	}

	var results []struct {
		URL string `json:"url"`
	}
	if err := c.getJSON(ctx, "animals.search", searchURL, nil, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 || results[0].URL == "" {
		return nil, fmt.Errorf("animals.search: empty result")
	}
	return c.getBytes(ctx, "animals.image", results[0].URL)
}

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Media uploads assets to the remote media hosting API and returns the
// provider's public URL. Provider errors propagate to the caller unretried.
type Media struct {
	client *resty.Client
	apiKey string
}

func NewMedia(apiURL, apiKey string) *Media {
	return &Media{
		client: resty.New().SetBaseURL(apiURL),
		apiKey: apiKey,
	}
}

func (m *Media) Upload(ctx context.Context, data []byte, folder, filename string) (Asset, error) {
	resp, err := m.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+m.apiKey).
		SetFileReader("file", filename, bytes.NewReader(data)).
		SetFormData(map[string]string{"folder": folder}).
		Post("/upload")
	if err != nil {
		return Asset{}, fmt.Errorf("media upload failed: %w", err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return Asset{}, fmt.Errorf("media upload failed: %s", resp.String())
	}

	var uploadResp struct {
		URL      string `json:"url"`
		PublicID string `json:"public_id"`
	}
	if err := json.Unmarshal(resp.Body(), &uploadResp); err != nil {
		return Asset{}, fmt.Errorf("invalid media upload response: %w", err)
	}

	return Asset{URL: uploadResp.URL, ID: uploadResp.PublicID}, nil
}

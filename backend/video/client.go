// Package video integrates the hosted video platform: direct-upload
// sessions, asset status polling, and signed playback tokens. Ingestion
// and transcoding happen entirely on the platform side.
package video

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"academy/backend/config"
	"academy/backend/contentstore"
)

const (
	pollInterval = 2 * time.Second
	pollTimeout  = 5 * time.Minute
)

type Client struct {
	http    *resty.Client
	store   *contentstore.Client
	signKey string
	keyID   string
}

func New(cfg *config.Config, store *contentstore.Client) *Client {
	client := resty.New().
		SetBaseURL(cfg.VideoAPIURL).
		SetBasicAuth(cfg.VideoTokenID, cfg.VideoTokenSecret).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:    client,
		store:   store,
		signKey: cfg.VideoSigningKey,
		keyID:   cfg.VideoSigningKeyID,
	}
}

// Upload is a direct-upload session: the browser PUTs the file to URL,
// the platform ingests it into an asset.
type Upload struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AssetID string `json:"asset_id,omitempty"`
	Status  string `json:"status,omitempty"`
}

type PlaybackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

type Asset struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	Duration    float64      `json:"duration,omitempty"`
	AspectRatio string       `json:"aspect_ratio,omitempty"`
	PlaybackIDs []PlaybackID `json:"playback_ids,omitempty"`
	UploadID    string       `json:"upload_id,omitempty"`
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// CreateUpload opens a direct-upload session configured for signed
// playback with generated English subtitles.
func (c *Client) CreateUpload(ctx context.Context) (*Upload, error) {
	var result dataEnvelope[Upload]
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"cors_origin": "*",
			"new_asset_settings": map[string]interface{}{
				"playback_policy": []string{"signed"},
				"video_quality":   "plus",
				"inputs": []map[string]interface{}{
					{
						"generated_subtitles": []map[string]string{
							{"language_code": "en", "name": "English CC"},
						},
					},
				},
			},
		}).
		SetResult(&result).
		Post("/video/v1/uploads")
	if err != nil {
		return nil, fmt.Errorf("video upload create: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("video upload create: %s", resp.Status())
	}
	return &result.Data, nil
}

func (c *Client) GetUpload(ctx context.Context, uploadID string) (*Upload, error) {
	var result dataEnvelope[Upload]
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/video/v1/uploads/" + uploadID)
	if err != nil {
		return nil, fmt.Errorf("video upload status: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("video upload status: %s", resp.Status())
	}
	return &result.Data, nil
}

func (c *Client) GetAsset(ctx context.Context, assetID string) (*Asset, error) {
	var result dataEnvelope[Asset]
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/video/v1/assets/" + assetID)
	if err != nil {
		return nil, fmt.Errorf("video asset: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("video asset: %s", resp.Status())
	}
	return &result.Data, nil
}

// SignedPlayback returns the asset's signed playback id, or "".
func (a *Asset) SignedPlayback() string {
	for _, p := range a.PlaybackIDs {
		if p.Policy == "signed" {
			return p.ID
		}
	}
	return ""
}

// UploadStatus is the poll answer for an in-flight upload: the asset
// state plus, once ready, the ids needed for playback.
type UploadStatus struct {
	Status        string `json:"status"`
	PlaybackID    string `json:"playbackId,omitempty"`
	AssetID       string `json:"assetId,omitempty"`
	AssetDocument string `json:"assetDocument,omitempty"`
}

// ResolveUploadStatus checks one upload once. When the asset has become
// ready with a signed playback id, the asset is registered as a video
// document in the content store under a fresh id.
func (c *Client) ResolveUploadStatus(ctx context.Context, uploadID string) (*UploadStatus, error) {
	upload, err := c.GetUpload(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if upload.AssetID == "" {
		return &UploadStatus{Status: "waiting"}, nil
	}

	asset, err := c.GetAsset(ctx, upload.AssetID)
	if err != nil {
		return nil, err
	}

	status := &UploadStatus{
		Status:     asset.Status,
		PlaybackID: asset.SignedPlayback(),
		AssetID:    asset.ID,
	}

	if asset.Status == "ready" && status.PlaybackID != "" {
		docID := uuid.NewString()
		err := c.store.CreateOrReplace(ctx, map[string]interface{}{
			"_id":        docID,
			"_type":      "videoAsset",
			"status":     asset.Status,
			"assetId":    asset.ID,
			"playbackId": status.PlaybackID,
			"uploadId":   asset.UploadID,
			"data": map[string]interface{}{
				"duration":     asset.Duration,
				"aspect_ratio": asset.AspectRatio,
			},
		})
		if err != nil {
			return nil, err
		}
		status.AssetDocument = docID
	}

	return status, nil
}

// WaitForAssetReady polls the upload every two seconds until the asset
// is ready, errors, or the five-minute cap expires.
func (c *Client) WaitForAssetReady(ctx context.Context, uploadID string) (*UploadStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.ResolveUploadStatus(ctx, uploadID)
		if err != nil {
			return nil, err
		}
		switch status.Status {
		case "ready":
			return status, nil
		case "errored":
			return status, errors.New("video asset errored during processing")
		}

		select {
		case <-ctx.Done():
			return status, fmt.Errorf("video asset not ready: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

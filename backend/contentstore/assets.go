package contentstore

import (
	"context"
	"fmt"
)

// Image upload constraints, enforced before anything leaves the
// process.
const maxImageSize = 10 * 1024 * 1024

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type assetResponse struct {
	Document struct {
		ID string `json:"_id"`
	} `json:"document"`
}

// UploadImage pushes image bytes to the platform's asset pipeline and
// returns the asset document id.
func (c *Client) UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if !validImageTypes[contentType] {
		return "", fmt.Errorf("invalid file type %q: upload a JPEG, PNG, GIF, or WebP image", contentType)
	}
	if len(data) > maxImageSize {
		return "", fmt.Errorf("file too large: maximum size is 10MB")
	}

	var result assetResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetQueryParam("filename", filename).
		SetBody(data).
		SetResult(&result).
		Post("/assets/images/" + c.dataset)
	if err != nil {
		return "", fmt.Errorf("content store asset upload: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("content store asset upload: %s", resp.Status())
	}

	return result.Document.ID, nil
}

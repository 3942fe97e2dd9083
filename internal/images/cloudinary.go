package images

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Cloudinary uploads through an unsigned upload preset.
type Cloudinary struct {
	endpoint string
	preset   string
	client   *http.Client
}

// NewCloudinary targets baseURL/cloudName/image/upload.
func NewCloudinary(baseURL, cloudName, preset string, client *http.Client) (*Cloudinary, error) {
	if cloudName == "" || preset == "" {
		return nil, fmt.Errorf("cloudinary cloud name and upload preset are required")
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Cloudinary{
		endpoint: fmt.Sprintf("%s/%s/image/upload", strings.TrimRight(baseURL, "/"), cloudName),
		preset:   preset,
		client:   client,
	}, nil
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Cloudinary) Upload(ctx context.Context, f File) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", f.Name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(f.Data); err != nil {
		return "", err
	}
	if err := w.WriteField("upload_preset", c.preset); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read cloudinary response: %w", err)
	}
	var out cloudinaryResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("unexpected cloudinary response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || out.SecureURL == "" {
		msg := resp.Status
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("cloudinary upload failed: %s", msg)
	}
	return out.SecureURL, nil
}

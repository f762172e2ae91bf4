// Package cdn talks to the image hosting service: compressed JPEG bytes go
// up, a public URL comes back, and deletes are addressed by the identifier
// derived from that URL.
package cdn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	apiKey  string
	folder  string
	http    *http.Client
}

func NewClient(baseURL, apiKey, folder string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		folder:  folder,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secureUrl"`
	PublicID  string `json:"publicId"`
}

// Upload sends an image to the CDN under folder/subfolder and returns its
// public URL.
func (c *Client) Upload(ctx context.Context, image []byte, subfolder string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("folder", c.folder+"/"+subfolder); err != nil {
		return "", err
	}
	part, err := mw.CreateFormFile("file", "image.jpg")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(image); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/images", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("cdn upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("cdn upload: status %d: %s", resp.StatusCode, payload)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("cdn upload: decode response: %w", err)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("cdn upload: response missing URL")
	}
	return out.SecureURL, nil
}

// Delete removes an image by its public URL. The CDN is eventually
// consistent: a 404 means the image is already gone and counts as success.
func (c *Client) Delete(ctx context.Context, imageURL string) error {
	publicID, err := PublicIDFromURL(imageURL)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/v1/images/"+url.PathEscape(publicID), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cdn delete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("cdn delete: status %d", resp.StatusCode)
	}
	return nil
}

// PublicIDFromURL derives the CDN identifier from a public image URL: the
// last two path segments without the file extension.
func PublicIDFromURL(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("parse image url: %w", err)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return "", fmt.Errorf("image url has no path: %s", imageURL)
	}

	name := segments[len(segments)-1]
	name = strings.TrimSuffix(name, path.Ext(name))
	if len(segments) == 1 {
		return name, nil
	}
	return segments[len(segments)-2] + "/" + name, nil
}

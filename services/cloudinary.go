package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"advocate_office_go/config"
)

// DefaultCloudinaryAPIBase is the production Cloudinary API endpoint
const DefaultCloudinaryAPIBase = "https://api.cloudinary.com"

// CloudinaryClient performs signed image uploads. APIBase is injectable for
// tests.
type CloudinaryClient struct {
	APIBase    string
	CloudName  string
	APIKey     string
	APISecret  string
	HTTPClient *http.Client
}

// Cloudinary is the global image upload client
var Cloudinary *CloudinaryClient

// NewCloudinaryClient creates a Cloudinary client from configuration
func NewCloudinaryClient(cfg *config.Config) *CloudinaryClient {
	return &CloudinaryClient{
		APIBase:    DefaultCloudinaryAPIBase,
		CloudName:  cfg.CloudinaryCloudName,
		APIKey:     cfg.CloudinaryAPIKey,
		APISecret:  cfg.CloudinaryAPISecret,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// IsConfigured returns true if Cloudinary credentials are present
func (c *CloudinaryClient) IsConfigured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// CloudinaryUploadResult is the subset of the provider response we keep
type CloudinaryUploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// SignUploadParams computes the provider-required signature: a SHA-1 digest
// over the canonical parameter string (keys sorted, joined with &) with the
// API secret appended.
func SignUploadParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	digest := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(digest[:])
}

// UploadImage uploads a base64 image payload into the given folder using a
// signed request. Fails closed when credentials are absent.
func (c *CloudinaryClient) UploadImage(ctx context.Context, image, folder string) (*CloudinaryUploadResult, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("cloudinary credentials not configured")
	}
	if image == "" {
		return nil, fmt.Errorf("image data is required")
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := SignUploadParams(map[string]string{
		"folder":    folder,
		"timestamp": timestamp,
	}, c.APISecret)

	form := url.Values{
		"file":      {image},
		"folder":    {folder},
		"timestamp": {timestamp},
		"api_key":   {c.APIKey},
		"signature": {signature},
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.APIBase, c.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("cloudinary upload failed (%d): %s", resp.StatusCode, string(body))
	}

	var result CloudinaryUploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode cloudinary response: %w", err)
	}

	return &result, nil
}

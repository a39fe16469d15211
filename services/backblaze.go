package services

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"advocate_office_go/config"
	"advocate_office_go/models"

	"gorm.io/gorm"
)

// B2 error stages. Each step of the upload handshake fails with its own tag so
// callers can tell where the operation stopped.
const (
	B2StageAuth      = "AuthError"
	B2StageUploadURL = "UploadUrlError"
	B2StageUpload    = "UploadError"
	B2StagePersist   = "PersistError"
)

// DefaultB2APIBase is the production Backblaze B2 API endpoint
const DefaultB2APIBase = "https://api.backblazeb2.com"

// DefaultQueryFolder is the destination folder for query communication files
const DefaultQueryFolder = "Query communication"

// B2Error is a tagged provider error carrying the failing stage and the
// provider's status and message.
type B2Error struct {
	Stage      string
	StatusCode int
	Message    string
}

func (e *B2Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Stage, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// B2Client talks to the native Backblaze B2 API for the query-file upload
// proxy. APIBase is injectable for tests.
type B2Client struct {
	APIBase    string
	KeyID      string
	AppKey     string
	BucketID   string
	BucketName string
	HTTPClient *http.Client
}

// B2 is the global upload proxy client
var B2 *B2Client

// NewB2Client creates a B2 client from configuration
func NewB2Client(cfg *config.Config) *B2Client {
	return &B2Client{
		APIBase:    DefaultB2APIBase,
		KeyID:      cfg.B2KeyID,
		AppKey:     cfg.B2AppKey,
		BucketID:   cfg.B2BucketID,
		BucketName: cfg.B2BucketName,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// IsConfigured returns true if B2 credentials are present
func (c *B2Client) IsConfigured() bool {
	return c.KeyID != "" && c.AppKey != "" && c.BucketID != "" && c.BucketName != ""
}

type b2AuthResponse struct {
	AuthorizationToken string `json:"authorizationToken"`
	APIURL             string `json:"apiUrl"`
	DownloadURL        string `json:"downloadUrl"`
}

type b2UploadURLResponse struct {
	UploadURL          string `json:"uploadUrl"`
	AuthorizationToken string `json:"authorizationToken"`
}

type b2UploadResponse struct {
	FileID      string `json:"fileId"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

// b2ErrorBody is the provider's error payload shape
type b2ErrorBody struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func b2ErrorFrom(stage string, resp *http.Response) *B2Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	message := string(body)
	var parsed b2ErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		message = parsed.Message
	} else if err == nil && parsed.Code != "" {
		message = parsed.Code
	}
	if message == "" {
		message = resp.Status
	}

	return &B2Error{Stage: stage, StatusCode: resp.StatusCode, Message: message}
}

// authorize performs the account authorization step (basic auth over key pair)
func (c *B2Client) authorize(ctx context.Context) (*b2AuthResponse, error) {
	if !c.IsConfigured() {
		return nil, &B2Error{Stage: B2StageAuth, Message: "backblaze credentials not configured"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBase+"/b2api/v2/b2_authorize_account", nil)
	if err != nil {
		return nil, &B2Error{Stage: B2StageAuth, Message: err.Error()}
	}
	req.SetBasicAuth(c.KeyID, c.AppKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &B2Error{Stage: B2StageAuth, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, b2ErrorFrom(B2StageAuth, resp)
	}

	var auth b2AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, &B2Error{Stage: B2StageAuth, Message: "failed to decode authorization response: " + err.Error()}
	}
	return &auth, nil
}

// getUploadURL obtains a bucket-scoped upload target
func (c *B2Client) getUploadURL(ctx context.Context, auth *b2AuthResponse) (*b2UploadURLResponse, error) {
	payload, _ := json.Marshal(map[string]string{"bucketId": c.BucketID})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, auth.APIURL+"/b2api/v2/b2_get_upload_url", bytes.NewReader(payload))
	if err != nil {
		return nil, &B2Error{Stage: B2StageUploadURL, Message: err.Error()}
	}
	req.Header.Set("Authorization", auth.AuthorizationToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &B2Error{Stage: B2StageUploadURL, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, b2ErrorFrom(B2StageUploadURL, resp)
	}

	var target b2UploadURLResponse
	if err := json.NewDecoder(resp.Body).Decode(&target); err != nil {
		return nil, &B2Error{Stage: B2StageUploadURL, Message: "failed to decode upload URL response: " + err.Error()}
	}
	return &target, nil
}

// uploadBytes sends the payload to the upload target
func (c *B2Client) uploadBytes(ctx context.Context, target *b2UploadURLResponse, fileName, contentType string, data []byte) (*b2UploadResponse, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	checksum := sha1.Sum(data)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.UploadURL, bytes.NewReader(data))
	if err != nil {
		return nil, &B2Error{Stage: B2StageUpload, Message: err.Error()}
	}
	req.Header.Set("Authorization", target.AuthorizationToken)
	req.Header.Set("X-Bz-File-Name", url.PathEscape(fileName))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Length", strconv.Itoa(len(data)))
	req.Header.Set("X-Bz-Content-Sha1", hex.EncodeToString(checksum[:]))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &B2Error{Stage: B2StageUpload, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, b2ErrorFrom(B2StageUpload, resp)
	}

	var uploaded b2UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, &B2Error{Stage: B2StageUpload, Message: "failed to decode upload response: " + err.Error()}
	}
	return &uploaded, nil
}

// UploadQueryFile performs the full upload handshake (authorize, get upload
// target, upload bytes) and persists the file metadata row. Auth failure stops
// before any upload-URL request; upload failure persists nothing. A persist
// failure after a successful upload leaves the object orphaned at the
// provider, which is logged and surfaced as a PersistError.
func (c *B2Client) UploadQueryFile(ctx context.Context, gdb *gorm.DB, folder, name, contentType string, data []byte) (*models.UploadedFile, error) {
	if folder == "" {
		folder = DefaultQueryFolder
	}

	auth, err := c.authorize(ctx)
	if err != nil {
		return nil, err
	}

	target, err := c.getUploadURL(ctx, auth)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("%s/%d-%s", folder, time.Now().UnixMilli(), name)
	uploaded, err := c.uploadBytes(ctx, target, fileName, contentType, data)
	if err != nil {
		return nil, err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	record := &models.UploadedFile{
		Name:        name,
		Size:        int64(len(data)),
		Type:        contentType,
		B2FileID:    uploaded.FileID,
		B2FileName:  uploaded.FileName,
		DownloadURL: fmt.Sprintf("%s/file/%s/%s", auth.DownloadURL, c.BucketName, uploaded.FileName),
	}

	if err := gdb.Create(record).Error; err != nil {
		log.Printf("[WARNING] Uploaded object %s is orphaned at the provider: metadata persist failed: %v", uploaded.FileID, err)
		return nil, &B2Error{Stage: B2StagePersist, Message: err.Error()}
	}

	return record, nil
}

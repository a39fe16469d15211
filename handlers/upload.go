package handlers

import (
	"errors"
	"net/http"
	"time"

	"advocate_office_go/config"
	"advocate_office_go/db"
	"advocate_office_go/models"
	"advocate_office_go/services"

	"github.com/labstack/echo/v4"
)

// b2ErrorStatus maps an upload handshake stage to the status returned to the
// client. Auth problems are the server's configuration, not the client's.
func b2ErrorStatus(stage string) int {
	switch stage {
	case services.B2StageAuth:
		return http.StatusBadGateway
	case services.B2StageUploadURL, services.B2StageUpload:
		return http.StatusBadGateway
	case services.B2StagePersist:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// UploadQueryFileHandler proxies a query communication file to object storage
// and records its metadata. The client never sees provider credentials.
func UploadQueryFileHandler(c echo.Context) error {
	if services.B2 == nil || !services.B2.IsConfigured() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "File storage is not configured")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file provided")
	}

	if err := services.ValidateQueryUpload(fileHeader); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	data, contentType, err := services.ReadUploadedFile(fileHeader)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	folder := c.FormValue("folder")

	record, err := services.B2.UploadQueryFile(c.Request().Context(), db.DB, folder, fileHeader.Filename, contentType, data)
	if err != nil {
		var b2Err *services.B2Error
		if errors.As(err, &b2Err) {
			c.Logger().Errorf("Query file upload failed at %s: %v", b2Err.Stage, b2Err)
			return c.JSON(b2ErrorStatus(b2Err.Stage), map[string]interface{}{
				"error":  b2Err.Stage,
				"detail": b2Err.Message,
			})
		}
		c.Logger().Errorf("Query file upload failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Upload failed")
	}

	return c.JSON(http.StatusCreated, record)
}

// ListUploadedFilesHandler lists uploaded file metadata, newest first
func ListUploadedFilesHandler(c echo.Context) error {
	var files []models.UploadedFile
	if err := db.DB.Order("uploaded_at DESC").Find(&files).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list files")
	}
	return c.JSON(http.StatusOK, files)
}

// DownloadFileHandler resolves a stored file to a time-limited signed URL via
// the S3-compatible endpoint and redirects the client to it.
func DownloadFileHandler(c echo.Context) error {
	var file models.UploadedFile
	if err := db.DB.First(&file, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}

	if services.Storage == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Storage is not configured")
	}

	signedURL, err := services.Storage.GetSignedURL(c.Request().Context(), file.B2FileName, 15*time.Minute)
	if err != nil {
		c.Logger().Errorf("Failed to sign download URL for %s: %v", file.ID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate download link")
	}

	return c.Redirect(http.StatusTemporaryRedirect, signedURL)
}

type imageUploadRequest struct {
	Image  string `json:"image"` // base64 data URI
	Folder string `json:"folder"`
}

// UploadImageHandler proxies a base64 image to Cloudinary with a signed
// request. Without credentials it fails closed.
func UploadImageHandler(c echo.Context) error {
	if services.Cloudinary == nil || !services.Cloudinary.IsConfigured() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Image storage is not configured")
	}

	var req imageUploadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Image == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Image data is required")
	}

	folder := req.Folder
	if folder == "" {
		if cfg, ok := c.Get("config").(*config.Config); ok {
			folder = cfg.CloudinaryFolder
		}
	}

	result, err := services.Cloudinary.UploadImage(c.Request().Context(), req.Image, folder)
	if err != nil {
		c.Logger().Errorf("Image upload failed: %v", err)
		return echo.NewHTTPError(http.StatusBadGateway, "Image upload failed")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"url":       result.SecureURL,
		"public_id": result.PublicID,
	})
}

package apihandlers

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadImageHandler handles POST /api/upload-image (admin). The image is
// returned as a base64 data URI for embedding in article content.
func (h *APIHandler) UploadImageHandler(c *gin.Context) {
	maxBytes := h.App.Config.Upload.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "a file form field is required")
		return
	}
	if fileHeader.Size > maxBytes {
		BadRequest(c, fmt.Sprintf("file exceeds the %d byte limit", maxBytes))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		Internal(c, "failed to open uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		Internal(c, "failed to read uploaded file")
		return
	}
	if int64(len(data)) > maxBytes {
		BadRequest(c, fmt.Sprintf("file exceeds the %d byte limit", maxBytes))
		return
	}

	// Sniff the actual content type rather than trusting the header.
	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		BadRequest(c, fmt.Sprintf("unsupported image type %q; use JPEG, PNG, GIF or WebP", contentType))
		return
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"content_type": contentType,
		"size":         len(data),
		"image_data":   dataURI,
	})
}

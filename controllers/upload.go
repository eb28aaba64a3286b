package controllers

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for the upload dimension probe
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	uuid "github.com/twinj/uuid"

	"greenlens/geo"
	"greenlens/middlewares"
	"greenlens/models"
	"greenlens/services"
)

// Human-readable messages for the known capture failure classes the client
// reports alongside an upload attempt.
var captureErrorMessages = map[string]string{
	"camera-unavailable":   "No camera is available on this device.",
	"camera-denied":        "Camera permission was denied. Please allow camera access and try again.",
	"insecure-context":     "Camera capture requires a secure (https) connection.",
	"location-denied":      "Location permission was denied. Please allow location access and try again.",
	"location-unsupported": "Geolocation is not supported by this browser.",
}

// CaptureErrorMessage Map a capture failure class to its user-facing
// message; unknown classes fall back to a generic one.
func CaptureErrorMessage(code string) string {
	if message, ok := captureErrorMessages[code]; ok {
		return message
	}
	return "An unexpected error occurred. Please try again."
}

// UploadImage Accept one captured photo plus its coordinates, push the
// bytes to the image store and create the image record. The record is only
// written after the store upload succeeds, so a failure leaves nothing
// behind.
func UploadImage(storage *services.Storage, index *geo.Index) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := middlewares.CurrentUser(c)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}

		latitude, err := strconv.ParseFloat(c.PostForm("latitude"), 64)
		if err != nil || latitude < -90 || latitude > 90 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "latitude must be a number between -90 and 90"})
			return
		}
		longitude, err := strconv.ParseFloat(c.PostForm("longitude"), 64)
		if err != nil || longitude < -180 || longitude > 180 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "longitude must be a number between -180 and 180"})
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not open uploaded file"})
			return
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}

		dimensions, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is not a decodable jpeg or png image"})
			return
		}

		ext := filepath.Ext(fileHeader.Filename)
		if ext == "" {
			ext = ".png"
		}
		objectName := fmt.Sprintf("%s/%s%s", owner.ID, uuid.NewV4().String(), ext)

		result, err := storage.Upload(c.Request.Context(), objectName, bytes.NewReader(data),
			int64(len(data)), fileHeader.Header.Get("Content-Type"))
		if err != nil {
			log.Error("image store upload failed: ", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to upload image to the image store"})
			return
		}

		img := models.Image{
			OwnerID:     owner.ID,
			AssetURL:    result.SecureURL,
			PublicID:    result.PublicID,
			Latitude:    latitude,
			Longitude:   longitude,
			Width:       dimensions.Width,
			Height:      dimensions.Height,
			CapturedAt:  time.Now(),
			Description: c.PostForm("description"),
		}
		if err := models.DB.Create(&img).Error; err != nil {
			log.Error("could not create image record: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save image record"})
			return
		}

		index.Insert(img.ID, img.Coordinate())

		c.JSON(http.StatusOK, gin.H{
			"secure_url": result.SecureURL,
			"public_id":  result.PublicID,
			"data":       img,
		})
	}
}

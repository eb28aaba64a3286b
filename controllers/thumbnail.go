package controllers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"greenlens/models"
	"greenlens/services"
	"greenlens/thumbnail"
)

const thumbnailTTL = 30 * time.Minute

// GetThumbnail Serve a bounded-width JPEG preview of an image, rendering it
// from the stored original on a cache miss.
func GetThumbnail(storage *services.Storage, cache *thumbnail.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var img models.Image
		if err := models.DB.Where("id = ?", c.Param("id")).First(&img).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found!"})
			return
		}

		if data, ok := cache.Get(img.ID); ok {
			c.Data(http.StatusOK, "image/jpeg", data)
			return
		}

		object, err := storage.Download(c.Request.Context(), img.PublicID)
		if err != nil {
			log.Warn("could not fetch original for thumbnail: ", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not fetch image from the image store"})
			return
		}
		defer object.Close()

		original, err := io.ReadAll(object)
		if err != nil {
			log.Warn("could not read original for thumbnail: ", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not fetch image from the image store"})
			return
		}

		data, err := thumbnail.Render(original, thumbnail.MaxWidth)
		if err != nil {
			log.Warn("could not render thumbnail for ", img.ID, ": ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		cache.Put(img.ID, data, time.Now().Add(thumbnailTTL).Unix())
		c.Data(http.StatusOK, "image/jpeg", data)
	}
}

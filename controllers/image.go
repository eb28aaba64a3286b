package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"greenlens/geo"
	"greenlens/middlewares"
	"greenlens/models"
)

// FindImages Find all images, newest capture first. With ?mine=true only
// the caller's own images are returned (the profile view).
func FindImages(c *gin.Context) {
	query := models.DB.Order("captured_at desc")
	if c.Query("mine") == "true" {
		query = query.Where("owner_id = ?", middlewares.CurrentUser(c).ID)
	}

	var images []models.Image
	query.Find(&images)

	c.JSON(http.StatusOK, gin.H{"data": images})
}

// FindImage Find one image
func FindImage(c *gin.Context) {
	var img models.Image
	if err := models.DB.Where("id = ?", c.Param("id")).First(&img).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found!"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": img})
}

type ReviewImageInput struct {
	Reviewed *bool `json:"reviewed" binding:"required"`
}

// ReviewImage Set the reviewed flag on an image. The only mutation images
// support, and only administrators reach it.
func ReviewImage(c *gin.Context) {
	var img models.Image
	if err := models.DB.Where("id = ?", c.Param("id")).First(&img).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found!"})
		return
	}

	var input ReviewImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := models.DB.Model(&img).Update("reviewed", *input.Reviewed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": img})
}

// NearbyImages Find images within radius_km of a point, via the spatial
// index.
func NearbyImages(index *geo.Index) gin.HandlerFunc {
	return func(c *gin.Context) {
		latitude, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lat must be a number"})
			return
		}
		longitude, err := strconv.ParseFloat(c.Query("lng"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lng must be a number"})
			return
		}
		radiusKM := 5.0
		if raw := c.Query("radius_km"); raw != "" {
			radiusKM, err = strconv.ParseFloat(raw, 64)
			if err != nil || radiusKM <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "radius_km must be a positive number"})
				return
			}
		}

		ids := index.Within(geo.Coordinate{Latitude: latitude, Longitude: longitude}, radiusKM)
		if len(ids) == 0 {
			c.JSON(http.StatusOK, gin.H{"data": []models.Image{}})
			return
		}

		var images []models.Image
		models.DB.Where("id IN ?", ids).Order("captured_at desc").Find(&images)

		c.JSON(http.StatusOK, gin.H{"data": images})
	}
}

package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"greenlens/geo"
	"greenlens/models"
	"greenlens/utils"
)

type CreateRouteInput struct {
	Name     string   `json:"name" binding:"required"`
	ImageIDs []string `json:"image_ids" binding:"required"`
}

// stopsOrdered Preload scope keeping stops in position order.
func stopsOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

// CreateRoute Persist an ordered selection of images as a named route. The
// coordinate snapshot is taken from the referenced images at creation time;
// selection order is preserved, never re-sorted. All validation happens
// before the write.
func CreateRoute(c *gin.Context) {
	var input CreateRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "route name must not be empty"})
		return
	}
	if len(input.ImageIDs) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a route needs at least two images"})
		return
	}

	images := make([]models.Image, 0, len(input.ImageIDs))
	for _, id := range input.ImageIDs {
		var img models.Image
		if err := models.DB.Where("id = ?", id).First(&img).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown image id: " + id})
			return
		}
		images = append(images, img)
	}

	route := models.NewRoute(name, images)
	if err := models.DB.Create(&route).Error; err != nil {
		log.Error("could not create route: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save route"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": route})
}

// FindRoutes Find all routes, newest first.
func FindRoutes(c *gin.Context) {
	var routes []models.Route
	models.DB.Preload("Stops", stopsOrdered).Order("created_at desc").Find(&routes)

	c.JSON(http.StatusOK, gin.H{"data": routes})
}

// FindRoute Find one route with its stops in order.
func FindRoute(c *gin.Context) {
	var route models.Route
	if err := models.DB.Preload("Stops", stopsOrdered).Where("id = ?", c.Param("id")).First(&route).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found!"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": route})
}

// RouteNavigation Derive the external turn-by-turn navigation link for a
// route. Purely derived from the stored coordinate snapshot; the client
// performs the actual redirect.
func RouteNavigation(config *utils.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var route models.Route
		if err := models.DB.Preload("Stops", stopsOrdered).Where("id = ?", c.Param("id")).First(&route).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found!"})
			return
		}

		url, err := geo.BuildNavigationURL(config.Maps.DirectionsBaseURL, route.Coordinates())
		if err != nil {
			if errors.Is(err, geo.ErrTooFewPoints) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "route does not have enough points to generate directions"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": gin.H{"url": url}})
	}
}

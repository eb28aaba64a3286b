package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"greenlens/middlewares"
	"greenlens/planner"
)

func plannerSession(store *planner.Store, c *gin.Context) (*planner.Planner, bool) {
	session, err := store.Get(middlewares.CurrentUser(c).ID)
	if err != nil {
		log.Error("could not open planner session: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not open planner session"})
		return nil, false
	}
	return session, true
}

// PlannerState Return the caller's route-builder snapshot: selection,
// viewed route, derived polyline, markers and viewport.
func PlannerState(store *planner.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := plannerSession(store, c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": session.State()})
	}
}

// PlannerToggleSelect Toggle an image in the caller's selection.
func PlannerToggleSelect(store *planner.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := plannerSession(store, c)
		if !ok {
			return
		}
		if err := session.ToggleSelect(c.Param("imageId")); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": session.State()})
	}
}

type SavePlannerRouteInput struct {
	Name string `json:"name"`
}

// PlannerSaveRoute Persist the caller's selection as a named route.
func PlannerSaveRoute(store *planner.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := plannerSession(store, c)
		if !ok {
			return
		}

		var input SavePlannerRouteInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		route, err := session.SaveRoute(input.Name)
		if err != nil {
			if errors.Is(err, planner.ErrEmptyName) || errors.Is(err, planner.ErrTooFewStops) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			log.Error("could not save route: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save route"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": route})
	}
}

// PlannerLoadRoute Switch the caller's session into viewing mode for a
// saved route. An unknown id leaves the session unchanged.
func PlannerLoadRoute(store *planner.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := plannerSession(store, c)
		if !ok {
			return
		}
		session.LoadRoute(c.Param("routeId"))
		c.JSON(http.StatusOK, gin.H{"data": session.State()})
	}
}

// PlannerClear Reset the caller's session.
func PlannerClear(store *planner.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := plannerSession(store, c)
		if !ok {
			return
		}
		session.Clear()
		c.JSON(http.StatusOK, gin.H{"data": session.State()})
	}
}

// PlannerRefresh Discard the caller's session so the next access reloads
// images and routes from the database.
func PlannerRefresh(store *planner.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		store.Drop(middlewares.CurrentUser(c).ID)
		c.JSON(http.StatusOK, gin.H{"data": true})
	}
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"github.com/MLeorio/FALL/database"
	"github.com/MLeorio/FALL/models"
)

type ListingsHandler struct {
	service *database.ListingsService
}

func NewListingsHandler(service *database.ListingsService) *ListingsHandler {
	return &ListingsHandler{
		service: service,
	}
}

// HealthCheck returns a simple health status
func (h *ListingsHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "fall-api",
	})
}

// GetListings returns every announcement on the platform.
func (h *ListingsHandler) GetListings(c *gin.Context) {
	listings, err := h.service.ListListings(c.Request.Context())
	if err != nil {
		log.Errorf("Error getting listings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, listings)
}

// GetPublicListings returns the active announcements shown on the public
// platform.
func (h *ListingsHandler) GetPublicListings(c *gin.Context) {
	listings, err := h.service.ListPublicListings(c.Request.Context())
	if err != nil {
		log.Errorf("Error getting public listings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, listings)
}

// GetPrivateListings returns the inactive announcements, reviewed by admins
// before validation.
func (h *ListingsHandler) GetPrivateListings(c *gin.Context) {
	listings, err := h.service.ListPrivateListings(c.Request.Context())
	if err != nil {
		log.Errorf("Error getting private listings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, listings)
}

// CreateListing stores a new announcement and returns it with its assigned
// id and timestamps.
func (h *ListingsHandler) CreateListing(c *gin.Context) {
	args := &models.ListingInput{}
	if err := c.BindJSON(args); err != nil {
		log.Errorf("Failed to get the argument in /annonce/ call: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.service.CreateListing(c.Request.Context(), args)
	if err != nil {
		log.Errorf("Error creating listing: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, listing)
}

// GetListing returns one announcement by id.
func (h *ListingsHandler) GetListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		log.Errorf("Error parsing id param: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Parsing id: %v", err)})
		return
	}

	listing, err := h.service.GetListing(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("L'annonce %d n'a pas été trouvée", id)})
			return
		}
		log.Errorf("Error getting listing %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, listing)
}

// UpdateListing applies the provided fields to an announcement and returns
// the refetched row.
func (h *ListingsHandler) UpdateListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		log.Errorf("Error parsing id param: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Parsing id: %v", err)})
		return
	}

	args := &models.ListingInput{}
	if err := c.BindJSON(args); err != nil {
		log.Errorf("Failed to get the argument in PUT /annonce/%d call: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.service.UpdateListing(c.Request.Context(), id, args)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("L'annonce %d n'a pas été trouvée", id)})
			return
		}
		log.Errorf("Error updating listing %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, listing)
}

// PublishListing activates an announcement on the public platform.
func (h *ListingsHandler) PublishListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		log.Errorf("Error parsing id param: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Parsing id: %v", err)})
		return
	}

	if err := h.service.PublishListing(c.Request.Context(), id); err != nil {
		log.Errorf("Error publishing listing %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Message: "L'annonce à bien été publiée"})
}

// ResolveListing marks the item as returned to its owner.
func (h *ListingsHandler) ResolveListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		log.Errorf("Error parsing id param: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Parsing id: %v", err)})
		return
	}

	if err := h.service.ResolveListing(c.Request.Context(), id); err != nil {
		log.Errorf("Error resolving listing %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Message: "Felicitation, objet bien rendu au proprietaire !"})
}

// DeleteListing removes an announcement, reporting 404 when the id matched
// no row.
func (h *ListingsHandler) DeleteListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		log.Errorf("Error parsing id param: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Parsing id: %v", err)})
		return
	}

	if err := h.service.DeleteListing(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("L'annonce %d n'a pas été trouvée", id)})
			return
		}
		log.Errorf("Error deleting listing %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Message: fmt.Sprintf("L'annonce %d a été supprimée", id)})
}

// RegisterDevice saves the installation record sent by a device at install
// time.
func (h *ListingsHandler) RegisterDevice(c *gin.Context) {
	args := &models.DeviceInput{}
	if err := c.BindJSON(args); err != nil {
		log.Errorf("Failed to get the argument in /installation/ call: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device, err := h.service.RegisterDevice(c.Request.Context(), args)
	if err != nil {
		log.Errorf("Error registering device: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{
		Message: fmt.Sprintf("Nous sommes heureux de vous compter parmis nous, utilisateur %s", device.DeviceID),
	})
}

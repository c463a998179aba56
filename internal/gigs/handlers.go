package gigs

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigflow/internal/models"
	"github.com/sudo-init-do/gigflow/internal/store"
)

type Handler struct {
	store store.EntityStore
}

func NewHandler(st store.EntityStore) *Handler {
	return &Handler{store: st}
}

type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Budget      int64  `json:"budget"`
}

// Create - post a new gig owned by the authenticated user.
func (h *Handler) Create(c echo.Context) error {
	ownerID, ok := c.Get("user_id").(string)
	if !ok || ownerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	req := new(CreateRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if msg := validateCreate(req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	now := time.Now().UTC()
	gig := &models.Gig{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Status:      models.GigOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.CreateGig(c.Request().Context(), gig); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create gig"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"gig": gig})
}

func validateCreate(req *CreateRequest) string {
	switch {
	case len(req.Title) < 5 || len(req.Title) > 100:
		return "title must be between 5 and 100 characters"
	case len(req.Description) < 20 || len(req.Description) > 2000:
		return "description must be between 20 and 2000 characters"
	case req.Budget < 1 || req.Budget > 1_000_000:
		return "budget must be between 1 and 1,000,000"
	}
	return ""
}

// List - all open gigs, optionally filtered by a title keyword.
func (h *Handler) List(c echo.Context) error {
	gigs, err := h.store.ListOpenGigs(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch gigs"})
	}
	if gigs == nil {
		gigs = []models.Gig{}
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(gigs), "gigs": gigs})
}

// Get - a single gig by id.
func (h *Handler) Get(c echo.Context) error {
	gig, err := h.store.GetGig(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "gig not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch gig"})
	}
	return c.JSON(http.StatusOK, echo.Map{"gig": gig})
}

// Mine - gigs posted by the authenticated user.
func (h *Handler) Mine(c echo.Context) error {
	ownerID, ok := c.Get("user_id").(string)
	if !ok || ownerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	gigs, err := h.store.ListGigsByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch gigs"})
	}
	if gigs == nil {
		gigs = []models.Gig{}
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(gigs), "gigs": gigs})
}

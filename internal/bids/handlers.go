package bids

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigflow/internal/alerts"
	"github.com/sudo-init-do/gigflow/internal/hire"
	"github.com/sudo-init-do/gigflow/internal/models"
	"github.com/sudo-init-do/gigflow/internal/store"
)

type Handler struct {
	store       store.EntityStore
	coordinator *hire.Coordinator
	emailAlerts bool
}

func NewHandler(st store.EntityStore, coordinator *hire.Coordinator, emailAlerts bool) *Handler {
	return &Handler{store: st, coordinator: coordinator, emailAlerts: emailAlerts}
}

type SubmitRequest struct {
	GigID   string `json:"gigId"`
	Message string `json:"message"`
	Price   int64  `json:"price"`
}

// Submit - freelancer proposes on an open gig. Self-bids are rejected here
// and duplicates are caught by the store's uniqueness constraint, so neither
// ever reaches the hire path.
func (h *Handler) Submit(c echo.Context) error {
	freelancerID, ok := c.Get("user_id").(string)
	if !ok || freelancerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	req := new(SubmitRequest)
	if err := c.Bind(req); err != nil || req.GigID == "" || req.Message == "" || req.Price < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gigId, message and a positive price are required"})
	}

	ctx := c.Request().Context()
	gig, err := h.store.GetGig(ctx, req.GigID)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "gig not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch gig"})
	}
	if gig.Status != models.GigOpen {
		return c.JSON(http.StatusConflict, echo.Map{"error": "this gig is no longer accepting bids"})
	}
	if gig.OwnerID == freelancerID {
		return c.JSON(http.StatusConflict, echo.Map{"error": "you cannot bid on your own gig"})
	}

	now := time.Now().UTC()
	bid := &models.Bid{
		ID:           uuid.New().String(),
		GigID:        gig.ID,
		FreelancerID: freelancerID,
		Price:        req.Price,
		Message:      req.Message,
		Status:       models.BidPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.store.CreateBid(ctx, bid); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "you have already submitted a bid for this gig"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit bid"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"bid": bid})
}

// ForGig - all bids on a gig, visible to the gig owner only. Statuses are
// reported relative to the gig's assignment outcome: a bid still pending on
// an assigned gig lost the hire and is shown rejected even if the
// reconciliation write has not landed yet.
func (h *Handler) ForGig(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := c.Request().Context()
	gig, err := h.store.GetGig(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "gig not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch gig"})
	}
	if gig.OwnerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to view bids for this gig"})
	}

	list, err := h.store.ListBidsForGig(ctx, gig.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch bids"})
	}
	for i := range list {
		list[i].Status = models.EffectiveBidStatus(gig, &list[i])
	}
	if list == nil {
		list = []models.Bid{}
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(list), "bids": list})
}

// Mine - the authenticated freelancer's bids, joined with gig context.
func (h *Handler) Mine(c echo.Context) error {
	freelancerID, ok := c.Get("user_id").(string)
	if !ok || freelancerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := c.Request().Context()
	list, err := h.store.ListBidsByFreelancer(ctx, freelancerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch bids"})
	}

	out := make([]models.BidWithGig, 0, len(list))
	for _, b := range list {
		row := models.BidWithGig{Bid: b}
		if gig, err := h.store.GetGig(ctx, b.GigID); err == nil {
			row.GigTitle = gig.Title
			row.GigBudget = gig.Budget
			row.GigStatus = gig.Status
			row.Status = models.EffectiveBidStatus(gig, &b)
		}
		out = append(out, row)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(out), "bids": out})
}

// Hire - gig owner hires the freelancer behind a bid.
func (h *Handler) Hire(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := c.Request().Context()
	view, err := h.coordinator.Hire(ctx, c.Param("id"), userID)
	switch {
	case err == nil:
	case errors.Is(err, hire.ErrBidNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "bid not found"})
	case errors.Is(err, hire.ErrNotOwner):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized - you are not the gig owner"})
	case errors.Is(err, hire.ErrGigClosed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "this gig has already been assigned"})
	case errors.Is(err, hire.ErrInconsistent):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "data inconsistency detected"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hire failed"})
	}

	// Best-effort email to the winner; never affects the hire result.
	if h.emailAlerts {
		if freelancer, err := h.store.GetUser(ctx, view.FreelancerID); err == nil && freelancer.Email != "" {
			if err := alerts.EnqueueHiredEmail(view, freelancer.Email, freelancer.Name); err != nil {
				log.Printf("bids: hired email enqueue failed for bid %s: %v", view.BidID, err)
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "freelancer hired successfully", "bid": view})
}

package gigs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigflow/internal/models"
	"github.com/sudo-init-do/gigflow/internal/store"
)

func doRequest(h echo.HandlerFunc, method, path, body, userID string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
	}
	_ = h(c)
	return rec
}

func TestCreateGigValidation(t *testing.T) {
	h := NewHandler(store.NewMemoryStore())
	longDesc := strings.Repeat("d", 30)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"valid", `{"title":"Build a site","description":"` + longDesc + `","budget":100}`, http.StatusCreated},
		{"short title", `{"title":"abc","description":"` + longDesc + `","budget":100}`, http.StatusBadRequest},
		{"short description", `{"title":"Build a site","description":"short","budget":100}`, http.StatusBadRequest},
		{"zero budget", `{"title":"Build a site","description":"` + longDesc + `","budget":0}`, http.StatusBadRequest},
		{"excessive budget", `{"title":"Build a site","description":"` + longDesc + `","budget":2000000}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(h.Create, http.MethodPost, "/gigs", tt.body, "u1")
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestListFiltersOpenGigsBySearch(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	for _, g := range []*models.Gig{
		{ID: "g1", OwnerID: "u1", Title: "Logo design", Status: models.GigOpen},
		{ID: "g2", OwnerID: "u1", Title: "API backend", Status: models.GigOpen},
		{ID: "g3", OwnerID: "u2", Title: "Logo refresh", Status: models.GigAssigned},
	} {
		if err := st.CreateGig(ctx, g); err != nil {
			t.Fatalf("create gig: %v", err)
		}
	}
	h := NewHandler(st)

	rec := doRequest(h.List, http.MethodGet, "/gigs?search=logo", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var resp struct {
		Gigs []models.Gig `json:"gigs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// g3 matches the keyword but is assigned, so only g1 is listed
	if len(resp.Gigs) != 1 || resp.Gigs[0].ID != "g1" {
		t.Fatalf("gigs = %+v, want just g1", resp.Gigs)
	}
}

func TestGetGig(t *testing.T) {
	st := store.NewMemoryStore()
	if err := st.CreateGig(context.Background(), &models.Gig{ID: "g1", OwnerID: "u1", Title: "Logo design", Status: models.GigOpen}); err != nil {
		t.Fatalf("create gig: %v", err)
	}
	h := NewHandler(st)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/gigs/g1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("g1")
	_ = h.Get(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/gigs/missing", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	_ = h.Get(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
}

func TestMineListsOnlyOwnGigs(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	for _, g := range []*models.Gig{
		{ID: "g1", OwnerID: "u1", Title: "Logo design", Status: models.GigOpen},
		{ID: "g2", OwnerID: "u2", Title: "API backend", Status: models.GigOpen},
	} {
		if err := st.CreateGig(ctx, g); err != nil {
			t.Fatalf("create gig: %v", err)
		}
	}
	h := NewHandler(st)

	rec := doRequest(h.Mine, http.MethodGet, "/gigs/me", "", "u1")
	var resp struct {
		Gigs []models.Gig `json:"gigs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Gigs) != 1 || resp.Gigs[0].ID != "g1" {
		t.Fatalf("gigs = %+v, want just g1", resp.Gigs)
	}
}

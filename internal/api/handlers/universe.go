package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/niftyscreen/internal/universe"
)

// UniverseLister returns the symbol universe
type UniverseLister interface {
	Universe(ctx context.Context) *universe.Listing
}

// UniverseHandler serves the constituent list
type UniverseHandler struct {
	lister UniverseLister
}

// NewUniverseHandler creates a new universe handler
func NewUniverseHandler(lister UniverseLister) *UniverseHandler {
	return &UniverseHandler{lister: lister}
}

// GetUniverse returns the constituents and whether the fallback list is in use
// GET /api/universe
func (h *UniverseHandler) GetUniverse(w http.ResponseWriter, r *http.Request) {
	respondData(w, h.lister.Universe(r.Context()))
}

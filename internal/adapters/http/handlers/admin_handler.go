package handlers

import (
	"net/http"

	"github.com/liskovpm/scrum-service/internal/adapters/http/dto"
	"github.com/liskovpm/scrum-service/internal/ports"
)

// AdminHandler handles maintenance endpoints used by development tooling
// such as the seed CLI. These routes are not meant for production
// exposure.
type AdminHandler struct {
	reset ports.ResetStore
}

// NewAdminHandler creates a new AdminHandler with the given reset store.
func NewAdminHandler(reset ports.ResetStore) *AdminHandler {
	return &AdminHandler{reset: reset}
}

// Reset handles POST /api/v1/admin/reset. It deletes all domain data.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.reset.Reset(r.Context()); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

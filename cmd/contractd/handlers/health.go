package handlers

import (
	"context"
	"net/http"

	"github.com/yope/ethereum-contract/internal/platform/db"
	"github.com/yope/ethereum-contract/internal/platform/web"
)

// Health provides support for orchestration health checks.
type Health struct {
	MasterDB *db.DB
}

// Check validates the service is ready to take traffic.
func (h *Health) Check(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	if err := h.MasterDB.StatusCheck(ctx); err != nil {
		return err
	}

	status := struct {
		Status string `json:"status"`
	}{
		Status: "ok",
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

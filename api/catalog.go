package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// maxCatalogItems caps how many products the inspection endpoint returns.
const maxCatalogItems = 50

// GetCatalog returns the currently published snapshot for operators.
// GET /v1/catalog
func (h *Handler) GetCatalog(c echo.Context) error {
	snap := h.snapshots.Snapshot()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > maxCatalogItems {
		limit = maxCatalogItems
	}
	products := snap.Products
	if len(products) > limit {
		products = products[:limit]
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":      len(snap.Products),
		"fetched_at": snap.FetchedAt,
		"products":   products,
	})
}

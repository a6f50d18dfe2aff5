package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ishu524/productr/internal/catalog"
	"github.com/ishu524/productr/internal/webserver"
)

// The dashboard is a read-only projection of the catalog: published and
// unpublished tabs only, no "all" tab and no mutating operations.

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard/products", dashboardProducts)
}

func dashboardProducts(c echo.Context) error {
	tabParam := c.QueryParam("tab")
	if tabParam == "" {
		tabParam = string(catalog.TabPublished)
	}
	tab, okTab := catalog.ParseTab(tabParam)
	if !okTab || tab == catalog.TabAll {
		return fail(c, http.StatusBadRequest, "INVALID_TAB", "Tab must be 'published' or 'unpublished'", nil)
	}

	store := webserver.GetAppContext(c).Catalog()
	collection, err := store.Load()
	if err != nil {
		zap.L().Error("catalog storage failure", zap.String("op", "dashboard"), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to load products", nil)
	}

	rows := catalog.Filter(collection, tab)
	data := map[string]interface{}{
		"tab":      tab,
		"products": rows,
		"total":    len(rows),
	}
	if len(rows) == 0 {
		if tab == catalog.TabPublished {
			data["emptyMessage"] = "No Published Products"
			data["emptyHint"] = "Your Published Products will appear here"
		} else {
			data["emptyMessage"] = "No Unpublished Products"
			data["emptyHint"] = "Your Unpublished Products will appear here"
		}
	}
	return ok(c, data)
}

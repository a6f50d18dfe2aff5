package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ishu524/productr/internal/catalog"
	"github.com/ishu524/productr/internal/domain"
	"github.com/ishu524/productr/internal/webserver"
)

// registerManagerRoutes registers the full CRUD surface of the manager view
func registerManagerRoutes() {
	webserver.ApiGET("/manager/products", listManagerProducts)
	webserver.ApiPOST("/manager/products", createProduct)
	webserver.ApiPUT("/manager/products/:id", updateProduct)
	webserver.ApiPOST("/manager/products/:id/publish", togglePublish)
	webserver.ApiDELETE("/manager/products/:id", deleteProduct)
}

func listManagerProducts(c echo.Context) error {
	tabParam := c.QueryParam("tab")
	if tabParam == "" {
		tabParam = string(catalog.TabAll)
	}
	tab, okTab := catalog.ParseTab(tabParam)
	if !okTab {
		return fail(c, http.StatusBadRequest, "INVALID_TAB", "Tab must be 'all', 'published' or 'unpublished'", nil)
	}

	store := webserver.GetAppContext(c).Catalog()
	collection, err := store.Load()
	if err != nil {
		zap.L().Error("catalog storage failure", zap.String("op", "list"), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to load products", nil)
	}

	rows := catalog.Filter(collection, tab)
	return ok(c, map[string]interface{}{
		"tab":      tab,
		"products": rows,
		"total":    len(rows),
	})
}

// createProduct handles the modal form's submit path for a new record. The
// response carries the created record so the client patches its working
// copy instead of reloading.
func createProduct(c echo.Context) error {
	var draft domain.ProductDraft
	if err := c.Bind(&draft); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}

	store := webserver.GetAppContext(c).Catalog()
	p, err := store.Create(draft)
	if err != nil {
		return failStore(c, err, "create")
	}

	zap.S().Infof("product %d created: %s", p.ID, p.ProductName)
	return okMsg(c, "Product added Successfully", p)
}

func updateProduct(c echo.Context) error {
	id, err := parseProductID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var draft domain.ProductDraft
	if err := c.Bind(&draft); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}

	store := webserver.GetAppContext(c).Catalog()
	p, err := store.Update(id, draft)
	if err != nil {
		return failStore(c, err, "update")
	}

	return okMsg(c, "Product updated Successfully", p)
}

// togglePublish flips the published flag only; it does not take the edit
// form and works as a single click with no confirmation.
func togglePublish(c echo.Context) error {
	id, err := parseProductID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	store := webserver.GetAppContext(c).Catalog()
	p, err := store.TogglePublish(id)
	if err != nil {
		return failStore(c, err, "publish")
	}

	return ok(c, p)
}

// deleteProduct is idempotent: deleting an id that is already gone still
// succeeds.
func deleteProduct(c echo.Context) error {
	id, err := parseProductID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	store := webserver.GetAppContext(c).Catalog()
	if err := store.Delete(id); err != nil {
		return failStore(c, err, "delete")
	}

	return ok(c, map[string]interface{}{"id": id})
}

func parseProductID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// failStore maps the catalog error taxonomy onto the response envelope.
func failStore(c echo.Context, err error, op string) error {
	switch e := err.(type) {
	case *catalog.ValidationError:
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", e.Error(), e.Fields)
	case *catalog.NotFoundError:
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	case *catalog.StorageError:
		zap.L().Error("catalog storage failure", zap.String("op", op), zap.Error(e))
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to "+op+" product", nil)
	default:
		zap.L().Error("unexpected catalog error", zap.String("op", op), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+op+" product", nil)
	}
}

package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velora-labs/storefront/internal/models"
)

func (env *testEnv) seedCategory(name string, parentID *uint) *models.Category {
	env.T.Helper()
	category := models.Category{Name: name, ParentCategoryID: parentID}
	require.NoError(env.T, env.DB.Create(&category).Error)
	return &category
}

func TestCreateCategoryHandler(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/categories", map[string]any{
		"name":        "Electronics",
		"description": "Gadgets and devices",
	})
	require.NoError(t, env.C.CreateCategory(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Electronics", resp.Name)
	require.Nil(t, resp.ParentCategoryID)
}

func TestCreateCategoryHandlerWithParent(t *testing.T) {
	env := newTestEnv(t)
	parent := env.seedCategory("Electronics", nil)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/categories", map[string]any{
		"name":               "Laptops",
		"parent_category_id": parent.ID,
	})
	require.NoError(t, env.C.CreateCategory(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.ParentCategoryID)
	require.Equal(t, parent.ID, *resp.ParentCategoryID)
}

func TestCreateCategoryHandlerUnknownParent(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/categories", map[string]any{
		"name":               "Laptops",
		"parent_category_id": 999,
	})
	requireHTTPError(t, env.C.CreateCategory(c), http.StatusNotFound)

	var count int64
	require.NoError(t, env.DB.Model(&models.Category{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateCategoryHandlerDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategory("Electronics", nil)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/categories", map[string]any{
		"name": "Electronics",
	})
	requireHTTPError(t, env.C.CreateCategory(c), http.StatusBadRequest)
}

func TestCreateCategoryHandlerShortName(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/categories", map[string]any{
		"name": "X",
	})
	requireHTTPError(t, env.C.CreateCategory(c), http.StatusBadRequest)
}

func TestGetCategoriesHandler(t *testing.T) {
	env := newTestEnv(t)
	parent := env.seedCategory("Electronics", nil)
	env.seedCategory("Laptops", &parent.ID)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/categories", nil)
	require.NoError(t, env.C.GetCategories(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	// Sorted by name: Electronics first, with its child attached.
	require.Equal(t, "Electronics", resp[0].Name)
	require.Len(t, resp[0].Children, 1)
	require.Equal(t, "Laptops", resp[0].Children[0].Name)
}

func TestGetCategoryHandlerNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/categories/99", nil)
	c.SetParamNames("id")
	c.SetParamValues("99")
	requireHTTPError(t, env.C.GetCategory(c), http.StatusNotFound)
}

func TestPatchCategoryHandler(t *testing.T) {
	env := newTestEnv(t)
	category := env.seedCategory("Electronics", nil)

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/admin/categories/1", map[string]any{
		"name":        "Consumer Electronics",
		"description": "Updated",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.C.PatchCategory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.Category
	require.NoError(t, env.DB.First(&reloaded, category.ID).Error)
	require.Equal(t, "Consumer Electronics", reloaded.Name)
	require.Equal(t, "Updated", reloaded.Description)
}

func TestPatchCategoryHandlerUnknownParent(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategory("Electronics", nil)

	_, c := env.doJSONRequest(http.MethodPatch, "/api/v1/admin/categories/1", map[string]any{
		"parent_category_id": 999,
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	requireHTTPError(t, env.C.PatchCategory(c), http.StatusNotFound)
}

func TestDeleteCategoryHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategory("Electronics", nil)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/admin/categories/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.C.DeleteCategory(c))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteCategoryHandlerWithChildren(t *testing.T) {
	env := newTestEnv(t)
	parent := env.seedCategory("Electronics", nil)
	env.seedCategory("Laptops", &parent.ID)

	_, c := env.doJSONRequest(http.MethodDelete, "/api/v1/admin/categories/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	requireHTTPError(t, env.C.DeleteCategory(c), http.StatusBadRequest)

	var count int64
	require.NoError(t, env.DB.Model(&models.Category{}).Count(&count).Error)
	require.Equal(t, int64(2), count)
}

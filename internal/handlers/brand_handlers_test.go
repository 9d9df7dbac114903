package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velora-labs/storefront/internal/models"
)

func TestCreateBrandHandler(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/brands", map[string]any{
		"name":     "Acme",
		"logo_url": "https://acme.example/logo.png",
	})
	require.NoError(t, env.B.CreateBrand(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.Brand
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Acme", resp.Name)
	require.NotZero(t, resp.ID)
}

func TestCreateBrandHandlerMissingName(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/brands", map[string]any{
		"description": "no name",
	})
	requireHTTPError(t, env.B.CreateBrand(c), http.StatusBadRequest)
}

func TestGetBrandsHandlerIncludesProducts(t *testing.T) {
	env := newTestEnv(t)

	brand := models.Brand{Name: "Acme"}
	require.NoError(t, env.DB.Create(&brand).Error)
	require.NoError(t, env.DB.Create(&models.Product{
		Name: "Widget", Description: "a widget", Price: 9.99, BrandID: &brand.ID,
	}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/brands", nil)
	require.NoError(t, env.B.GetBrands(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []models.Brand
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Len(t, resp[0].Products, 1)
	require.Equal(t, "Widget", resp[0].Products[0].Name)
}

func TestGetBrandHandlerNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/brands/99", nil)
	c.SetParamNames("id")
	c.SetParamValues("99")
	requireHTTPError(t, env.B.GetBrand(c), http.StatusNotFound)
}

func TestPatchBrandHandler(t *testing.T) {
	env := newTestEnv(t)

	brand := models.Brand{Name: "Acme"}
	require.NoError(t, env.DB.Create(&brand).Error)

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/admin/brands/1", map[string]any{
		"name": "Acme Corp",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.B.PatchBrand(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.Brand
	require.NoError(t, env.DB.First(&reloaded, brand.ID).Error)
	require.Equal(t, "Acme Corp", reloaded.Name)
}

func TestDeleteBrandHandler(t *testing.T) {
	env := newTestEnv(t)

	brand := models.Brand{Name: "Acme"}
	require.NoError(t, env.DB.Create(&brand).Error)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/admin/brands/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.B.DeleteBrand(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, c2 := env.doJSONRequest(http.MethodDelete, "/api/v1/admin/brands/1", nil)
	c2.SetParamNames("id")
	c2.SetParamValues("1")
	requireHTTPError(t, env.B.DeleteBrand(c2), http.StatusNotFound)
}

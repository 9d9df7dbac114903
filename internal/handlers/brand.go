package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/velora-labs/storefront/internal/models"
)

type BrandHandler struct {
	DB *gorm.DB
}

type brandRequest struct {
	Name        string `json:"name"`
	LogoURL     string `json:"logo_url"`
	Description string `json:"description"`
}

func (h *BrandHandler) GetBrands(c echo.Context) error {
	var brands []models.Brand
	if err := h.DB.Preload("Products").Find(&brands).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, brands)
}

func (h *BrandHandler) GetBrand(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid brand id")
	}

	var brand models.Brand
	if err := h.DB.Preload("Products").First(&brand, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "brand not found")
	}
	return c.JSON(http.StatusOK, brand)
}

func (h *BrandHandler) CreateBrand(c echo.Context) error {
	var req brandRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name required")
	}

	brand := models.Brand{
		Name:        req.Name,
		LogoURL:     req.LogoURL,
		Description: req.Description,
	}
	if err := h.DB.Create(&brand).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, brand)
}

func (h *BrandHandler) PatchBrand(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid brand id")
	}

	var req brandRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var brand models.Brand
	if err := h.DB.First(&brand, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "brand not found")
	}

	if req.Name != "" {
		brand.Name = req.Name
	}
	if req.LogoURL != "" {
		brand.LogoURL = req.LogoURL
	}
	if req.Description != "" {
		brand.Description = req.Description
	}

	if err := h.DB.Save(&brand).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, brand)
}

func (h *BrandHandler) DeleteBrand(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid brand id")
	}

	var brand models.Brand
	if err := h.DB.First(&brand, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "brand not found")
	}

	if err := h.DB.Delete(&brand).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

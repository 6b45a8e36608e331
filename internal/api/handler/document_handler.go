package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cdainvest/portal-system/internal/api/metrics"
	"github.com/cdainvest/portal-system/internal/core/domain"
	"github.com/cdainvest/portal-system/internal/core/ports"
)

const defaultPageSize = 20

type DocumentHandler struct {
	docs ports.DocumentService
}

func NewDocumentHandler(docs ports.DocumentService) *DocumentHandler {
	return &DocumentHandler{docs: docs}
}

// List returns the report library.
//
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  documentListResponse
// @Router       /documents [get]
func (h *DocumentHandler) List(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	limit, offset := pagination(c)
	docs, err := h.docs.List(c.Request().Context(), c.QueryParam("category"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, documentListResponse{Documents: docs})
}

// Get returns a single document and records the download.
//
// @Summary      Fetch a document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Document
// @Failure      404  {object}  statusResponse
// @Router       /documents/{id} [get]
func (h *DocumentHandler) Get(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	doc, err := h.docs.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	if err := h.docs.RecordDownload(c.Request().Context(), doc.ID, email); err == nil {
		metrics.DocumentDownloadsTotal.Inc()
	}
	return c.JSON(http.StatusOK, doc)
}

// Create uploads a new document record. Admin only.
//
// @Summary      Create a document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.Document
// @Failure      400  {object}  statusResponse
// @Router       /documents [post]
func (h *DocumentHandler) Create(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	doc, err := h.docs.Create(c.Request().Context(), &domain.Document{
		Title:       req.Title,
		Description: req.Description,
		FileURL:     req.FileURL,
		Category:    req.Category,
		UploadedBy:  email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, doc)
}

// Delete removes a document. Admin only.
//
// @Summary      Delete a document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statusResponse
// @Failure      404  {object}  statusResponse
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) Delete(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	if err := h.docs.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Success: true, Message: "document deleted"})
}

// Downloads lists the download audit trail. Admin only.
//
// @Summary      List download records
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  downloadListResponse
// @Router       /downloads [get]
func (h *DocumentHandler) Downloads(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	limit, offset := pagination(c)
	recs, err := h.docs.ListDownloads(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, downloadListResponse{Downloads: recs})
}

func pagination(c echo.Context) (limit, offset int64) {
	limit = defaultPageSize
	if v, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.ParseInt(c.QueryParam("offset"), 10, 64); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

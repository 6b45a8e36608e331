package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cdainvest/portal-system/internal/core/domain"
	"github.com/cdainvest/portal-system/internal/core/ports"
)

type EngagementHandler struct {
	engagement ports.EngagementService
	users      ports.UserRepository
}

func NewEngagementHandler(engagement ports.EngagementService, users ports.UserRepository) *EngagementHandler {
	return &EngagementHandler{engagement: engagement, users: users}
}

// StoreContact accepts a public contact-form submission.
//
// @Summary      Store a contact message
// @Tags         engagement
// @Accept       json
// @Produce      json
// @Success      201  {object}  domain.ContactMessage
// @Failure      400  {object}  statusResponse
// @Router       /storeContactUs [post]
func (h *EngagementHandler) StoreContact(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.engagement.StoreContact(c.Request().Context(), &domain.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, msg)
}

// ListContacts returns contact submissions. Admin only.
//
// @Summary      List contact messages
// @Tags         engagement
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.ContactMessage
// @Router       /getContactUs [get]
func (h *EngagementHandler) ListContacts(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	limit, offset := pagination(c)
	msgs, err := h.engagement.ListContacts(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

// StoreProfile accepts a public investment-selector submission.
//
// @Summary      Store an investment profile lead
// @Tags         engagement
// @Accept       json
// @Produce      json
// @Success      201  {object}  domain.InvestmentProfile
// @Failure      400  {object}  statusResponse
// @Router       /storeInvestmentProfile [post]
func (h *EngagementHandler) StoreProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.engagement.StoreProfile(c.Request().Context(), &domain.InvestmentProfile{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		RiskAppetite: req.RiskAppetite,
		BudgetRange:  req.BudgetRange,
		Horizon:      req.Horizon,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, profile)
}

// ListProfiles returns investment-profile leads. Admin only.
//
// @Summary      List investment profiles
// @Tags         engagement
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.InvestmentProfile
// @Router       /investmentProfiles [get]
func (h *EngagementHandler) ListProfiles(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	limit, offset := pagination(c)
	profiles, err := h.engagement.ListProfiles(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}

// ListUsers returns registered users. Admin only.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.User
// @Router       /users [get]
func (h *EngagementHandler) ListUsers(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	limit, offset := pagination(c)
	users, err := h.users.List(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Dashboard returns the admin overview aggregates.
//
// @Summary      Admin dashboard stats
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.DashboardStats
// @Router       /admin/dashboard [get]
func (h *EngagementHandler) Dashboard(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	stats, err := h.engagement.DashboardStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

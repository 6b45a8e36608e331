package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cdainvest/portal-system/internal/api/metrics"
	"github.com/cdainvest/portal-system/internal/core/domain"
	"github.com/cdainvest/portal-system/internal/core/ports"
)

type AuthHandler struct {
	authService    ports.AuthService
	captchaService ports.CaptchaService
	otpService     ports.OTPService
}

func NewAuthHandler(authService ports.AuthService, captchaService ports.CaptchaService, otpService ports.OTPService) *AuthHandler {
	return &AuthHandler{authService: authService, captchaService: captchaService, otpService: otpService}
}

// GetCaptcha issues a fresh CAPTCHA challenge.
//
// @Summary      Issue a CAPTCHA challenge
// @Tags         auth
// @Produce      json
// @Success      200  {object}  captchaResponse
// @Router       /get-captcha [get]
func (h *AuthHandler) GetCaptcha(c echo.Context) error {
	challenge, err := h.captchaService.Issue(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, captchaResponse{
		ChallengeID: challenge.ID,
		Captcha:     challenge.Markup,
	})
}

// VerifyCaptcha checks the user's answer against the issued challenge.
// Business failures come back as 200 {success:false}; the client reissues
// the challenge and stays on the form.
//
// @Summary      Verify a CAPTCHA answer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyCaptchaRequest  true  "Challenge id and answer"
// @Success      200   {object}  statusResponse
// @Router       /verify-captcha [post]
func (h *AuthHandler) VerifyCaptcha(c echo.Context) error {
	var req verifyCaptchaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.captchaService.Verify(c.Request().Context(), req.ChallengeID, req.Captcha)
	switch {
	case err == nil:
		metrics.CaptchaVerificationsTotal.WithLabelValues("success").Inc()
		return c.JSON(http.StatusOK, statusResponse{Success: true})
	case errors.Is(err, domain.ErrCaptchaMismatch):
		metrics.CaptchaVerificationsTotal.WithLabelValues("mismatch").Inc()
		return c.JSON(http.StatusOK, statusResponse{Success: false, Message: "Invalid CAPTCHA"})
	case errors.Is(err, domain.ErrCaptchaExpired):
		metrics.CaptchaVerificationsTotal.WithLabelValues("expired").Inc()
		return c.JSON(http.StatusOK, statusResponse{Success: false, Message: "CAPTCHA expired, please reload"})
	default:
		return err
	}
}

// SendOTP issues a one-time password for the submitted identity.
//
// @Summary      Send an OTP to an investor
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      sendOTPRequest  true  "Investor identity"
// @Success      200   {object}  statusResponse
// @Failure      400   {object}  statusResponse
// @Router       /auth/send-otp [post]
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req sendOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity := domain.Identity{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := h.otpService.Send(c.Request().Context(), identity); err != nil {
		return c.JSON(http.StatusOK, statusResponse{Success: false, Message: "Failed to send OTP"})
	}

	metrics.OTPSentTotal.WithLabelValues("initial").Inc()
	return c.JSON(http.StatusOK, statusResponse{Success: true, Message: "OTP sent successfully"})
}

// UserLogin completes the investor OTP flow and issues a session token.
//
// @Summary      Verify OTP and log an investor in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      userLoginRequest  true  "Identity plus OTP"
// @Success      200   {object}  userLoginResponse
// @Failure      400   {object}  statusResponse
// @Router       /auth/userLogin [post]
func (h *AuthHandler) UserLogin(c echo.Context) error {
	var req userLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity := domain.Identity{Name: req.Name, Email: req.Email, Phone: req.Phone}
	result, err := h.authService.UserLogin(c.Request().Context(), identity, req.OTP)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("otp", "failure").Inc()
		return c.JSON(http.StatusOK, userLoginResponse{Status: false, Message: otpFailureMessage(err)})
	}

	metrics.LoginsTotal.WithLabelValues("otp", "success").Inc()
	return c.JSON(http.StatusOK, userLoginResponse{
		Status:   true,
		Message:  "Login successful",
		User:     result.User,
		Token:    result.Token,
		ExpireAt: result.ExpireAt,
	})
}

// AdminLogin authenticates a back-office user by password.
//
// @Summary      Admin password login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      adminLoginRequest  true  "Admin credentials"
// @Success      200   {object}  adminLoginResponse
// @Failure      401   {object}  statusResponse
// @Router       /auth/login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req adminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.AdminLogin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("password", "failure").Inc()
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("password", "success").Inc()
	return c.JSON(http.StatusOK, adminLoginResponse{
		Success:  true,
		Message:  "Login successful",
		Token:    result.Token,
		ExpireAt: result.ExpireAt,
		Role:     result.Role,
	})
}

// Logout revokes the caller's token. Revocation problems are logged by the
// service; the client clears local state regardless, so this always
// acknowledges.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statusResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	token, _ := c.Get("token").(string)
	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return err
	}

	metrics.SessionsRevokedTotal.Inc()
	return c.JSON(http.StatusOK, statusResponse{Success: true, Message: "Logged out"})
}

func otpFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrOTPMismatch):
		return "Invalid OTP"
	case errors.Is(err, domain.ErrOTPExpired):
		return "OTP expired, please request a new one"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "Too many attempts, please request a new OTP"
	default:
		return "Login failed"
	}
}

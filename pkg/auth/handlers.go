package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/librisbooks/libris/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	authService *Service
}

func (h *handler) register(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := RegisterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Register(ctx, RegisterOptions{
		Name:     params.Name,
		Email:    params.Email,
		Password: params.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	token, err := h.authService.IssueToken(ctx, user)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, TokenResponse{Token: token, User: user}))
}

func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Authenticate(ctx, params.Email, params.Password)
	if err != nil {
		return errors.WithStack(err)
	}

	token, err := h.authService.IssueToken(ctx, user)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, TokenResponse{Token: token, User: user}))
}

func (h *handler) currentUser(c echo.Context) error {
	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errors.New("user route reached without an authenticated user")
	}

	return errors.WithStack(c.JSON(http.StatusOK, user))
}

func (h *handler) logout(c echo.Context) error {
	ctx := c.Request().Context()

	tokenID, ok := c.Get("token_id").(string)
	if !ok {
		return errors.New("logout reached without an authenticated token")
	}

	if err := h.authService.RevokeToken(ctx, tokenID); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, MessageResponse{Message: "Logged out."}))
}

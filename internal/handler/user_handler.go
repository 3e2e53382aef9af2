package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "agrichain/internal/errors"
	"agrichain/internal/model"
	"agrichain/internal/repository"
	"agrichain/internal/service"
)

// UserHandler handles user profile endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserUpdateRequest enumerates the mutable profile fields.
type UserUpdateRequest struct {
	Name          *string  `json:"name"`
	Phone         *string  `json:"phone"`
	Address       *string  `json:"address"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	Pincode       *string  `json:"pincode"`
	FarmName      *string  `json:"farm_name"`
	FarmSizeAcres *float64 `json:"farm_size_acres"`
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} errors.Envelope
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	filter := repository.UserFilter{
		Role:  model.Role(c.QueryParam("role")),
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 10),
	}
	if v := c.QueryParam("active"); v != "" {
		active := v == "true"
		filter.Active = &active
	}

	users, total, err := h.userService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "users", NewPage(users, filter.Page, filter.Limit, total))
}

// Get godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Router /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "user", user)
}

// Update godoc
// @Summary Update user profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UserUpdateRequest true "Mutable fields"
// @Success 200 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Router /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req UserUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), CurrentUser(c), id, service.UserUpdate{
		Name:          req.Name,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		Pincode:       req.Pincode,
		FarmName:      req.FarmName,
		FarmSizeAcres: req.FarmSizeAcres,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "user updated", user)
}

// Deactivate godoc
// @Summary Deactivate a user account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Router /users/{id} [delete]
func (h *UserHandler) Deactivate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.userService.Deactivate(c.Request().Context(), CurrentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "user deactivated", nil)
}

// Reactivate godoc
// @Summary Reactivate a user account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Router /users/{id}/reactivate [post]
func (h *UserHandler) Reactivate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.userService.Reactivate(c.Request().Context(), CurrentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "user reactivated", nil)
}

// pathID parses the :id path parameter as a UUID.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.NewHTTPError(http.StatusBadRequest, "invalid id", "INVALID_UUID")
	}
	return id, nil
}

// queryInt parses an integer query parameter with a default.
func queryInt(c echo.Context, name string, def int) int {
	if v := c.QueryParam(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

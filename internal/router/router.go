package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"agrichain/internal/auth"
	"agrichain/internal/config"
	apperrors "agrichain/internal/errors"
	"agrichain/internal/handler"
	"agrichain/internal/metrics"
	"agrichain/internal/model"
	"agrichain/internal/service"
)

// Handlers bundles every HTTP handler wired by Register.
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Crop        *handler.CropHandler
	Shipment    *handler.ShipmentHandler
	Transaction *handler.TransactionHandler
	Price       *handler.PriceHandler
	QR          *handler.QRHandler
}

// Register wires routes and middleware. Role requirements are declared
// here, per route, so authorization policy lives in one place.
func Register(e *echo.Echo, cfg *config.Config, authService service.AuthService, h Handlers) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = errorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)

	// Secured routes: token verification, then user load + active check.
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(cfg.JWTSecret),
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return apperrors.NewHTTPError(http.StatusUnauthorized, "missing or invalid token", "INVALID_TOKEN")
			},
		}),
		loadUser(authService),
	)

	secured.GET("/auth/me", h.Auth.Me)

	// User routes
	secured.GET("/users", h.User.List, RequireRoles(model.RoleAdmin))
	secured.GET("/users/:id", h.User.Get)
	secured.PUT("/users/:id", h.User.Update)
	secured.DELETE("/users/:id", h.User.Deactivate, RequireRoles(model.RoleAdmin))
	secured.POST("/users/:id/reactivate", h.User.Reactivate, RequireRoles(model.RoleAdmin))

	// Crop routes
	secured.POST("/crops", h.Crop.Create, RequireRoles(model.RoleFarmer, model.RoleAdmin))
	secured.GET("/crops", h.Crop.List)
	secured.GET("/crops/:id", h.Crop.Get)
	secured.PUT("/crops/:id", h.Crop.Update, RequireRoles(model.RoleFarmer, model.RoleAdmin))
	secured.DELETE("/crops/:id", h.Crop.Delete, RequireRoles(model.RoleFarmer, model.RoleAdmin))
	secured.GET("/crops/:id/qr", h.Crop.QRCode)

	// Shipment routes
	secured.POST("/shipments", h.Shipment.Create, RequireRoles(model.RoleDistributor, model.RoleAdmin))
	secured.GET("/shipments", h.Shipment.List)
	secured.GET("/shipments/:id", h.Shipment.Get)
	secured.GET("/shipments/track/:trackingNumber", h.Shipment.Track)
	secured.POST("/shipments/:id/checkpoints", h.Shipment.AddCheckpoint, RequireRoles(model.RoleDistributor, model.RoleAdmin))
	secured.POST("/shipments/:id/cancel", h.Shipment.Cancel, RequireRoles(model.RoleDistributor, model.RoleAdmin))

	// Transaction routes
	secured.POST("/transactions", h.Transaction.Create, RequireRoles(model.RoleDistributor))
	secured.GET("/transactions", h.Transaction.List)
	secured.GET("/transactions/:id", h.Transaction.Get)
	secured.POST("/transactions/:id/confirm", h.Transaction.Confirm, RequireRoles(model.RoleFarmer, model.RoleAdmin))
	secured.POST("/transactions/:id/fail", h.Transaction.Fail, RequireRoles(model.RoleFarmer, model.RoleAdmin))
	secured.POST("/transactions/:id/refund", h.Transaction.Refund, RequireRoles(model.RoleFarmer, model.RoleAdmin))

	// Price routes
	secured.POST("/prices/predict", h.Price.Predict)
	secured.GET("/prices/history", h.Price.History)
	secured.POST("/prices/train", h.Price.Train, RequireRoles(model.RoleAdmin))
	secured.GET("/prices/ml-status", h.Price.MLStatus)

	// QR routes
	secured.POST("/qr/decode", h.QR.Decode)
}

// loadUser resolves the verified token to an active user record and makes
// it available to handlers.
func loadUser(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return apperrors.NewHTTPError(http.StatusUnauthorized, "missing or invalid token", "INVALID_TOKEN")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return apperrors.NewHTTPError(http.StatusUnauthorized, "missing or invalid token", "INVALID_TOKEN")
			}

			user, err := authService.LoadUser(c.Request().Context(), claims)
			if err != nil {
				return err
			}

			c.Set(handler.ContextUserKey, user)
			return next(c)
		}
	}
}

// RequireRoles rejects callers whose role is not in the allow-list.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := handler.CurrentUser(c)
			if user == nil {
				return apperrors.NewHTTPError(http.StatusUnauthorized, "missing or invalid token", "INVALID_TOKEN")
			}
			if _, ok := allowed[user.Role]; !ok {
				return apperrors.ErrForbidden
			}
			return next(c)
		}
	}
}

// errorHandler renders every error as the uniform envelope.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var env apperrors.Envelope
	status := http.StatusInternalServerError

	switch e := err.(type) {
	case *apperrors.HTTPError:
		status = e.StatusCode
		env = e.ToEnvelope()
	case *echo.HTTPError:
		status = e.Code
		env = apperrors.Envelope{Success: false, Message: http.StatusText(e.Code)}
		if msg, ok := e.Message.(string); ok {
			env.Message = msg
		}
	default:
		httpErr := apperrors.MapErrorToHTTP(err)
		status = httpErr.StatusCode
		env = httpErr.ToEnvelope()
	}

	if err := c.JSON(status, env); err != nil {
		c.Logger().Error(err)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/angin-nusantara/internal/auth"
	"github.com/i474232898/angin-nusantara/internal/cities"
	"github.com/i474232898/angin-nusantara/internal/weather"
)

var validate = validator.New()

// Services bundles what the HTTP layer calls into.
type Services struct {
	Auth    *auth.Gateway
	Weather *weather.Service
	Cities  *cities.Service
}

type handler struct {
	Services
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc Services) {
	h := handler{svc}
	v1 := app.Group("/api/v1")

	a := v1.Group("/auth")
	a.Post("/register", h.register)
	a.Post("/login", h.login)
	a.Post("/logout", h.logout)
	a.Get("/me", h.me)

	w := v1.Group("/weather")
	w.Get("/current", h.currentWeather)
	w.Get("/forecast", h.forecast)
	w.Get("/search", h.search)
	w.Get("/icon/:code", h.icon)

	c := v1.Group("/cities")
	c.Get("/", h.listCities)
	c.Post("/", h.saveCity)
	c.Get("/count", h.countCities)
	c.Delete("/:id", h.removeCity)
	c.Post("/:id/refresh", h.refreshCity)
}

// ErrorHandler renders errors as {"error": true, "message": ...} with a status
// derived from the error kind.
// Unclassified errors get a generic message; their text goes to log only.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")

	return func(c *fiber.Ctx, err error) error {
		code, msg := fiber.StatusInternalServerError, internalErrorMessage

		var fe *fiber.Error
		var ve validator.ValidationErrors
		switch {
		case errors.As(err, &fe):
			code, msg = fe.Code, fe.Message
		case errors.As(err, &ve):
			code, msg = fiber.StatusBadRequest, validationMessage(ve)
		case isCityError(err):
			code, msg = cityStatus(err), cities.Message(err)
		case isAuthError(err):
			code, msg = authStatus(auth.Kind(err)), auth.Message(err)
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
		}
		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": msg,
		})
	}
}

const internalErrorMessage = "Something went wrong. Please try again later"

func validationMessage(ve validator.ValidationErrors) string {
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return "Invalid request: " + strings.Join(fields, ", ")
}

func isCityError(err error) bool {
	for _, k := range []error{
		cities.ErrNotAuthenticated, cities.ErrAlreadySaved, cities.ErrWeatherUnavailable,
		cities.ErrForbidden, cities.ErrNotFound, cities.ErrStore,
	} {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

func cityStatus(err error) int {
	switch {
	case errors.Is(err, cities.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, cities.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, cities.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, cities.ErrAlreadySaved):
		return fiber.StatusConflict
	case errors.Is(err, cities.ErrWeatherUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusServiceUnavailable
	}
}

func isAuthError(err error) bool {
	return auth.Kind(err) != auth.ErrUnknown || errors.Is(err, auth.ErrUnknown)
}

func authStatus(kind error) int {
	switch kind {
	case auth.ErrEmailInUse:
		return fiber.StatusConflict
	case auth.ErrInvalidEmail, auth.ErrWeakPassword:
		return fiber.StatusBadRequest
	case auth.ErrUserNotFound, auth.ErrWrongPassword:
		return fiber.StatusUnauthorized
	case auth.ErrTooManyAttempts:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// registerRequest is the body of POST /auth/register.
type registerRequest struct {
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"displayName" validate:"max=64"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type saveCityRequest struct {
	CityName string `json:"cityName" validate:"required"`
}

func bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return validate.Struct(out)
}

func (h handler) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	id, err := h.Auth.Register(c.UserContext(), strings.TrimSpace(req.Email), req.Password, strings.TrimSpace(req.DisplayName))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(id)
}

func (h handler) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	id, err := h.Auth.Login(c.UserContext(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(id)
}

func (h handler) logout(c *fiber.Ctx) error {
	if err := h.Auth.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h handler) me(c *fiber.Ctx) error {
	id := h.Auth.CurrentIdentity()
	if id == nil {
		return cities.ErrNotAuthenticated
	}
	if cached := h.Auth.CachedIdentity(c.UserContext()); cached != nil && cached.UID == id.UID {
		id = cached
	}
	return c.JSON(id)
}

func requiredQuery(c *fiber.Ctx, key string) (string, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, key+" query parameter is required")
	}
	return v, nil
}

func (h handler) currentWeather(c *fiber.Ctx) error {
	city, err := requiredQuery(c, "city")
	if err != nil {
		return err
	}

	snap := h.Weather.Current(c.UserContext(), city)
	if snap == nil {
		return cities.ErrWeatherUnavailable
	}
	return c.JSON(fiber.Map{
		"weather":   snap,
		"display":   snap.Formatted(),
		"condition": snap.Condition(),
		"emoji":     snap.Condition().Emoji(),
		"colors":    snap.Condition().Colors(),
	})
}

func (h handler) forecast(c *fiber.Ctx) error {
	city, err := requiredQuery(c, "city")
	if err != nil {
		return err
	}

	days := h.Weather.Forecast(c.UserContext(), city)
	if days == nil {
		days = []weather.ForecastDay{}
	}
	return c.JSON(fiber.Map{
		"city": city,
		"days": days,
	})
}

func (h handler) search(c *fiber.Ctx) error {
	q, err := requiredQuery(c, "q")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"query":   q,
		"results": h.Weather.Search(c.UserContext(), q),
	})
}

func (h handler) icon(c *fiber.Ctx) error {
	code := c.Params("code")
	return c.JSON(fiber.Map{
		"code": code,
		"url":  weather.IconURL(code),
	})
}

// listCities answers a signed-out caller with an empty list and an error
// note rather than a failure status.
func (h handler) listCities(c *fiber.Ctx) error {
	listing, err := h.Cities.List(c.UserContext())
	if errors.Is(err, cities.ErrNotAuthenticated) {
		return c.JSON(fiber.Map{
			"cities":    listing.Cities,
			"fromCache": listing.FromCache,
			"error":     cities.Message(err),
		})
	}
	if err != nil {
		return err
	}
	return c.JSON(listing)
}

func (h handler) saveCity(c *fiber.Ctx) error {
	var req saveCityRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	city, err := h.Cities.Save(c.UserContext(), req.CityName)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(city)
}

func (h handler) countCities(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"count": h.Cities.Count(c.UserContext())})
}

func (h handler) removeCity(c *fiber.Ctx) error {
	if err := h.Cities.Remove(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h handler) refreshCity(c *fiber.Ctx) error {
	snap, err := h.Cities.RefreshWeather(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"weather": snap,
		"display": snap.Formatted(),
	})
}

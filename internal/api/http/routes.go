package httpapi

import (
	"crypto/subtle"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"

	"github.com/i474232898/fuel-price-page/internal/fuel"
	"github.com/i474232898/fuel-price-page/internal/pricepage"
	"github.com/i474232898/fuel-price-page/internal/publish"
	"github.com/i474232898/fuel-price-page/internal/store"
)

var validate = validator.New()

// APIKeyHeader carries the admin key for the /api/v1 routes.
const APIKeyHeader = "X-Api-Key"

// RegisterRoutes wires the HTTP handlers into the Fiber app. When apiKey is
// non-empty every /api/v1 route requires it; the published page stays public.
func RegisterRoutes(app *fiber.App, service *fuel.Service, updater *pricepage.Updater, apiKey string) {
	app.Get("/", func(c *fiber.Ctx) error {
		page, err := updater.Current(c.UserContext())
		if err != nil {
			if errors.Is(err, publish.ErrNotPublished) {
				return fiber.NewError(fiber.StatusNotFound, "price page has not been published yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load price page")
		}

		c.Set(fiber.HeaderContentType, updater.ContentType())
		return c.Send(page)
	})

	v1 := app.Group("/api/v1")
	if apiKey != "" {
		v1.Use(keyauth.New(keyauth.Config{
			KeyLookup: "header:" + APIKeyHeader,
			Validator: func(_ *fiber.Ctx, key string) (bool, error) {
				if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
					return true, nil
				}
				return false, keyauth.ErrMissingOrMalformedAPIKey
			},
		}))
	}

	v1.Get("/prices/:icao", func(c *fiber.Ctx) error {
		req, err := parseAirportParam(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rec, err := service.Lookup(c.UserContext(), req.ICAO)
		if err != nil {
			return lookupError(err)
		}

		return c.JSON(rec.Summary())
	})

	v1.Get("/prices/:icao/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := service.History(req.Airport.ICAO, req.From, req.To)
		if err != nil {
			switch {
			case errors.Is(err, fuel.ErrNoHistory):
				return fiber.NewError(fiber.StatusNotImplemented, err.Error())
			case errors.Is(err, store.ErrNotFound):
				return fiber.NewError(fiber.StatusNotFound, "no price history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch price history")
		}

		return c.JSON(fiber.Map{
			"icao":    req.Airport.ICAO,
			"from":    req.From,
			"to":      req.To,
			"records": records,
		})
	})

	refresh := func(c *fiber.Ctx) error {
		res, err := updater.Refresh(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to refresh price page")
		}
		return c.JSON(res)
	}
	v1.Post("/refresh", refresh)
	v1.Get("/updatecache", refresh)
}

func lookupError(err error) error {
	var fe *fuel.FetchError
	switch {
	case errors.Is(err, fuel.ErrInvalidICAO):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.As(err, &fe):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch prices")
}

// airportParam identifies an airport by its ICAO code.
type airportParam struct {
	ICAO string `validate:"required,len=4,alphanum"`
}

func parseAirportParam(c *fiber.Ctx) (airportParam, error) {
	var p airportParam

	p.ICAO = strings.ToUpper(strings.TrimSpace(c.Params("icao")))

	if err := validate.Struct(p); err != nil {
		return p, err
	}

	return p, nil
}

// historyQuery holds the parameters of the history endpoint.
type historyQuery struct {
	Airport airportParam
	From    time.Time `validate:"required"`
	To      time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	p, err := parseAirportParam(c)
	if err != nil {
		return err
	}
	h.Airport = p

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}

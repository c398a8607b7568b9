package httpapi

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/bikeshare-viewer/internal/bikeshare"
	"github.com/i474232898/bikeshare-viewer/internal/bikeshare/providers"
	"github.com/i474232898/bikeshare-viewer/internal/figure"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
// maps may be nil when no map access token is configured; the map route then answers 503.
func RegisterRoutes(app *fiber.App, service *bikeshare.Service, maps *figure.MapRenderer) {
	v1 := app.Group("/api/v1")

	v1.Get("/cities", func(c *fiber.Ctx) error {
		cities, err := service.ListAllCityNames(c.UserContext())
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(fiber.Map{"cities": cities})
	})

	v1.Get("/networks/all", func(c *fiber.Ctx) error {
		networks, err := service.FetchAllNetworks(c.UserContext())
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(fiber.Map{"networks": networks})
	})

	v1.Get("/networks", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		city := service.ResolveCity(c.UserContext(), q.City)
		networks, err := service.FindNetworksForCity(c.UserContext(), city)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(fiber.Map{"city": city, "networks": networks})
	})

	v1.Get("/stations", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		city := service.ResolveCity(c.UserContext(), q.City)
		stations, err := service.AvailableStations(c.UserContext(), city)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(fiber.Map{
			"city":     city,
			"summary":  bikeshare.Summarize(city, stations),
			"stations": stations,
		})
	})

	v1.Get("/stations/names", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		city := service.ResolveCity(c.UserContext(), q.City)
		names, err := service.ListStationNames(c.UserContext(), city)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(fiber.Map{"city": city, "names": names})
	})

	v1.Get("/stations/locate", func(c *fiber.Ctx) error {
		q, err := parseStationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		city := service.ResolveCity(c.UserContext(), q.City)
		result, err := service.LocateStation(c.UserContext(), city, q.Query)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(result)
	})

	v1.Get("/charts/station", func(c *fiber.Ctx) error {
		q, err := parseStationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		city := service.ResolveCity(c.UserContext(), q.City)
		result, err := service.LocateStation(c.UserContext(), city, q.Query)
		if err != nil {
			return toFiberError(err)
		}

		if result.Match == bikeshare.MatchAmbiguous {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":      true,
				"message":    "several stations match; use a more specific name",
				"candidates": result.Candidates,
			})
		}

		fig, ok := figure.RenderStationBarChart(result.Station)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "station data is not available")
		}
		return c.JSON(fig)
	})

	v1.Get("/maps/city", func(c *fiber.Ctx) error {
		if maps == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "map rendering is not configured")
		}

		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		city := service.ResolveCity(c.UserContext(), q.City)
		stations, err := service.AvailableStations(c.UserContext(), city)
		if err != nil {
			return toFiberError(err)
		}

		fig, err := maps.RenderCityMap(c.UserContext(), stations, city)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(fig)
	})

	v1.Get("/geolocate", func(c *fiber.Ctx) error {
		city, err := service.ResolveCityFromCallerIP(c.UserContext())
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(fiber.Map{"city": city})
	})
}

// cityQuery identifies a city. An empty city means "the caller's city".
type cityQuery struct {
	City string `validate:"omitempty,max=128"`
}

func parseCityQuery(c *fiber.Ctx) (cityQuery, error) {
	q := cityQuery{City: strings.TrimSpace(c.Query("city"))}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// stationQuery identifies a station by part of its name.
type stationQuery struct {
	City  string `validate:"omitempty,max=128"`
	Query string `validate:"required,max=128"`
}

func parseStationQuery(c *fiber.Ctx) (stationQuery, error) {
	q := stationQuery{
		City:  strings.TrimSpace(c.Query("city")),
		Query: strings.TrimSpace(c.Query("q")),
	}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// toFiberError maps domain and upstream errors onto HTTP errors.
func toFiberError(err error) error {
	var upstream *providers.UpstreamError

	switch {
	case errors.Is(err, bikeshare.ErrNoNetworkForCity):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, figure.ErrNoStations):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, bikeshare.ErrMissingUID):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.As(err, &upstream):
		return fiber.NewError(fiber.StatusBadGateway, upstream.Message)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

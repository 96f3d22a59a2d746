package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-lookup/internal/location"
	"github.com/i474232898/weather-lookup/internal/view"
	"github.com/i474232898/weather-lookup/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the screen's HTTP handlers into the Fiber app. src may
// be nil when no location source is configured.
func RegisterRoutes(app *fiber.App, client *weather.Client, src location.Source) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		snap := client.State().Snapshot()
		if snap.Record == nil {
			return fiber.NewError(fiber.StatusNotFound, "no weather loaded yet")
		}
		return c.JSON(view.Render(snap))
	})

	v1.Get("/weather/city", func(c *fiber.Ctx) error {
		res := <-client.FetchByCity(c.UserContext(), c.Query("name"))
		return respond(c, res)
	})

	v1.Get("/weather/coordinates", func(c *fiber.Ctx) error {
		q, err := parseCoordinatesQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res := <-client.FetchByCoordinates(c.UserContext(), q.lat, q.lon)
		return respond(c, res)
	})

	v1.Post("/weather/locate", func(c *fiber.Ctx) error {
		res, err := location.Locate(c.UserContext(), src, client)
		if err != nil {
			if weather.KindOf(err) != 0 || errors.Is(err, weather.ErrClosed) {
				return fetchError(err)
			}
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return respond(c, res)
	})

	v1.Get("/weather/events", func(c *fiber.Ctx) error {
		return streamEvents(c, client.State())
	})
}

// respond renders the record of this fetch, not whatever the state holds by now.
func respond(c *fiber.Ctx, res weather.Result) error {
	if res.Err != nil {
		return fetchError(res.Err)
	}
	rec := res.Record
	return c.JSON(view.Render(weather.Snapshot{Record: &rec, Seq: res.Seq}))
}

// coordinatesQuery holds the raw query parameters of the coordinates endpoint.
type coordinatesQuery struct {
	Lat string `validate:"required,latitude"`
	Lon string `validate:"required,longitude"`

	lat, lon float64
}

func parseCoordinatesQuery(c *fiber.Ctx) (coordinatesQuery, error) {
	q := coordinatesQuery{
		Lat: c.Query("lat"),
		Lon: c.Query("lon"),
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	var err error
	if q.lat, err = strconv.ParseFloat(q.Lat, 64); err != nil {
		return q, errors.New("invalid lat")
	}
	if q.lon, err = strconv.ParseFloat(q.Lon, 64); err != nil {
		return q, errors.New("invalid lon")
	}
	return q, nil
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"hbnb/internal/service"
)

// ListCountries godoc
// @Summary  List countries
// @Tags     countries
// @Success  200 {array} model.Country
// @Router   /countries [get]
func ListCountries(svc service.CountryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		countries, err := svc.List(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(countries)
	}
}

// GetCountry godoc
// @Summary  Get a country by ISO code
// @Tags     countries
// @Param    code path string true "ISO 3166-1 alpha-2 code"
// @Success  200 {object} model.Country
// @Failure  404 {object} errorPayload
// @Router   /countries/{code} [get]
func GetCountry(svc service.CountryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		country, err := svc.Get(c.UserContext(), c.Params("code"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(country)
	}
}

// ListCountryCities godoc
// @Summary  List the cities of a country
// @Tags     countries
// @Param    code path string true "ISO 3166-1 alpha-2 code"
// @Success  200 {array} model.City
// @Router   /countries/{code}/cities [get]
func ListCountryCities(svc service.CountryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cities, err := svc.Cities(c.UserContext(), c.Params("code"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(cities)
	}
}

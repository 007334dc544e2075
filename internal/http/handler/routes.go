package handler

import (
	"github.com/gofiber/fiber/v2"

	"hbnb/internal/auth"
	"hbnb/internal/http/middleware"
	"hbnb/internal/repository"
	"hbnb/internal/service"
)

// RegisterRoutes attaches the probes and the API to app. Reads are public;
// mutations require a bearer token issued by /users/login.
func RegisterRoutes(app *fiber.App, repo repository.Repository, svc *service.Services, issuer *auth.Issuer) {
	app.Get("/health", HealthCheck(repo))
	app.Get("/healthz", LivenessProbe())

	authn := middleware.RequireAuth(issuer)

	app.Get("/admin/stats", authn, middleware.RequireAdmin(), RepositoryStats(repo))

	users := app.Group("/users")
	users.Get("/", ListUsers(svc.Users))
	users.Post("/", CreateUser(svc.Users, issuer))
	users.Post("/login", Login(svc.Users, issuer))
	users.Get("/:id", GetUser(svc.Users))
	users.Put("/:id", authn, UpdateUser(svc.Users))
	users.Delete("/:id", authn, DeleteUser(svc.Users))
	users.Get("/:id/reviews", ListUserReviews(svc.Reviews))

	countries := app.Group("/countries")
	countries.Get("/", ListCountries(svc.Countries))
	countries.Get("/:code", GetCountry(svc.Countries))
	countries.Get("/:code/cities", ListCountryCities(svc.Countries))

	cities := app.Group("/cities")
	cities.Get("/", ListCities(svc.Cities))
	cities.Post("/", authn, CreateCity(svc.Cities))
	cities.Get("/:id", GetCity(svc.Cities))
	cities.Put("/:id", authn, UpdateCity(svc.Cities))
	cities.Delete("/:id", authn, DeleteCity(svc.Cities))

	places := app.Group("/places")
	places.Get("/", ListPlaces(svc.Places))
	places.Post("/", authn, CreatePlace(svc.Places))
	places.Get("/:id", GetPlace(svc.Places))
	places.Put("/:id", authn, UpdatePlace(svc.Places))
	places.Delete("/:id", authn, DeletePlace(svc.Places))
	places.Get("/:id/reviews", ListPlaceReviews(svc.Reviews))
	places.Post("/:id/reviews", authn, CreatePlaceReview(svc.Reviews))
	places.Get("/:id/amenities", ListPlaceAmenities(svc.Amenities))
	places.Post("/:id/amenities/:amenity_id", authn, AddPlaceAmenity(svc.Places, svc.Amenities))
	places.Delete("/:id/amenities/:amenity_id", authn, RemovePlaceAmenity(svc.Places, svc.Amenities))

	reviews := app.Group("/reviews")
	reviews.Get("/", ListReviews(svc.Reviews))
	reviews.Get("/:id", GetReview(svc.Reviews))
	reviews.Put("/:id", authn, UpdateReview(svc.Reviews))
	reviews.Delete("/:id", authn, DeleteReview(svc.Reviews))

	amenities := app.Group("/amenities")
	amenities.Get("/", ListAmenities(svc.Amenities))
	amenities.Post("/", authn, CreateAmenity(svc.Amenities))
	amenities.Get("/:id", GetAmenity(svc.Amenities))
	amenities.Put("/:id", authn, UpdateAmenity(svc.Amenities))
	amenities.Delete("/:id", authn, DeleteAmenity(svc.Amenities))
}

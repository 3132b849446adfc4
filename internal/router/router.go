package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"devcamper/internal/auth"
	"devcamper/internal/config"
	apperrors "devcamper/internal/errors"
	"devcamper/internal/handler"
	"devcamper/internal/logging"
	"devcamper/internal/model"
	"devcamper/internal/validation"
)

// Deps are the collaborators the route table needs.
type Deps struct {
	Logger      *zerolog.Logger
	Tokens      *auth.JWTService
	Revocations auth.RevocationStore
	Users       auth.UserFinder

	Auth      *handler.AuthHandler
	Bootcamps *handler.BootcampHandler
	Courses   *handler.CourseHandler
	UserAdmin *handler.UserHandler
	Seed      *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, deps Deps) {
	e.Validator = validation.New()
	e.HTTPErrorHandler = apperrors.NewHandler(deps.Logger)

	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(deps.Logger))
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	protect := auth.Protect(deps.Tokens, deps.Revocations, deps.Users)
	publisher := auth.Authorize(model.RolePublisher, model.RoleAdmin)
	admin := auth.Authorize(model.RoleAdmin)
	limited := authRateLimiter(cfg)

	api := e.Group("/api/v1")

	bootcamps := api.Group("/bootcamps")
	bootcamps.GET("", deps.Bootcamps.ListBootcamps)
	bootcamps.GET("/:id", deps.Bootcamps.GetBootcamp)
	bootcamps.POST("", deps.Bootcamps.CreateBootcamp, protect, publisher)
	bootcamps.PUT("/:id", deps.Bootcamps.UpdateBootcamp, protect, publisher)
	bootcamps.DELETE("/:id", deps.Bootcamps.DeleteBootcamp, protect, publisher)

	courses := api.Group("/courses")
	courses.GET("", deps.Courses.ListCourses)
	courses.GET("/:id", deps.Courses.GetCourse)
	courses.POST("", deps.Courses.CreateCourse, protect, publisher)
	courses.PUT("/:id", deps.Courses.UpdateCourse, protect, publisher)
	courses.DELETE("/:id", deps.Courses.DeleteCourse, protect, publisher)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", deps.Auth.Register, limited)
	authGroup.POST("/login", deps.Auth.Login, limited)
	authGroup.POST("/forgotpassword", deps.Auth.ForgotPassword, limited)
	authGroup.PUT("/resetpassword/:resettoken", deps.Auth.ResetPassword, limited)
	authGroup.GET("/logout", deps.Auth.Logout)
	authGroup.GET("/me", deps.Auth.Me, protect)
	authGroup.PUT("/updatedetails", deps.Auth.UpdateDetails, protect)
	authGroup.PUT("/updatepassword", deps.Auth.UpdatePassword, protect)

	users := api.Group("/users", protect, admin)
	users.GET("", deps.UserAdmin.ListUsers)
	users.POST("", deps.UserAdmin.CreateUser)
	users.GET("/:id", deps.UserAdmin.GetUser)
	users.PUT("/:id", deps.UserAdmin.UpdateUser)
	users.DELETE("/:id", deps.UserAdmin.DeleteUser)

	seed := api.Group("/seed", protect, admin)
	seed.POST("/bootcamps", deps.Seed.ImportBootcamps)
	seed.DELETE("/bootcamps", deps.Seed.DeleteBootcamps)
}

// authRateLimiter throttles the credential endpoints per client IP.
func authRateLimiter(cfg *config.Config) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:  rate.Limit(cfg.AuthRateLimit),
		Burst: cfg.AuthRateBurst,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, please try again later")
		},
	})
}

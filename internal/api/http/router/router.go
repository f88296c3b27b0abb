package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mkazak/authgate/internal/api/http/handler"
	"github.com/mkazak/authgate/internal/api/http/middleware"
	"github.com/mkazak/authgate/internal/logger"
	"github.com/mkazak/authgate/internal/model"
)

// Router wires services, the rights table and middleware into a fiber app.
type Router struct {
	signer      model.TokenSigner
	auth        handler.AuthService
	users       handler.UserService
	userStore   model.UserStore
	rights      model.RightsTable
	logger      *logger.Logger
}

// New creates a new Router instance.
func New(
	auth handler.AuthService,
	users handler.UserService,
	signer model.TokenSigner,
	userStore model.UserStore,
	rights model.RightsTable,
	logger *logger.Logger,
) *Router {
	return &Router{
		signer:      signer,
		auth:        auth,
		users:       users,
		userStore:   userStore,
		rights:      rights,
		logger:      logger,
	}
}

// Register builds the fiber app with logging, error translation and all
// routes.
func (r *Router) Register() *fiber.App {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.signer, r.userStore, r.rights, r.logger)

	app := fiber.New(fiber.Config{
		ErrorHandler:          handler.ErrorHandler,
		DisableStartupMessage: true,
	})
	app.Use(logging.Handle)

	r.registerAuthRoutes(app, authenticate)
	r.registerUserRoutes(app, authenticate)

	return app
}

func (r *Router) registerAuthRoutes(app *fiber.App, authenticate *middleware.Authenticate) {
	h := handler.NewAuth(r.auth, r.logger)

	g := app.Group("/v1/auth")
	g.Post("/register", h.Register)
	g.Post("/login", h.Login)
	g.Post("/logout", h.Logout)
	g.Post("/refresh-tokens", h.RefreshTokens)
	g.Post("/forgot-password", h.ForgotPassword)
	g.Post("/reset-password", h.ResetPassword)
	g.Post("/send-verification-email", authenticate.Require(), h.SendVerificationEmail)
	g.Post("/verify-email", h.VerifyEmail)
}

func (r *Router) registerUserRoutes(app *fiber.App, authenticate *middleware.Authenticate) {
	h := handler.NewUser(r.users, r.logger)

	g := app.Group("/v1/users")
	g.Post("/", authenticate.Require(model.RightManageUsers), h.Create)
	g.Get("/", authenticate.Require(model.RightGetUsers), h.List)
	g.Get("/:userId", authenticate.Require(model.RightGetUsers), h.Get)
	g.Patch("/:userId", authenticate.Require(model.RightManageUsers), h.Update)
	g.Delete("/:userId", authenticate.Require(model.RightManageUsers), h.Delete)
}

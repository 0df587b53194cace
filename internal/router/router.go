// Package router defines how HTTP routes are registered for the API.
// Route paths deliberately match the previous generation of the service so
// deployed page scripts keep working: no version prefix, resource nouns at
// the root.
package router

import (
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/mouradf/it-asset-tracker/internal/database"
	"github.com/mouradf/it-asset-tracker/internal/handler"
	"github.com/mouradf/it-asset-tracker/internal/middleware"
	"github.com/mouradf/it-asset-tracker/internal/session"
)

// Deps carries everything route registration needs.
type Deps struct {
	DB        *database.DB
	Assets    *handler.AssetHandler
	Auth      *handler.AuthHandler
	Sessions  session.Store
	Secret    string
	StaticDir string
}

// Register wires all routes and middleware onto the Echo instance.
func Register(e *echo.Echo, d Deps) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	// Every request resolves its session once; guards only check the result.
	e.Use(middleware.Resolve(d.Sessions, d.Secret))

	// Liveness probe for load balancers and monitoring.
	e.GET("/api/health", handler.Health(d.DB))

	// Identity lifecycle. Session status answers for anonymous callers too,
	// so only /auth/profile sits behind the guard.
	auth := e.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/session", d.Auth.Session)
	auth.GET("/profile", d.Auth.Profile, middleware.RequireSession())

	// Protected resource APIs. Anonymous calls receive a structured 401,
	// never a redirect.
	api := e.Group("", middleware.RequireSession())

	api.GET("/tasks", d.Assets.ListTasks)
	api.POST("/tasks", d.Assets.CreateTask)
	api.DELETE("/tasks/:id", d.Assets.DeleteTask)

	api.GET("/materials", d.Assets.ListMaterials)
	api.POST("/materials", d.Assets.CreateMaterial)
	api.PUT("/materials/:id", d.Assets.UpdateMaterial)
	api.DELETE("/materials/:id", d.Assets.DeleteMaterial)

	api.GET("/inventory", d.Assets.ListInventory)
	api.GET("/inventory/summary", d.Assets.InventorySummary)
	api.POST("/inventory", d.Assets.CreateInventory)
	api.PUT("/inventory/:id", d.Assets.UpdateInventory)
	api.DELETE("/inventory/:id", d.Assets.DeleteInventory)

	api.GET("/pcs", d.Assets.ListPCs)
	api.POST("/pcs", d.Assets.CreatePC)
	api.PUT("/pcs/:id", d.Assets.UpdatePC)
	api.DELETE("/pcs/:id", d.Assets.DeletePC)

	registerPages(e, d)
}

// registerPages serves the static front end when a public directory exists.
// The login and register pages stay public; every other page redirects
// anonymous visitors to /login.html.
func registerPages(e *echo.Echo, d Deps) {
	if d.StaticDir == "" {
		return
	}
	if _, err := os.Stat(d.StaticDir); err != nil {
		return
	}
	e.File("/login.html", filepath.Join(d.StaticDir, "login.html"))
	e.File("/register.html", filepath.Join(d.StaticDir, "register.html"))
	pages := e.Group("", middleware.RequirePage("/login.html"))
	pages.Static("/", d.StaticDir)
}

package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"eventsphere/cmd/middleware"
	"eventsphere/internal/dto"
	"eventsphere/internal/gate"
	"eventsphere/internal/service"
)

type Routers struct {
	Service service.Service
	Auth    gate.Authenticator
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())
	app.Use(gate.Middleware(r.Auth))

	app.GET("/health", func(c *ginext.Context) {
		dto.SuccessMessageResponse(c, "ok")
	})

	app.GET("/events", r.Service.GetAllEvents)
	app.GET("/events/:id", r.Service.GetEvent)

	admin := app.Group("/admin")
	admin.POST("/events", r.Service.CreateEvent)
	admin.PUT("/events/:id", r.Service.UpdateEvent)
	admin.DELETE("/events/:id", r.Service.DeleteEvent)
	admin.GET("/registrations", r.Service.ListRegistrations)

	app.POST("/register", r.Service.Register)
	app.DELETE("/register/:id", r.Service.CancelRegistration)

	user := app.Group("/user")
	user.GET("/profile", r.Service.GetProfile)
	user.PUT("/profile", r.Service.UpdateProfile)

	authGroup := app.Group("/auth")
	authGroup.POST("/signup", r.Service.Signup)
	authGroup.POST("/login", r.Service.Login)
	authGroup.POST("/logout", r.Service.Logout)
	authGroup.GET("/me", r.Service.Me)

	app.POST("/upload", r.Service.Upload)
	app.GET("/images/:key", r.Service.GetImage)

	app.GET("/", func(c *ginext.Context) {
		c.File("./web/index.html")
	})
	for _, page := range []string{"/login", "/signup", "/dashboard", "/bookings", "/student", "/explore"} {
		p := page
		app.GET(p, func(c *ginext.Context) {
			c.File("./web" + p + ".html")
		})
	}
	app.Static("/static", "./web/static")

	return app
}

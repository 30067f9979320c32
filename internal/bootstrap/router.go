package bootstrap

import (
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clientdesk/clientdesk-backend/config"
	"github.com/clientdesk/clientdesk-backend/internal/account"
	httpapi "github.com/clientdesk/clientdesk-backend/internal/api/http"
	"github.com/clientdesk/clientdesk-backend/internal/api/http/middleware"
	"github.com/clientdesk/clientdesk-backend/internal/auth"
	"github.com/clientdesk/clientdesk-backend/internal/clients"
	"github.com/clientdesk/clientdesk-backend/internal/dashboard"
	"github.com/clientdesk/clientdesk-backend/internal/profile"
	"github.com/clientdesk/clientdesk-backend/internal/projects"
	"github.com/clientdesk/clientdesk-backend/internal/syncstore"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	DB          *pgxpool.Pool
	Redis       *redis.Client
	Auth        *fbauth.Client
	Store       *syncstore.Store
	Avatars     profile.AvatarStore
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = dep.Config.Server.CORSOrigins
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Config.App.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	profileRepo := profile.NewRepo(dep.DB)
	clientRepo := clients.NewRepo(dep.DB)
	projectRepo := projects.NewRepo(dep.DB)

	clientSync := clients.NewSync(dep.Store, clientRepo)
	projectSync := projects.NewSync(dep.Store, projectRepo)
	profileSync := profile.NewSync(dep.Store, profileRepo)

	statsCache := dashboard.NewCache(dep.Redis, dep.Config.Redis.StatsTTL)
	statsSvc := dashboard.NewService(dashboard.NewRepo(dep.DB), statsCache)

	accountSvc := account.NewService(dep.Auth, account.NewRepo(dep.DB), dep.Store)

	oc := auth.NewOAuthConfig(dep.Config.OAuth)
	r.GET("/api/auth/callback", auth.CallbackHandler(oc, dep.Config.OAuth.FrontendURL))

	authed := auth.Middleware(dep.Auth, profileRepo)
	limiter := middleware.NewRateLimiter(10, 20)

	api := r.Group("/api/v1")
	api.Use(authed)
	api.Use(limiter.Handler())

	clients.Register(api.Group("/clients"), clientSync)
	projects.Register(api.Group("/projects"), projectSync)
	profile.Register(api.Group("/profile"), profileSync, dep.Avatars)
	dashboard.Register(api.Group("/dashboard"), statsSvc)

	authGroup := r.Group("/api/auth")
	authGroup.POST("/signout", authed, auth.SignOutHandler(dep.Store))

	accountGroup := r.Group("/api/account")
	accountGroup.Use(authed)
	account.Register(accountGroup, accountSvc)

	return r
}

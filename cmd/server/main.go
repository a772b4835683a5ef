package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	analyticsapp "github.com/workforce/backend/internal/application/analytics"
	hierarchyapp "github.com/workforce/backend/internal/application/hierarchy"
	identityapp "github.com/workforce/backend/internal/application/identity"
	"github.com/workforce/backend/internal/domain/identity"
	"github.com/workforce/backend/internal/infrastructure/auth"
	"github.com/workforce/backend/internal/infrastructure/config"
	"github.com/workforce/backend/internal/infrastructure/logger"
	"github.com/workforce/backend/internal/infrastructure/persistence"
	"github.com/workforce/backend/internal/interfaces/http/handler"
	"github.com/workforce/backend/internal/interfaces/http/middleware"
	"github.com/workforce/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags
var version = "dev"

const bootstrapAdminEmail = "admin@workforce.local"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync(log) }()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	snapshotRepo := persistence.NewGormSnapshotRepository(db.DB)

	// Infrastructure services
	jwtService := auth.NewJWTService(cfg.JWT)
	hasher := auth.NewPasswordHasher()

	// Application services
	roleService := identityapp.NewRoleService(roleRepo, userRepo, log)
	hierarchyService := hierarchyapp.NewHierarchyService(snapshotRepo,
		cfg.Scope.ExcludedFunctions, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, hasher,
		hierarchyService, cfg.Scope.BulkUserDefaultPassword, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, hasher, log)
	accessService := identityapp.NewAccessService(userRepo, roleRepo, hierarchyService, log)
	analyticsService := analyticsapp.NewAnalyticsService(log)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSeed()
	if err := roleService.SeedBuiltinRoles(seedCtx); err != nil {
		log.Fatal("Failed to seed built-in roles", zap.Error(err))
	}
	if err := bootstrapAdmin(seedCtx, userRepo, userService, cfg, log); err != nil {
		log.Fatal("Failed to bootstrap admin account", zap.Error(err))
	}

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	// Handlers
	authHandler := handler.NewAuthHandler(authService, accessService)
	roleHandler := handler.NewRoleHandler(roleService)
	userHandler := handler.NewUserHandler(userService)
	hierarchyHandler := handler.NewHierarchyHandler(hierarchyService, accessService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, accessService)
	systemHandler := handler.NewSystemHandler(version)

	requireAuth := middleware.JWTAuth(jwtService)
	requireAdmin := middleware.RequireAdmin()

	// Public routes
	publicRoutes := router.NewDomainGroup("/auth")
	publicRoutes.POST("/login", authHandler.Login)

	systemRoutes := router.NewDomainGroup("/system")
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	// Authenticated self-service routes
	accountRoutes := router.NewDomainGroup("/account").Use(requireAuth)
	accountRoutes.GET("/me", authHandler.GetCurrentUser)
	accountRoutes.PUT("/password", authHandler.ChangePassword)

	// Administration (accounts, roles)
	identityRoutes := router.NewDomainGroup("/identity").Use(requireAuth, requireAdmin)
	identityRoutes.POST("/users", userHandler.Create)
	identityRoutes.GET("/users", userHandler.List)
	identityRoutes.GET("/users/:id", userHandler.GetByID)
	identityRoutes.PUT("/users/:id", userHandler.Update)
	identityRoutes.DELETE("/users/:id", userHandler.Delete)
	identityRoutes.POST("/users/bulk", userHandler.BulkUpload)
	identityRoutes.POST("/roles", roleHandler.Create)
	identityRoutes.GET("/roles", roleHandler.List)
	identityRoutes.GET("/roles/:id", roleHandler.GetByID)
	identityRoutes.PUT("/roles/:id", roleHandler.Update)
	identityRoutes.DELETE("/roles/:id", roleHandler.Delete)
	identityRoutes.GET("/modules", roleHandler.Modules)

	// Employee hierarchy
	hierarchyRoutes := router.NewDomainGroup("/hierarchy").Use(requireAuth)
	hierarchyRoutes.POST("/employees/upload", requireAdmin, hierarchyHandler.UploadEmployeeList)
	hierarchyRoutes.GET("/snapshots", requireAdmin, hierarchyHandler.ListSnapshots)
	hierarchyRoutes.DELETE("/snapshots/:id", requireAdmin, hierarchyHandler.DeleteSnapshot)
	// Scope pickers are open to every signed-in user; the handler
	// narrows the feed to the caller's effective scope.
	hierarchyRoutes.GET("/scope-options", hierarchyHandler.ScopeOptions)
	hierarchyRoutes.GET("/employees",
		middleware.RequireAccess(accessService, identity.ModuleTeams, identity.FeatureEmployeeList),
		hierarchyHandler.ListEmployees)
	hierarchyRoutes.GET("/employees/:email",
		middleware.RequireAccess(accessService, identity.ModuleTeams, identity.FeatureEmployeeList),
		hierarchyHandler.GetEmployee)

	// Dashboard data
	analyticsRoutes := router.NewDomainGroup("/analytics").Use(requireAuth)
	analyticsRoutes.POST("/attendance/upload",
		middleware.RequireAccess(accessService, identity.ModuleAttendance, identity.FeatureUpload),
		analyticsHandler.UploadAttendance)
	analyticsRoutes.GET("/attendance/batches",
		middleware.RequireAccess(accessService, identity.ModuleAttendance, identity.FeatureBatches),
		analyticsHandler.AttendanceBatches)
	analyticsRoutes.GET("/attendance/overview",
		middleware.RequireAccess(accessService, identity.ModuleAttendance,
			identity.FeatureDashboard, identity.FeatureOnTime, identity.FeatureWorkHour,
			identity.FeatureWorkHourLost, identity.FeatureLeaveAnalysis),
		analyticsHandler.AttendanceOverview)
	analyticsRoutes.GET("/attendance/export",
		middleware.RequireAccess(accessService, identity.ModuleAttendance, identity.FeatureExport),
		analyticsHandler.ExportAttendance)
	analyticsRoutes.POST("/activity/upload",
		middleware.RequireAccess(accessService, identity.ModuleTeams, identity.FeatureUploadActivity),
		analyticsHandler.UploadActivity)
	analyticsRoutes.GET("/activity/batches",
		middleware.RequireAccess(accessService, identity.ModuleTeams, identity.FeatureActivityBatches),
		analyticsHandler.ActivityBatches)
	analyticsRoutes.GET("/activity/overview",
		middleware.RequireAccess(accessService, identity.ModuleTeams,
			identity.FeatureUserActivity, identity.FeatureAppActivity),
		analyticsHandler.ActivityOverview)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(publicRoutes).
		Register(systemRoutes).
		Register(accountRoutes).
		Register(identityRoutes).
		Register(hierarchyRoutes).
		Register(analyticsRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// bootstrapAdmin creates an initial admin account on an empty
// installation so the dashboard is reachable after first start. The
// password is the configured default and must be changed on first
// login.
func bootstrapAdmin(
	ctx context.Context,
	userRepo identity.UserRepository,
	userService *identityapp.UserService,
	cfg *config.Config,
	log *zap.Logger,
) error {
	count, err := userRepo.CountByRoleName(ctx, identity.RoleNameAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = userService.CreateUser(ctx, identityapp.CreateUserInput{
		Email:       bootstrapAdminEmail,
		DisplayName: "Administrator",
		Password:    cfg.Scope.BulkUserDefaultPassword,
		RoleName:    identity.RoleNameAdmin,
	})
	if err != nil {
		return err
	}

	log.Warn("Bootstrapped admin account with the default password",
		zap.String("email", bootstrapAdminEmail))
	return nil
}

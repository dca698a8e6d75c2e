package main

import (
	"context"
	"errors"
	"io"
	"log"
	"mepass/src/boot"
	"mepass/src/bookings"
	"mepass/src/config"
	"mepass/src/db"
	"mepass/src/inventory"
	"mepass/src/lib"
	"mepass/src/middlewares"
	"mepass/src/types"
	"mepass/src/utils"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const apiPrefix string = "/api/v1"

// api carries the process-wide handles. Everything is constructed in
// main and passed down, nothing reaches for a global.
type api struct {
	db       *gorm.DB
	rdb      *redis.Client
	inv      *inventory.Inventory
	bookings *bookings.Service
}

var eventDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	return !time.Now().After(datetime)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", eventDateValidatorFunc)
	}
}

func newAPI(gdb *gorm.DB, rdb *redis.Client) *api {
	inv := inventory.New(gdb, rdb)
	return &api{
		db:       gdb,
		rdb:      rdb,
		inv:      inv,
		bookings: bookings.NewService(gdb, inv),
	}
}

func (a *api) setupRouter(middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.Default()
	router.Use(middleware...)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	router.GET("/healthz", func(ctx *gin.Context) {
		sqlDB, err := a.db.DB()
		if err != nil || sqlDB.Ping() != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST(path.Join(apiPrefix, "seed"), func(ctx *gin.Context) {
		if err := utils.SeedLaunchData(a.db); err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"message": "Database seeded successfully"})
	})

	public := router.Group(apiPrefix)
	a.authHandlers(public)
	a.eventPublicHandlers(public)
	a.cityPublicHandlers(public)

	authed := router.Group(apiPrefix)
	authed.Use(middlewares.Auth(a.db))
	a.profileHandlers(authed)
	a.bookingHandlers(authed)

	organizer := router.Group(apiPrefix)
	organizer.Use(middlewares.Auth(a.db), middlewares.RequireRole(types.ROLE_ORGANIZER, types.ROLE_ADMIN))
	a.eventOrganizerHandlers(organizer)

	admin := router.Group(apiPrefix)
	admin.Use(middlewares.Auth(a.db), middlewares.RequireRole(types.ROLE_ADMIN))
	a.eventAdminHandlers(admin)
	a.cityAdminHandlers(admin)

	return router
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()
	registerValidators()

	gdb, err := db.Connect(config.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %s", err.Error())
	}
	if err := boot.InitDb(gdb); err != nil {
		log.Fatalf("Failed to run migrations: %s", err.Error())
	}
	rdb := lib.NewRedisClient(os.Getenv("REDIS_HOST"))

	a := newAPI(gdb, rdb)

	sched, err := boot.InitScheduler(a.bookings)
	if err != nil {
		log.Printf("Running without background scheduler: %s\n", err.Error())
	}

	var corsMiddleware gin.HandlerFunc
	if apiEnv == "local" {
		corsMiddleware = cors.Default()
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowAllOrigins = true
		corsMiddleware = cors.New(cc)
	}
	router := a.setupRouter(corsMiddleware)

	srv := &http.Server{
		Addr:    ":9090",
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %s", err)
		}
	}()
	log.Println("Server listening on :9090")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %s\n", err.Error())
	}
	boot.StopScheduler(sched)
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Printf("Error closing cache connection: %s\n", err.Error())
		}
	}
	db.Close(gdb)
}

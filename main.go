package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lokhacodes/UComp/bkash"
	"github.com/lokhacodes/UComp/config"
	"github.com/lokhacodes/UComp/controller"
	"github.com/lokhacodes/UComp/repository"
	"github.com/lokhacodes/UComp/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

func main() {
	cfg := config.Load()

	if cfg.GinMode != gin.ReleaseMode {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	gin.SetMode(cfg.GinMode)

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatal().Err(err).Msg("failed to ping mongo")
	}

	db := mongoClient.Database(cfg.MongoName)

	userRepository := repository.NewUserRepository(db)
	if err := userRepository.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	eventRepository := repository.NewEventRepository(db)
	registrationRepository := repository.NewRegistrationRepository(db)
	categoryRepository := repository.NewCategoryRepository(db)

	userService := service.NewUserService(userRepository, cfg.AdminEmailDomain)
	categoryService := service.NewCategoryService(categoryRepository)
	eventService := service.NewEventService(eventRepository, categoryRepository)
	registrationService := service.NewRegistrationService(registrationRepository, eventRepository)

	bkashClient := bkash.NewClient(bkash.Config{
		BaseURL:   cfg.BkashBaseURL,
		Username:  cfg.BkashUsername,
		Password:  cfg.BkashPassword,
		AppKey:    cfg.BkashAppKey,
		AppSecret: cfg.BkashAppSecret,
	})
	paymentService := service.NewPaymentService(bkashClient, cfg.PaymentAmount)

	userController := &controller.UserController{
		UserService: userService,
	}
	eventController := &controller.EventController{
		EventService:    eventService,
		CategoryService: categoryService,
	}
	registrationController := &controller.RegistrationController{
		RegistrationService: registrationService,
	}
	paymentController := &controller.PaymentController{
		PaymentService: paymentService,
	}

	r := gin.Default()

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/user", userController.GetByClerkID)
		api.POST("/role-selection", userController.SelectRole)

		api.POST("/make-payment", paymentController.MakePayment)
		api.GET("/callback", paymentController.Callback)

		api.GET("/events", eventController.List)
		api.GET("/events/:id", eventController.Get)
		api.GET("/events/:id/related", eventController.Related)
		api.GET("/categories", eventController.ListCategories)

		authed := api.Group("", controller.Identify(userService))
		{
			authed.POST("/registrations", registrationController.Create)
			authed.GET("/registrations/my", registrationController.My)

			admin := authed.Group("", controller.RequireAdmin())
			{
				admin.POST("/events", eventController.Create)
				admin.PUT("/events/:id", eventController.Update)
				admin.DELETE("/events/:id", eventController.Delete)
				admin.GET("/events/:id/registrations", registrationController.ListByEvent)
				admin.GET("/registrations", registrationController.ListAll)
				admin.POST("/categories", eventController.CreateCategory)
			}
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

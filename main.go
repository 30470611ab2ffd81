package main

import (
	"log"

	"github.com/Meleegod01/IdeaTicks-MVP/config"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/consumer"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/handler"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/middleware"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/repository"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/service"
	"github.com/Meleegod01/IdeaTicks-MVP/pkg/clock"
	"github.com/Meleegod01/IdeaTicks-MVP/pkg/database"
	"github.com/Meleegod01/IdeaTicks-MVP/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	// Repositories
	eventRepo := repository.NewEventRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	listingRepo := repository.NewListingRepository(db)

	// Services
	clk := clock.NewSystem()
	registrySvc := service.NewRegistryService(eventRepo, publisher)
	issuanceSvc := service.NewIssuanceService(eventRepo, ticketRepo, publisher)
	ownershipSvc := service.NewOwnershipService(eventRepo, ticketRepo, listingRepo)
	resaleSvc := service.NewResaleService(eventRepo, ticketRepo, listingRepo, ownershipSvc, publisher)

	// RabbitMQ consumer: redemptions from the check-in collaborator
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}
	consumer.NewCheckinConsumer(ticketRepo, ownershipSvc).Start(msgs)

	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "ticket-ledger"})
	})

	api := e.Group("/api/v1")
	handler.NewEventHandler(registrySvc).RegisterRoutes(api)
	handler.NewTicketHandler(issuanceSvc, ownershipSvc, clk).RegisterRoutes(api)
	handler.NewMarketHandler(resaleSvc, clk).RegisterRoutes(api)

	log.Printf("Ticket Ledger starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}

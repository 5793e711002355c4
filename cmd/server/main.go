package main // Entry point package

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/neotai/Order-page/internal/config"
	"github.com/neotai/Order-page/internal/database"
	"github.com/neotai/Order-page/internal/handler"
	"github.com/neotai/Order-page/internal/queue"
	"github.com/neotai/Order-page/internal/repository"
	"github.com/neotai/Order-page/internal/router"
	"github.com/neotai/Order-page/internal/service"
)

func main() {
	cfg := config.Load() // environment (plus optional .env)

	// Menu catalog: MySQL when configured, otherwise the in-memory catalog,
	// optionally seeded from a JSON file.
	var catalog service.Catalog
	if cfg.UseMenuDB() {
		db, err := database.Open(cfg.MenuDBUser, cfg.MenuDBPass, cfg.MenuDBHost, cfg.MenuDBPort, cfg.MenuDBName)
		if err != nil {
			log.Fatalf("menu catalog db: %v", err)
		}
		defer db.Close()
		catalog = repository.NewCatalogRepo(db)
	} else {
		mem := repository.NewMemoryCatalog()
		if cfg.MenuSeedFile != "" {
			if err := mem.LoadFromFile(cfg.MenuSeedFile); err != nil {
				log.Fatalf("menu seed: %v", err)
			}
		}
		catalog = mem
	}

	// Event pipeline: AMQP publisher + log consumer when a broker is
	// configured, otherwise a no-op broadcaster.
	var broadcaster service.Broadcaster = service.NopBroadcaster{}
	if cfg.AMQPURL != "" {
		pub := queue.NewPublisher(cfg.AMQPURL)
		defer pub.Close()
		broadcaster = pub
		go func() {
			if err := queue.StartEventConsumer(cfg.AMQPURL); err != nil {
				log.Printf("order-consumer: %v", err)
			}
		}()
	}

	// The two authoritative stores, constructed once and injected by
	// reference; nothing else ever owns the backing maps.
	orders := repository.NewOrderRepo()
	mods := repository.NewModificationRepo()

	history := service.NewHistoryService(orders, mods, broadcaster, nil)
	orderSvc := service.NewOrderService(orders, catalog, broadcaster, nil)
	participants := service.NewParticipantService(orders, service.LocalIdentityResolver{}, history, nil)
	items := service.NewItemService(orders, catalog, history, nil)
	stats := service.NewStatsService(orders)

	sweeper := service.NewExpirationScheduler(orders, orderSvc, cfg.SweepInterval, nil)
	sweeper.Start()
	defer sweeper.Stop()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; middlewares degrade

	e := echo.New()
	h := handler.NewOrderHandler(orderSvc, participants, items, history, stats, sweeper)
	router.RegisterRoutes(e, h, cfg.JWTSecret, rdb)

	// Shut down cleanly on SIGINT/SIGTERM so the sweeper finishes its
	// current pass.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		sweeper.Stop()
		_ = e.Close()
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Print(err)
	}
}

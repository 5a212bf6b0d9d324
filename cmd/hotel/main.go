package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/you/hotel-manager/internal/consumer"
	"github.com/you/hotel-manager/internal/events"
	"github.com/you/hotel-manager/internal/repository"
	"github.com/you/hotel-manager/internal/service"
	thttp "github.com/you/hotel-manager/internal/transport/http"
	"github.com/you/hotel-manager/pkg/clock"
	"github.com/you/hotel-manager/pkg/config"
	"github.com/you/hotel-manager/pkg/db"
	"github.com/you/hotel-manager/pkg/mq"
	"github.com/you/hotel-manager/pkg/obs"
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	_ = godotenv.Load()

	cfg := must(config.Load())

	if cfg.OTELEnabled {
		shutdown := obs.InitTracer(cfg.OTELServiceName)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	// DB
	gdb := db.Open(cfg.PGHotelDSN)
	must(0, repository.Migrate(gdb))

	rooms := repository.NewRoomRepo(gdb)
	roomTypes := repository.NewRoomTypeRepo(gdb)
	guests := repository.NewGuestRepo(gdb)
	services := repository.NewServiceRepo(gdb)
	consumptions := repository.NewConsumptionRepo(gdb)
	payments := repository.NewPaymentRepo(gdb)
	reservations := repository.NewReservationRepo(gdb)

	// Publisher for hotel.* events
	pub := must(mq.NewPublisher(cfg.RabbitURL, cfg.HotelExchange))
	defer pub.Close()

	clk := clock.Real{}
	avail := service.NewAvailability(rooms, reservations)
	resSvc := service.NewReservationSvc(reservations, rooms, roomTypes, guests, avail, clk, pub)
	staySvc := service.NewCheckInOutSvc(reservations, rooms, payments, consumptions, avail, clk, pub)
	invSvc := service.NewInventorySvc(rooms, roomTypes, guests, services, reservations, payments, consumptions, clk)
	repSvc := service.NewReportSvc(rooms, roomTypes, guests, reservations, consumptions, clk)

	// Consumer for payment.completed
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	payCons := must(mq.NewConsumer(cfg.RabbitURL, cfg.PaymentExchange, cfg.PaymentQueue,
		[]string{events.PaymentCompleted, events.PaymentFailed}))
	defer payCons.Close()
	pc := consumer.NewPaymentConsumer(reservations, payCons)
	must(0, pc.Run(ctx))
	log.Println("[hotel] consumer started (payment.completed)")

	// HTTP
	handlers := thttp.NewHandlers(resSvc, staySvc, invSvc, repSvc)
	router := thttp.NewRouter(handlers)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}
	go func() {
		log.Println("[hotel] HTTP listening on", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	cancel()
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	log.Println("[hotel] stopped")
}

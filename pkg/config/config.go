package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// DB
	PGHotelDSN string `envconfig:"PG_HOTEL_DSN" required:"true"`
	// Network
	HTTPAddr string `envconfig:"HOTEL_HTTP_ADDR" default:":8080"`
	// RabbitMQ
	RabbitURL       string `envconfig:"RABBIT_URL" required:"true"`
	HotelExchange   string `envconfig:"HOTEL_EXCHANGE" default:"hotel.exchange"`
	PaymentExchange string `envconfig:"PAYMENT_EXCHANGE" default:"payment.exchange"`
	PaymentQueue    string `envconfig:"HOTEL_PAYMENT_QUEUE" default:"hotel.payment.q"`
	NotifyQueue     string `envconfig:"NOTIFY_QUEUE" default:"hotel.notify.q"`
	// Observability
	OTELEnabled     bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELServiceName string `envconfig:"OTEL_SERVICE_NAME" default:"hotel-manager"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}

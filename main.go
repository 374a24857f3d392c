package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"f1telemetrydash/pkg/aggregator"
	"f1telemetrydash/pkg/config"
	"f1telemetrydash/pkg/dashboard"
	"f1telemetrydash/pkg/listener"
	"f1telemetrydash/pkg/model"
	"f1telemetrydash/pkg/notification"
	"f1telemetrydash/pkg/packet"
	"f1telemetrydash/pkg/pubsub"
	"f1telemetrydash/pkg/webserver"
	"github.com/nikoksr/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %s\n", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tags := aggregator.DefaultTags()
	tags.Damage = cfg.DamagePacketID

	decoder, err := packet.NewDecoder(tags.Layouts())
	if err != nil {
		log.Fatalf("Error building packet decoder: %s\n", err.Error())
	}

	ps := pubsub.NewPubSub[string]()
	state := model.NewState()
	agg := aggregator.New(tags, state, dashboard.NewPublisher(ps), notifier(cfg))

	l, err := listener.Listen(ctx, cfg.TelemetryAddress, decoder)
	if err != nil {
		log.Fatalf("Error binding telemetry socket: %s\n", err.Error())
	}
	defer l.Close()

	ingestDone := make(chan struct{})
	go func() {
		defer close(ingestDone)
		if err := agg.Run(ctx, l); err != nil {
			log.Printf("Telemetry loop stopped: %s\n", err.Error())
		}
	}()

	d := dashboard.New(ps)
	wm := webserver.NewManager(cfg.WebserverAddress)
	d.AddHandlers(wm.Router())
	wm.RegisterOnShutdown(d.Close)
	if cfg.Debug {
		wm.Debug()
	}

	log.Println("Start listening for telemetry. Press Ctrl-C to stop it")
	if err := wm.Serve(ctx); err != nil {
		log.Fatalf("Error running webserver: %s\n", err.Error())
	}

	<-ingestDone
	fmt.Println(state.Table())
}

func notifier(cfg config.Config) *notification.Manager {
	services := []notify.Notifier{notification.NewConsole(nil)}
	if cfg.TelegramEnabled() {
		tg, err := notification.NewTelegram(cfg.TelegramToken, cfg.TelegramChatIDs...)
		if err != nil {
			log.Printf("Telegram notifications disabled: %s\n", err.Error())
		} else {
			services = append(services, tg)
		}
	}
	return notification.NewManager(services...)
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/FreightLink/FreightLink/internal/api/routes"
	"github.com/FreightLink/FreightLink/internal/bid"
	"github.com/FreightLink/FreightLink/internal/booking"
	"github.com/FreightLink/FreightLink/internal/common/config"
	"github.com/FreightLink/FreightLink/internal/common/db"
	"github.com/FreightLink/FreightLink/internal/common/logger"
	"github.com/FreightLink/FreightLink/internal/common/server"
	"github.com/FreightLink/FreightLink/internal/common/tracing"
	"github.com/FreightLink/FreightLink/internal/load"
	"github.com/FreightLink/FreightLink/internal/storage/memory"
	"github.com/FreightLink/FreightLink/internal/transporter"
)

func main() {
	configPath := flag.String("config", "configs/marketplace-service.json", "path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Backend, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	_, closer, err := tracing.InitTracer(cfg.Server.Name, cfg.Jaeger.Endpoint, cfg.Jaeger.Sampler)
	if err != nil {
		log.Warnf("tracer init failed, continuing without tracing: %v", err)
	} else {
		defer closer.Close()
	}

	stores, err := buildStores(cfg, log)
	if err != nil {
		log.Errorf("storage init: %v", err)
		os.Exit(1)
	}

	transporterSvc := transporter.NewService(stores.transporters, log)
	ledger := transporter.NewLedger(stores.transporters, log)
	loadSvc := load.NewService(stores.loads, stores.bookings, stores.bids, log)
	bidSvc := bid.NewService(stores.bids, loadSvc, transporterSvc, ledger, log)
	bookingSvc := booking.NewService(stores.bookings, bidSvc, loadSvc, ledger, log)

	router := routes.SetupRouter(cfg, log, loadSvc, bidSvc, bookingSvc, transporterSvc)
	if err := server.RunHTTPServer(cfg, log, router); err != nil {
		log.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}

type stores struct {
	loads        load.Store
	bids         bid.Store
	bookings     booking.Store
	transporters transporter.Store
}

func buildStores(cfg *config.Config, log logger.Logger) (*stores, error) {
	switch cfg.Database.Driver {
	case "mysql":
		gdb, err := db.NewMySQL(
			cfg.Database.Host, cfg.Database.Port,
			cfg.Database.User, cfg.Database.Password, cfg.Database.Database,
			cfg.Database.MaxIdle, cfg.Database.MaxOpen,
		)
		if err != nil {
			return nil, err
		}
		if err := gdb.AutoMigrate(
			&transporter.Transporter{},
			&transporter.CapacityPool{},
			&load.Load{},
			&bid.Bid{},
			&booking.Booking{},
		); err != nil {
			return nil, err
		}
		log.Infof("connected to mysql at %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
		return &stores{
			loads:        load.NewRepo(gdb),
			bids:         bid.NewRepo(gdb),
			bookings:     booking.NewRepo(gdb),
			transporters: transporter.NewRepo(gdb),
		}, nil
	case "", "memory":
		log.Infof("using in-memory storage")
		return &stores{
			loads:        memory.NewLoadStore(),
			bids:         memory.NewBidStore(),
			bookings:     memory.NewBookingStore(),
			transporters: memory.NewTransporterStore(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/arkwaretechnologies/laundropos-print/internal/api"
	"github.com/arkwaretechnologies/laundropos-print/internal/binding"
	"github.com/arkwaretechnologies/laundropos-print/internal/driver/embedded"
	"github.com/arkwaretechnologies/laundropos-print/internal/driver/vendor"
	"github.com/arkwaretechnologies/laundropos-print/internal/printsvc"
	"github.com/arkwaretechnologies/laundropos-print/internal/receipt"
)

// Version is set during build via ldflags
var Version = "dev"

func main() {
	log, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	reg := binding.NewRegistry()

	// Demo mode registers an in-memory print service so the whole stack
	// runs on hardware without a printer.
	if os.Getenv("PRINT_DEMO") == "1" {
		sim := embedded.NewSimulator(log, receipt.StoreInfo{
			Name:    envOr("STORE_NAME", "LaundroPOS"),
			Address: os.Getenv("STORE_ADDRESS"),
			Phone:   os.Getenv("STORE_PHONE"),
		})
		if err := reg.Register(sim.Binding()); err != nil {
			log.Fatal("failed to register simulator", zap.Error(err))
		}
		log.Info("demo mode: simulated print service registered")
	}

	svc := printsvc.New(printsvc.Config{
		Registry: reg,
		Logger:   log,
		Identity: vendor.DeviceIdentity{
			Model:        os.Getenv("DEVICE_MODEL"),
			Brand:        os.Getenv("DEVICE_BRAND"),
			Manufacturer: os.Getenv("DEVICE_MANUFACTURER"),
		},
		NetworkAddr: os.Getenv("PRINTER_ADDR"),
	})

	if res := svc.Initialize(context.Background()); res.OK() {
		log.Info("printing backend ready", zap.String("backend", string(res.Backend)))
	} else {
		// Not fatal; a later print or rescan retries selection.
		log.Warn("no printing backend yet", zap.String("message", res.Message))
	}

	server := api.NewServer(svc, log)

	addr := fmt.Sprintf("0.0.0.0:%s", getPort())
	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting API server", zap.String("addr", addr), zap.String("version", Version))
		serverErr <- server.Run(addr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatal("server error", zap.Error(err))
	case sig := <-sigChan:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("LOG_MODE") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func getPort() string {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		return port
	}

	for i, arg := range os.Args {
		if arg == "--port" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
	}

	return "12212"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

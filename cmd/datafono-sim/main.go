package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poslink/internal/config"
	"poslink/internal/infrastructure/logger"
	"poslink/internal/simulator"
)

func main() {
	cfg := config.Load()

	addr := flag.String("addr", cfg.SimAddr, "адрес HTTP-сервера")
	terminalID := flag.String("terminal", "SIM-0001", "ID терминала в ответах")
	flag.Parse()

	log, err := logger.New("datafono-sim", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           simulator.NewTerminal(*terminalID, log).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("[SIM] терминал %s слушает %s", *terminalID, *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("[SIM] %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"war-lite/apps/server/internal/auth"
	"war-lite/apps/server/internal/cards"
	"war-lite/apps/server/internal/config"
	"war-lite/apps/server/internal/gateway"
	"war-lite/apps/server/internal/ledger"
	"war-lite/apps/server/internal/pages"
	"war-lite/war"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Server] Invalid configuration: %v", err)
	}

	authService, err := auth.NewServiceFromConfig(cfg)
	if err != nil {
		log.Fatalf("[Server] Failed to init auth manager: %v", err)
	}
	defer authService.Close()

	cardStore, err := cards.NewStoreFromConfig(cfg)
	if err != nil {
		log.Fatalf("[Server] Failed to init card store: %v", err)
	}
	defer cardStore.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := cards.EnsureDeck(ctx, cardStore); err != nil {
		cancel()
		log.Fatalf("[Server] Failed to create deck: %v", err)
	}
	cancel()

	ledgerService, err := ledger.NewServiceFromConfig(cfg)
	if err != nil {
		log.Fatalf("[Server] Failed to init ledger service: %v", err)
	}
	defer ledgerService.Close()

	gw := gateway.New(authService, ledgerService, war.Config{
		MaxRounds:   cfg.WarMaxRounds,
		WarFaceDown: cfg.WarFaceDown,
	})
	pagesHTTP := pages.NewHandler(cardStore, authService, cfg.AuthSessionTTL)
	authHTTP := auth.NewHTTPHandler(authService)
	ledgerHTTP := ledger.NewHTTPHandler(ledgerService, authService)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok connections=%d", gw.ConnectionCount())
	})
	pagesHTTP.RegisterRoutes(mux)
	authHTTP.RegisterRoutes(mux)
	ledgerHTTP.RegisterRoutes(mux)

	log.Printf("[Server] Auth mode: %s", cfg.AuthMode)
	log.Printf("[Server] Cards mode: %s", cfg.CardsMode)
	log.Printf("[Server] Ledger mode: %s", cfg.LedgerMode)
	log.Printf("[Server] Starting War server on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}

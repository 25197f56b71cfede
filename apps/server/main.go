package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"cardsight/apps/server/internal/config"
	"cardsight/apps/server/internal/gateway"
	"cardsight/apps/server/internal/ledger"
	"cardsight/apps/server/internal/profile"
	"cardsight/apps/server/internal/session"
	"cardsight/blackjack"
	"cardsight/speech"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Server] Failed to load config: %v", err)
	}

	ledgerService, ledgerMode, err := ledger.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init ledger service: %v", err)
	}
	defer ledgerService.Close()

	announcer := speech.NewAnnouncer(cfg.Speech, speechSink(cfg))
	defer announcer.Close()

	var gw *gateway.Gateway
	sess, err := session.New(session.Config{
		Geometry:   cfg.Geometry,
		Normalizer: cfg.Normalizer,
		Game:       blackjack.DefaultConfig(),
	}, announcer, ledgerService, func(data []byte) {
		gw.Broadcast(data)
	})
	if err != nil {
		log.Fatalf("[Server] Failed to init session: %v", err)
	}
	defer sess.Close()
	gw = gateway.New(sess)

	profileService := profile.New(ledgerService)
	profileHTTP := profile.NewHTTPHandler(profileService, func(name string) {
		sess.SetProfile(name)
		announceStats(sess, profileService, name)
	})
	ledgerHTTP := ledger.NewHTTPHandler(ledgerService)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/detector", gw.HandleDetector)
	mux.HandleFunc("/ws/observe", gw.HandleObserver)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	profileHTTP.RegisterRoutes(mux)
	ledgerHTTP.RegisterRoutes(mux)

	log.Printf("[Server] Ledger mode: %s", ledgerMode)
	if cfg.TTSCommand != "" {
		log.Printf("[Server] Speech command: %s", cfg.TTSCommand)
	} else {
		log.Printf("[Server] Speech command unset, announcements are logged only")
	}
	log.Printf("[Server] Starting WebSocket server on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}

func speechSink(cfg config.Config) speech.Sink {
	if cfg.TTSCommand == "" {
		return speech.SinkFunc(func(_ context.Context, text string) error {
			log.Printf("[Speech] %s", text)
			return nil
		})
	}
	return speech.NewExecSink(cfg.TTSCommand, cfg.TTSArgs...)
}

func announceStats(sess *session.Session, profiles *profile.Service, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	spoken, err := profiles.SpokenStats(ctx, name)
	if err != nil {
		log.Printf("[Server] Stats lookup failed for %s: %v", name, err)
		return
	}
	sess.Announce(speech.Request{
		Text:      "Welcome back, " + name + ". " + spoken,
		Priority:  speech.PriorityImportant,
		DedupeKey: "profile-stats",
	})
}

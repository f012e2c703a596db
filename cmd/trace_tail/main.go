package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-symptomcheck-be/internal/config"
	"ai-symptomcheck-be/pkg/events"
	natsbus "ai-symptomcheck-be/pkg/nats"

	"github.com/fatih/color"
)

// Tails the TRACES stream so finalized-request traces can be watched live
// without grepping the trace log. Requires NATS_URL.
func main() {
	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		log.Fatal("Error: NATS_URL is not set")
	}

	sub, err := natsbus.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Error: Failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	color.Cyan("📡 Tailing traces from %s (Ctrl+C to stop)\n", cfg.App.NatsURL)

	err = sub.Subscribe("traces.>", "trace-tail", func(ctx context.Context, event events.Event) error {
		payload := event.Payload()

		line, err := json.Marshal(payload)
		if err != nil {
			return err
		}

		if degraded, _ := payload["degraded"].(bool); degraded {
			color.Yellow("%s", line)
		} else if triage, _ := payload["triage"].(string); triage != "primary-care" {
			color.Red("%s", line)
		} else {
			fmt.Println(string(line))
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error: Subscribe failed: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	color.Cyan("\nBye.")
}

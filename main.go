package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/flashbot/internal/bot"
	"github.com/example/flashbot/internal/database"
	"github.com/example/flashbot/internal/reminder"
	"github.com/joho/godotenv"
)

func main() {
	// Load optional .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env file: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	b, err := bot.New()
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Hourly due-card reminder
	r := reminder.New(b)
	r.Start()
	defer r.Stop()

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		b.Stop()
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	if err := b.Start(); err != nil {
		log.Printf("Bot error: %v", err)
	}
	log.Println("Bot stopped successfully")
}

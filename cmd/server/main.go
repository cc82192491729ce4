package main

import (
	"casino_rounds/internal/app"
	"log"
)

func main() {
	if err := app.NewApp().Run(); err != nil {
		log.Fatalf("app stopped: %v", err)
	}
}

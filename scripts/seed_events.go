// seed_events.go — standalone script to seed sample events via the Curator API.
//
// Usage:
//
//	go run scripts/seed_events.go -file events.json -api http://localhost:8700
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

type seedEvent struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Categories  []string  `json:"categories"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Cost        float64   `json:"cost"`
	Popularity  int       `json:"popularity,omitempty"`
}

func main() {
	filePath := flag.String("file", "events.json", "path to a JSON array of events")
	apiURL := flag.String("api", "http://localhost:8700", "Curator API base URL")
	dryRun := flag.Bool("dry-run", false, "print events without posting")
	flag.Parse()

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("read %s: %v", *filePath, err)
	}

	var events []seedEvent
	if err := json.Unmarshal(data, &events); err != nil {
		log.Fatalf("parse %s: %v", *filePath, err)
	}

	if *dryRun {
		for _, ev := range events {
			fmt.Printf("would create: %s (%v, $%.2f)\n", ev.Name, ev.Categories, ev.Cost)
		}
		return
	}

	var created, failed int
	for _, ev := range events {
		body, err := json.Marshal(ev)
		if err != nil {
			log.Printf("marshal %s: %v", ev.Name, err)
			failed++
			continue
		}
		resp, err := http.Post(*apiURL+"/api/v1/events", "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("post %s: %v", ev.Name, err)
			failed++
			continue
		}
		if resp.StatusCode != http.StatusCreated {
			log.Printf("post %s: unexpected status %d", ev.Name, resp.StatusCode)
			failed++
		} else {
			created++
		}
		resp.Body.Close()
	}

	fmt.Printf("created %d events, %d failed\n", created, failed)
}

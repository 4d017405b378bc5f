//go:build ignore
// +build ignore

// Manual stress test for concurrent request approvals.
//
// Usage:
//
//	go run ./scripts/approval_race.go <request_id> [request_id ...]
//
// Or with environment variables:
//
//	REQUEST_IDS=<id1>,<id2>,... SESSION=<admin session cookie> go run ./scripts/approval_race.go
//
// What it does:
//  1. Fires one goroutine per Pending request, all approving simultaneously
//     against the same item's stock.
//  2. Prints how many approvals succeeded vs. were refused with 409.
//  3. Fetches the item afterwards so you can eyeball that available_quantity
//     never went below zero and matches the number of wins.
//
// Prerequisites:
//   - Server running locally, admin session cookie in SESSION.
//   - The given requests must be Pending and target the same item.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

const defaultServerAddr = "http://localhost:3001"

type approvalResult struct {
	RequestID  string
	StatusCode int
	Body       string
	Err        error
}

func main() {
	serverAddr := os.Getenv("SERVER_ADDR")
	if serverAddr == "" {
		serverAddr = defaultServerAddr
	}
	sessionID := os.Getenv("SESSION")
	if sessionID == "" {
		log.Fatal("SESSION must hold an admin session cookie value")
	}

	var requestIDs []string
	if env := os.Getenv("REQUEST_IDS"); env != "" {
		requestIDs = strings.Split(env, ",")
	}
	if args := os.Args[1:]; len(args) > 0 {
		requestIDs = args
	}
	if len(requestIDs) < 2 {
		log.Fatal("Usage: go run ./scripts/approval_race.go <request_id> <request_id> [...]\n" +
			"  or: REQUEST_IDS=<id1,id2,...> go run ./scripts/approval_race.go")
	}

	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Printf("=== Approval race: %d concurrent approvals ===\n", len(requestIDs))

	// Peek at the first request to find the item under contention.
	itemID := itemOf(client, serverAddr, sessionID, requestIDs[0])
	before := fetchItem(client, serverAddr, sessionID, itemID)
	fmt.Printf("item %s before: available=%d total=%d\n", itemID, before.Available, before.Total)

	results := make([]approvalResult, len(requestIDs))
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, id := range requestIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			<-start
			results[i] = approve(client, serverAddr, sessionID, id)
		}(i, id)
	}
	close(start)
	wg.Wait()

	wins, conflicts, other := 0, 0, 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			other++
			fmt.Printf("  %s: error %v\n", r.RequestID, r.Err)
		case r.StatusCode == http.StatusOK:
			wins++
			fmt.Printf("  %s: approved\n", r.RequestID)
		case r.StatusCode == http.StatusConflict:
			conflicts++
			fmt.Printf("  %s: refused (409)\n", r.RequestID)
		default:
			other++
			fmt.Printf("  %s: unexpected %d %s\n", r.RequestID, r.StatusCode, r.Body)
		}
	}

	after := fetchItem(client, serverAddr, sessionID, itemID)
	fmt.Printf("\nwins=%d conflicts=%d other=%d\n", wins, conflicts, other)
	fmt.Printf("item after: available=%d total=%d\n", after.Available, after.Total)

	switch {
	case after.Available < 0:
		fmt.Println("FAIL: available_quantity went negative")
		os.Exit(1)
	case before.Available-after.Available != wins:
		fmt.Printf("FAIL: stock moved by %d but %d approvals won\n",
			before.Available-after.Available, wins)
		os.Exit(1)
	default:
		fmt.Println("OK: every win took exactly one unit, floor held")
	}
}

func approve(client *http.Client, addr, sessionID, requestID string) approvalResult {
	body := bytes.NewBufferString(`{"status":"Approved","comment":"stress"}`)
	req, err := http.NewRequest(http.MethodPatch, addr+"/api/admin/requests/"+requestID, body)
	if err != nil {
		return approvalResult{RequestID: requestID, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "app_session", Value: sessionID})

	resp, err := client.Do(req)
	if err != nil {
		return approvalResult{RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return approvalResult{RequestID: requestID, StatusCode: resp.StatusCode, Body: string(b)}
}

func itemOf(client *http.Client, addr, sessionID, requestID string) string {
	var row struct {
		ItemID string `json:"itemId"`
	}
	getJSON(client, addr+"/api/requests/"+requestID, sessionID, &row)
	if row.ItemID == "" {
		log.Fatalf("request %s has no item id (is it visible to this session?)", requestID)
	}
	return row.ItemID
}

type itemSnapshot struct {
	Available int `json:"availableQuantity"`
	Total     int `json:"totalQuantity"`
}

func fetchItem(client *http.Client, addr, sessionID, itemID string) itemSnapshot {
	var it itemSnapshot
	getJSON(client, addr+"/api/items/"+itemID, sessionID, &it)
	return it
}

func getJSON(client *http.Client, url, sessionID string, out interface{}) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		log.Fatalf("GET %s: %v", url, err)
	}
	req.AddCookie(&http.Cookie{Name: "app_session", Value: sessionID})
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		log.Fatalf("GET %s: %d %s", url, resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Fatalf("GET %s: decode: %v", url, err)
	}
}

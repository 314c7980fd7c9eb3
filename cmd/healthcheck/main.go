// Command healthcheck probes the bot's liveness endpoint. It targets the
// same HTTP_ADDR the bot listens on, so container healthchecks track the
// configured port.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// targetURL derives the probe URL from HTTP_ADDR. A bare ":port" listen
// address probes localhost on that port.
func targetURL() string {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/healthz"
}

func main() {
	client := &http.Client{Timeout: 3 * time.Second}
	ctx := context.Background()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL(), nil)
	if err != nil {
		os.Exit(1)
	}
	resp, err := client.Do(req)
	if err != nil {
		os.Exit(1)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close response body: %v", err)
		}
	}()
	if resp.StatusCode != 200 {
		os.Exit(1)
	}
}

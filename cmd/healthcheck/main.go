// Command healthcheck probes GET /health on the local server for container
// HEALTHCHECK use. Exit 0 = healthy, exit 1 = unhealthy.
//
// Usage: healthcheck [port]   (default: port of $HTTP_ADDR, then $PORT, then 3000)
package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

func main() {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(healthURL(os.Args[1:], os.Getenv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "healthcheck failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "healthcheck failed: HTTP %d\n", resp.StatusCode)
		os.Exit(1)
	}
}

// healthURL resolves the port the same way the server picks its listen
// address: HTTP_ADDR first, then PORT. An explicit argument wins over both.
func healthURL(args []string, getenv func(string) string) string {
	port := "3000"
	if p := getenv("PORT"); p != "" {
		port = p
	}
	if addr := getenv("HTTP_ADDR"); addr != "" {
		if _, p, err := net.SplitHostPort(addr); err == nil && p != "" {
			port = p
		}
	}
	if len(args) > 0 && args[0] != "" {
		port = args[0]
	}
	return "http://" + net.JoinHostPort("localhost", port) + "/health"
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// registry-login drives the npm-compatible /-/v1/login → poll flow against
// a running registry, mirroring what the npm CLI itself does on `npm
// login`: start a session, print the URL the user should open, then poll
// until it completes and print the issued bearer token.
func main() {
	registryURL := flag.String("registry", "http://localhost:8080", "base URL of the registry to log into")
	hostname := flag.String("hostname", "", "hostname to associate with the login session")
	pollInterval := flag.Duration("poll-interval", 2*time.Second, "interval between poll attempts")
	timeout := flag.Duration("timeout", 5*time.Minute, "give up waiting for login completion after this long")
	flag.Parse()

	session, err := startLogin(*registryURL, *hostname)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start login: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Open this URL in your browser to log in:\n\n  %s\n\n", session.LoginURL)
	fmt.Println("Waiting for you to complete login...")

	token, err := pollUntilComplete(session.DoneURL, *pollInterval, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nLogged in. Bearer token:\n\n  %s\n", token)
}

type startLoginResponse struct {
	DoneURL  string `json:"doneUrl"`
	LoginURL string `json:"loginUrl"`
}

func startLogin(registryURL, hostname string) (*startLoginResponse, error) {
	body := strings.NewReader(fmt.Sprintf(`{"hostname":%q}`, hostname))
	resp, err := http.Post(strings.TrimRight(registryURL, "/")+"/-/v1/login", "application/json", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry responded with status %d", resp.StatusCode)
	}

	var session startLoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	return &session, nil
}

type pollResponse struct {
	Token string `json:"token"`
}

// pollUntilComplete polls doneURL until it returns the issued token, the
// registry reports a hard failure, or timeout elapses. A 202 means the
// login is still pending; anything else is terminal.
func pollUntilComplete(doneURL string, interval, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 10 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(doneURL)
		if err != nil {
			return "", err
		}

		switch resp.StatusCode {
		case http.StatusAccepted:
			resp.Body.Close()
			time.Sleep(interval)
			continue
		case http.StatusOK:
			var poll pollResponse
			err := json.NewDecoder(resp.Body).Decode(&poll)
			resp.Body.Close()
			if err != nil {
				return "", fmt.Errorf("failed to parse poll response: %w", err)
			}
			return poll.Token, nil
		default:
			resp.Body.Close()
			return "", fmt.Errorf("registry responded with status %d", resp.StatusCode)
		}
	}

	return "", fmt.Errorf("timed out after %s waiting for login to complete", timeout)
}

// Command smoke exercises a running strategy-agent server end to end:
// health check, strategy generation, lookup by id, and the manual refresh
// trigger.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
)

type smokeClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the server")
	token := flag.String("token", "", "Bearer token for the strategy routes")
	test := flag.String("test", "all", "Test: all, health, generate, manual")
	flag.Parse()

	sc := &smokeClient{
		baseURL: *baseURL,
		token:   *token,
		client:  &http.Client{Timeout: 90 * time.Second},
	}

	fmt.Printf("%sStrategy Agent - Smoke Tests%s\n", colorCyan, colorReset)
	fmt.Printf("Base URL: %s\n\n", *baseURL)

	ok := true
	switch *test {
	case "all":
		ok = sc.testHealth() && sc.testGenerate() && sc.testManualUpdate()
	case "health":
		ok = sc.testHealth()
	case "generate":
		ok = sc.testGenerate()
	case "manual":
		ok = sc.testManualUpdate()
	default:
		fail(fmt.Sprintf("unknown test: %s", *test))
		os.Exit(1)
	}

	if !ok {
		os.Exit(1)
	}
}

func (sc *smokeClient) testHealth() bool {
	fmt.Printf("[TEST] health\n")
	resp, err := sc.client.Get(sc.baseURL + "/health")
	if err != nil {
		fail(fmt.Sprintf("request failed: %v", err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fail(fmt.Sprintf("expected status 200, got %d", resp.StatusCode))
		return false
	}
	pass("health check passed")
	return true
}

func (sc *smokeClient) testGenerate() bool {
	fmt.Printf("[TEST] generate + get by id\n")

	profile := map[string]string{
		"name":       "Smoke Test Coffee",
		"industry":   "Food & Beverage",
		"niche":      "Specialty cold brew subscriptions",
		"audience":   "Urban professionals aged 25-40",
		"goals":      "Grow monthly subscribers to 1000",
		"challenges": "Low brand awareness and high churn",
	}
	body, _ := json.Marshal(profile)

	resp, err := sc.post("/api/strategy/generate", body)
	if err != nil {
		fail(fmt.Sprintf("request failed: %v", err))
		return false
	}
	defer resp.Body.Close()
	payload, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fail(fmt.Sprintf("expected status 200, got %d: %s", resp.StatusCode, payload))
		return false
	}

	var strategy struct {
		ID          string `json:"id"`
		Summary     string `json:"summary"`
		GrowthScore int    `json:"growthScore"`
	}
	if err := json.Unmarshal(payload, &strategy); err != nil || strategy.ID == "" {
		fail(fmt.Sprintf("unexpected response: %s", payload))
		return false
	}
	pass(fmt.Sprintf("strategy generated: id=%s growthScore=%d", strategy.ID, strategy.GrowthScore))
	fmt.Printf("%s\n", indentSummary(strategy.Summary))

	req, _ := http.NewRequest(http.MethodGet, sc.baseURL+"/api/strategy/"+strategy.ID, nil)
	req.Header.Set("Authorization", "Bearer "+sc.token)
	getResp, err := sc.client.Do(req)
	if err != nil {
		fail(fmt.Sprintf("lookup failed: %v", err))
		return false
	}
	defer getResp.Body.Close()

	if getResp.StatusCode != http.StatusOK {
		fail(fmt.Sprintf("lookup expected status 200, got %d", getResp.StatusCode))
		return false
	}
	pass("strategy retrievable by id")
	return true
}

func (sc *smokeClient) testManualUpdate() bool {
	fmt.Printf("[TEST] manual update\n")

	resp, err := sc.post("/api/strategy/update/manual", nil)
	if err != nil {
		fail(fmt.Sprintf("request failed: %v", err))
		return false
	}
	defer resp.Body.Close()
	payload, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fail(fmt.Sprintf("expected status 200, got %d: %s", resp.StatusCode, payload))
		return false
	}

	var result struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		fail(fmt.Sprintf("unexpected response: %s", payload))
		return false
	}
	pass(fmt.Sprintf("manual update attempted %d businesses", result.Count))
	return true
}

func (sc *smokeClient) post(path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, sc.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sc.token)
	return sc.client.Do(req)
}

func indentSummary(summary string) string {
	if len(summary) > 300 {
		summary = summary[:300] + "..."
	}
	return "  " + strings.ReplaceAll(summary, "\n", "\n  ")
}

func pass(text string) {
	fmt.Printf("%s✓ %s%s\n\n", colorGreen, text, colorReset)
}

func fail(text string) {
	fmt.Printf("%s✗ %s%s\n\n", colorRed, text, colorReset)
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type counters struct {
	submitted, invalid, limited, failed atomic.Int64
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Portal base URL")
	concurrency := flag.Int("c", 10, "Number of concurrent workers")
	duration := flag.Duration("d", 30*time.Second, "Duration of the load test")
	rps := flag.Int("rps", 200, "Dialog flows per second limit")
	invalidEvery := flag.Int("invalid-every", 10, "Submit an incomplete form every n-th flow, 0 to disable")
	flag.Parse()

	log.Printf("Starting load test on %s", *baseURL)
	log.Printf("Concurrency: %d, Duration: %s, RPS: %d", *concurrency, *duration, *rps)

	var wg sync.WaitGroup
	var c counters
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(*rps), 100) // Allow bursts up to 100

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			client := &http.Client{
				Timeout: 5 * time.Second,
			}

			for n := 1; ; n++ {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				incomplete := *invalidEvery > 0 && n%*invalidEvery == 0
				if err := runFlow(ctx, client, *baseURL, workerID, incomplete, &c); err != nil && ctx.Err() == nil {
					c.failed.Add(1)
				}
			}
		}(i)
	}

	wg.Wait()

	total := c.submitted.Load() + c.invalid.Load() + c.limited.Load() + c.failed.Load()
	log.Println("Load test finished.")
	log.Printf("Total flows: %d", total)
	log.Printf("Submitted (200 OK): %d", c.submitted.Load())
	log.Printf("Rejected by validation (422): %d", c.invalid.Load())
	log.Printf("Rate limited (429): %d", c.limited.Load())
	log.Printf("Errors: %d", c.failed.Load())
	log.Printf("Actual flows/s: %.2f", float64(total)/duration.Seconds())
}

// runFlow opens an add-user dialog, fills it in and submits it.
func runFlow(ctx context.Context, client *http.Client, baseURL string, workerID int, incomplete bool, c *counters) error {
	var view struct {
		ID string `json:"id"`
	}
	code, err := call(ctx, client, http.MethodPost, baseURL+"/api/dialogs/users", "", &view)
	if err != nil {
		return err
	}
	if code == http.StatusTooManyRequests {
		c.limited.Add(1)
		return nil
	}
	if code != http.StatusCreated {
		return fmt.Errorf("open dialog: unexpected status %d", code)
	}
	dialogURL := baseURL + "/api/dialogs/" + view.ID

	email := fmt.Sprintf("load-%d-%s@example.com", workerID, uuid.NewString()[:8])
	fields := fmt.Sprintf(`{"firstName":"Load","lastName":"Worker %d","email":%q,"role":"staff"}`, workerID, email)
	steps := []struct{ method, url, body string }{
		{http.MethodPatch, dialogURL + "/fields", fields},
	}
	if !incomplete {
		steps = append(steps, struct{ method, url, body string }{http.MethodPost, dialogURL + "/venues/toggle", `{"venue":"all"}`})
	}
	for _, s := range steps {
		code, err := call(ctx, client, s.method, s.url, s.body, nil)
		if err != nil {
			return err
		}
		if code == http.StatusTooManyRequests {
			c.limited.Add(1)
			return nil
		}
		if code != http.StatusOK {
			return fmt.Errorf("%s %s: unexpected status %d", s.method, s.url, code)
		}
	}

	code, err = call(ctx, client, http.MethodPost, dialogURL+"/submit", "", nil)
	if err != nil {
		return err
	}
	switch code {
	case http.StatusOK:
		c.submitted.Add(1)
	case http.StatusUnprocessableEntity:
		c.invalid.Add(1)
		// Incomplete dialogs stay open; close them rather than wait for the janitor.
		call(ctx, client, http.MethodPost, dialogURL+"/close", "", nil)
	case http.StatusTooManyRequests:
		c.limited.Add(1)
	default:
		return fmt.Errorf("submit: unexpected status %d", code)
	}
	return nil
}

func call(ctx context.Context, client *http.Client, method, url, body string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBufferString(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

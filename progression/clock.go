package progression

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/VeyTgo/todoquest/utils"
)

// ErrClockUnavailable is returned when the external time source cannot supply
// the current date. Toggle and create paths treat it as soft (streak/reset
// date skipped); the daily reset sweep treats it as fatal.
var ErrClockUnavailable = errors.New("clock source unavailable")

// Clock supplies the current calendar date in the application time zone.
type Clock interface {
	Today(ctx context.Context) (string, error)
}

// TimeAPIClock fetches the current date for a fixed time zone from a
// timeapi.io compatible endpoint.
type TimeAPIClock struct {
	baseURL  string
	timezone string
	client   *http.Client
}

// NewTimeAPIClock builds a clock against the given base URL ("https://timeapi.io")
// and IANA time zone name.
func NewTimeAPIClock(baseURL, timezone string, timeout time.Duration) *TimeAPIClock {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TimeAPIClock{
		baseURL:  baseURL,
		timezone: timezone,
		client:   &http.Client{Timeout: timeout},
	}
}

// Today returns the current date as "YYYY-MM-DD". The date is rebuilt from the
// numeric year/month/day fields; the API's preformatted date string is locale
// dependent.
func (c *TimeAPIClock) Today(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("%s/api/time/current/zone?timeZone=%s", c.baseURL, url.QueryEscape(c.timezone))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClockUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClockUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: time api returned %s", ErrClockUnavailable, resp.Status)
	}

	var payload struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Day   int `json:"day"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrClockUnavailable, err)
	}
	if payload.Year == 0 || payload.Month == 0 || payload.Day == 0 {
		return "", fmt.Errorf("%w: incomplete date in response", ErrClockUnavailable)
	}

	return fmt.Sprintf("%04d-%02d-%02d", payload.Year, payload.Month, payload.Day), nil
}

// todaySoft fetches the date, downgrading failures to an empty string.
func todaySoft(ctx context.Context, clock Clock) string {
	today, err := clock.Today(ctx)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("clock fetch failed, continuing without date: %v", err)
		}
		return ""
	}
	return today
}

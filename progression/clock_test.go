package progression

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestTimeAPIClockToday(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("timeZone"); got != "Asia/Jakarta" {
			t.Errorf("timeZone = %q, want Asia/Jakarta", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"year":2024,"month":1,"day":5,"hour":9,"minute":30,"date":"01/05/2024","timeZone":"Asia/Jakarta"}`))
	}))
	defer srv.Close()

	clock := NewTimeAPIClock(srv.URL, "Asia/Jakarta", 2*time.Second)
	today, err := clock.Today(context.Background())
	if err != nil {
		t.Fatalf("Today() error: %v", err)
	}
	if today != "2024-01-05" {
		t.Errorf("today = %q, want 2024-01-05", today)
	}
}

func TestTimeAPIClockEscapesTimezone(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Write([]byte(`{"year":2024,"month":6,"day":30}`))
	}))
	defer srv.Close()

	clock := NewTimeAPIClock(srv.URL, "Asia/Jakarta", time.Second)
	if _, err := clock.Today(context.Background()); err != nil {
		t.Fatalf("Today() error: %v", err)
	}
	if want := "timeZone=" + url.QueryEscape("Asia/Jakarta"); rawQuery != want {
		t.Errorf("query = %q, want %q", rawQuery, want)
	}
}

func TestTimeAPIClockServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	clock := NewTimeAPIClock(srv.URL, "Asia/Jakarta", time.Second)
	_, err := clock.Today(context.Background())
	if !errors.Is(err, ErrClockUnavailable) {
		t.Errorf("err = %v, want ErrClockUnavailable", err)
	}
}

func TestTimeAPIClockBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"timeZone":"Asia/Jakarta"}`))
	}))
	defer srv.Close()

	clock := NewTimeAPIClock(srv.URL, "Asia/Jakarta", time.Second)
	_, err := clock.Today(context.Background())
	if !errors.Is(err, ErrClockUnavailable) {
		t.Errorf("err = %v, want ErrClockUnavailable", err)
	}
}

func TestTimeAPIClockUnreachable(t *testing.T) {
	clock := NewTimeAPIClock("http://127.0.0.1:1", "Asia/Jakarta", 500*time.Millisecond)
	_, err := clock.Today(context.Background())
	if !errors.Is(err, ErrClockUnavailable) {
		t.Errorf("err = %v, want ErrClockUnavailable", err)
	}
}

type fixedClock struct {
	date string
	err  error
}

func (f fixedClock) Today(ctx context.Context) (string, error) { return f.date, f.err }

func TestTodaySoft(t *testing.T) {
	if got := todaySoft(context.Background(), fixedClock{date: "2024-01-11"}); got != "2024-01-11" {
		t.Errorf("todaySoft = %q, want 2024-01-11", got)
	}
	if got := todaySoft(context.Background(), fixedClock{err: ErrClockUnavailable}); got != "" {
		t.Errorf("todaySoft on failure = %q, want empty", got)
	}
}

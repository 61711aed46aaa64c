package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// sleepRecorder replaces the client's backoff sleep so tests can observe
// retry delays without waiting for them.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *sleepRecorder) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL)
	recorder := &sleepRecorder{}
	client.sleep = recorder.sleep
	return client, recorder
}

func TestInvoke_SuccessFirstAttempt(t *testing.T) {
	var requests atomic.Int32
	client, recorder := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `{"Status":"rinsing"}`)
	})

	req := newRequest[DeviceStatus](ComponentAI, "getDeviceStatus")
	req.shape = ShapeObject

	status, err := invoke(context.Background(), client, req)
	if err != nil {
		t.Fatalf("invoke() error = %v, want nil", err)
	}
	if status.Status != "rinsing" {
		t.Errorf("Status = %q, want rinsing", status.Status)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("requests = %d, want 1", got)
	}
	if len(recorder.delays) != 0 {
		t.Errorf("backoff sleeps = %v, want none", recorder.delays)
	}
}

func TestInvoke_BackoffDoublesEachRetry(t *testing.T) {
	client, recorder := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusInternalServerError)
	})

	req := newRequest[DeviceStatus](ComponentAI, "getDeviceStatus")
	req.shape = ShapeObject

	if _, err := invoke(context.Background(), client, req); err == nil {
		t.Fatal("invoke() error = nil, want error")
	}

	// 5 attempts means 4 sleeps, each double the previous.
	want := []time.Duration{
		500 * time.Millisecond,
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
	}
	if len(recorder.delays) != len(want) {
		t.Fatalf("backoff sleeps = %v, want %v", recorder.delays, want)
	}
	for i, d := range recorder.delays {
		if d != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, d, want[i])
		}
	}
}

func TestInvoke_AttemptBudgetRespected(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, "busy", http.StatusServiceUnavailable)
	})

	req := newRequest[DeviceStatus](ComponentAI, "getDeviceStatus")
	req.shape = ShapeObject
	req.attempts = 3

	_, err := invoke(context.Background(), client, req)
	if err == nil {
		t.Fatal("invoke() error = nil, want error")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("error = %v, want StatusError 503", err)
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("requests = %d, want 3", got)
	}
}

func TestInvoke_TrustedStatusStopsRetrying(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusNotFound} {
		t.Run(fmt.Sprint(status), func(t *testing.T) {
			var requests atomic.Int32
			client, recorder := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				requests.Add(1)
				http.Error(w, "no", status)
			})

			req := newRequest[DeviceStatus](ComponentAI, "getDeviceStatus")
			req.shape = ShapeObject

			_, err := invoke(context.Background(), client, req)
			if err == nil {
				t.Fatal("invoke() error = nil, want error")
			}
			if got := requests.Load(); got != 1 {
				t.Errorf("requests = %d, want 1 (trusted status must not retry)", got)
			}
			if len(recorder.delays) != 0 {
				t.Errorf("backoff sleeps = %v, want none", recorder.delays)
			}
		})
	}
}

func TestInvoke_NullBecomesEmptyArray(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `null`)
	})

	req := newRequest[[]PushNotification](ComponentAI, "getLastPUSHNotifications")
	req.shape = ShapeArray

	notifications, err := invoke(context.Background(), client, req)
	if err != nil {
		t.Fatalf("invoke() error = %v, want nil", err)
	}
	if notifications == nil || len(notifications) != 0 {
		t.Errorf("notifications = %#v, want empty slice", notifications)
	}
}

func TestInvoke_FallbackAfterExhaustion(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusInternalServerError)
	})

	req := newRequest[DeviceStatus](ComponentAI, "getDeviceStatus")
	req.shape = ShapeObject
	req.attempts = 2
	req.fallback = func() DeviceStatus { return DeviceStatus{Status: "fallback"} }

	status, err := invoke(context.Background(), client, req)
	if err != nil {
		t.Fatalf("invoke() error = %v, want nil (fallback supplied)", err)
	}
	if status.Status != "fallback" {
		t.Errorf("Status = %q, want fallback", status.Status)
	}
}

func TestInvoke_NoFallbackPropagatesLastError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `"not an object"`)
	})

	req := newRequest[DeviceStatus](ComponentAI, "getDeviceStatus")
	req.shape = ShapeObject
	req.attempts = 2

	_, err := invoke(context.Background(), client, req)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestInvoke_MalformedThenValid(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			fmt.Fprint(w, `garbage<`)
			return
		}
		fmt.Fprint(w, `{"Program":"Eco"}`)
	})

	req := newRequest[DeviceStatus](ComponentAI, "getDeviceStatus")
	req.shape = ShapeObject

	status, err := invoke(context.Background(), client, req)
	if err != nil {
		t.Fatalf("invoke() error = %v, want nil", err)
	}
	if status.Program != "Eco" {
		t.Errorf("Program = %q, want Eco", status.Program)
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("requests = %d, want 2", got)
	}
}

func TestInvoke_RejectEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	req := newRequest[DeviceStatus](ComponentAI, "getDeviceStatus")
	req.shape = ShapeObject
	req.rejectEmpty = true
	req.attempts = 2

	_, err := invoke(context.Background(), client, req)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error = %v, want ValidationError for empty response", err)
	}
}

func TestInvoke_ContextCancellationSkipsFallback(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := newRequest[DeviceStatus](ComponentAI, "getDeviceStatus")
	req.shape = ShapeObject
	req.fallback = func() DeviceStatus { return DeviceStatus{Status: "fallback"} }

	_, err := invoke(ctx, client, req)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestInvoke_ConcurrencyCappedAtThree(t *testing.T) {
	var inflight, peak atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		fmt.Fprint(w, `{}`)
	})

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := newRequest[map[string]any](ComponentHH, "getEcoInfo")
			req.shape = ShapeObject
			if _, err := invoke(context.Background(), client, req); err != nil {
				t.Errorf("invoke() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := peak.Load(); got > maxInflight {
		t.Errorf("peak in-flight requests = %d, want <= %d", got, maxInflight)
	}
}

func TestEncodeQuery(t *testing.T) {
	now := time.Unix(1700000000, 0)
	query := encodeQuery([]Param{{Key: "value", Value: "eco mode"}}, "getCommand", now)

	want := "value=eco+mode&command=getCommand&_=1700000000"
	if query != want {
		t.Errorf("encodeQuery() = %q, want %q", query, want)
	}
	if !strings.Contains(query, "_=") {
		t.Error("query must carry the cache-busting timestamp")
	}
}

func TestStatusError_Trusted(t *testing.T) {
	tests := []struct {
		status  int
		trusted bool
	}{
		{http.StatusUnauthorized, true},
		{http.StatusNotFound, true},
		{http.StatusInternalServerError, false},
		{http.StatusBadGateway, false},
		{http.StatusTeapot, false},
	}
	for _, tt := range tests {
		err := &StatusError{StatusCode: tt.status}
		if err.Trusted() != tt.trusted {
			t.Errorf("StatusError(%d).Trusted() = %v, want %v", tt.status, err.Trusted(), tt.trusted)
		}
	}
}

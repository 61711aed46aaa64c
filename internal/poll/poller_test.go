package poll

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frimtec/hass-vzug/internal/api"
)

// fakeDevice answers the commands the poller's aggregates need.
func fakeDevice(t *testing.T) *api.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("command") {
		case "getMacAddress":
			fmt.Fprint(w, "fc:1b:ff:21:49:5f")
		case "getModelDescription":
			fmt.Fprint(w, "AdoraDish V6000")
		case "getZHMode":
			fmt.Fprint(w, `{"value":1}`)
		case "getDeviceStatus":
			fmt.Fprint(w, `{"Status":"idle"}`)
		case "getLastPUSHNotifications":
			fmt.Fprint(w, `null`)
		case "getEcoInfo":
			fmt.Fprint(w, `{}`)
		case "getUpdateStatus":
			fmt.Fprint(w, `{"status":"idle"}`)
		case "getFWVersion":
			fmt.Fprint(w, `{"SW":"1234"}`)
		case "getCategories":
			fmt.Fprint(w, `["c1"]`)
		case "getCategory":
			fmt.Fprint(w, `{"description":"Category c1"}`)
		case "getCommands":
			fmt.Fprint(w, `[]`)
		default:
			http.Error(w, "unknown command", http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return api.NewClient(server.URL)
}

func TestPoller_PrimesSnapshot(t *testing.T) {
	poller := New(fakeDevice(t), DefaultIntervals())
	updates := poller.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	// The priming pass notifies after each aggregate. Subscription sends
	// are lossy for slow consumers, so fall back to Latest() while waiting
	// for the snapshot to carry all three aggregates.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	var snapshot Snapshot
	for snapshot.State == nil || snapshot.Update == nil || snapshot.Config == nil {
		select {
		case snapshot = <-updates:
		case <-tick.C:
			snapshot = poller.Latest()
		case <-deadline:
			t.Fatalf("snapshot not primed in time: %+v", snapshot)
		}
	}

	if snapshot.Meta.MacAddress != "fc:1b:ff:21:49:5f" {
		t.Errorf("Meta.MacAddress = %q", snapshot.Meta.MacAddress)
	}
	if snapshot.Meta.ModelDescription != "AdoraDish V6000" {
		t.Errorf("Meta.ModelDescription = %q", snapshot.Meta.ModelDescription)
	}
	if snapshot.State.Device.Status != "idle" {
		t.Errorf("State.Device.Status = %q, want idle", snapshot.State.Device.Status)
	}
	if snapshot.Update.Update.Status != "idle" {
		t.Errorf("Update.Update.Status = %q, want idle", snapshot.Update.Update.Status)
	}
	if _, ok := snapshot.Config["c1"]; !ok {
		t.Errorf("Config = %v, want category c1", snapshot.Config)
	}

	// Latest must agree with the subscription view.
	latest := poller.Latest()
	if latest.Meta != snapshot.Meta {
		t.Errorf("Latest().Meta = %+v, want %+v", latest.Meta, snapshot.Meta)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
}

func TestPoller_StateRefreshesOnTicker(t *testing.T) {
	intervals := DefaultIntervals()
	intervals.State = 20 * time.Millisecond
	poller := New(fakeDevice(t), intervals)
	updates := poller.Subscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() { _ = poller.Run(ctx) }()

	// Prime notifications, then at least one ticker-driven refresh.
	for range 5 {
		select {
		case <-updates:
		case <-ctx.Done():
			t.Fatal("too few refresh notifications before timeout")
		}
	}
}

func TestPoller_IdentityFailureAbortsRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)
	poller := New(api.NewClient(server.URL), DefaultIntervals())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := poller.Run(ctx)
	if err == nil {
		t.Fatal("Run() error = nil, want identity fetch error")
	}
	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Run() error = %v, want wrapped 401", err)
	}
}

func TestNew_ZeroIntervalsUseDefaults(t *testing.T) {
	poller := New(nil, Intervals{})
	if poller.intervals != DefaultIntervals() {
		t.Errorf("intervals = %+v, want defaults", poller.intervals)
	}
}

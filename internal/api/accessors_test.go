package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestGetMacAddress(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/ai" {
			t.Errorf("path = %q, want /ai", got)
		}
		fmt.Fprint(w, "fc:1b:ff:21:49:5f")
	})

	mac, err := client.GetMacAddress(context.Background(), false)
	if err != nil {
		t.Fatalf("GetMacAddress() error = %v, want nil", err)
	}
	if mac != "fc:1b:ff:21:49:5f" {
		t.Errorf("mac = %q, want fc:1b:ff:21:49:5f", mac)
	}
}

func TestGetMacAddress_NotFoundDegradesToEmpty(t *testing.T) {
	var requests atomic.Int32
	client, recorder := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, "unknown command", http.StatusNotFound)
	})

	mac, err := client.GetMacAddress(context.Background(), true)
	if err != nil {
		t.Fatalf("GetMacAddress() error = %v, want nil (default substituted)", err)
	}
	if mac != "" {
		t.Errorf("mac = %q, want empty default", mac)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("requests = %d, want 1 (404 is trusted)", got)
	}
	if len(recorder.delays) != 0 {
		t.Errorf("backoff sleeps = %v, want none", recorder.delays)
	}
}

func TestGetZHMode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/hh" {
			t.Errorf("path = %q, want /hh", got)
		}
		fmt.Fprint(w, `{"value":3}`)
	})

	mode, err := client.GetZHMode(context.Background(), false)
	if err != nil {
		t.Fatalf("GetZHMode() error = %v, want nil", err)
	}
	if mode != 3 {
		t.Errorf("mode = %d, want 3", mode)
	}
}

func TestGetZHMode_DefaultIsMinusOne(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusNotFound)
	})

	mode, err := client.GetZHMode(context.Background(), true)
	if err != nil {
		t.Fatalf("GetZHMode() error = %v, want nil (default substituted)", err)
	}
	if mode != -1 {
		t.Errorf("mode = %d, want -1", mode)
	}
}

func TestListCategories_EmptyListIsValid(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `[]`)
	})

	categories, err := client.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories() error = %v, want nil", err)
	}
	if len(categories) != 0 {
		t.Errorf("categories = %v, want empty", categories)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("requests = %d, want 1 (empty list must not trigger retries)", got)
	}
}

func TestGetDeviceStatus_Decode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"DeviceName": "Dishwasher",
			"Serial": "10203 040506",
			"Inactive": "false",
			"Program": "Eco",
			"Status": "running",
			"ProgramEnd": {"EndType": "time", "End": "18:45"},
			"deviceUuid": "fc1bff21495f"
		}`)
	})

	status, err := client.GetDeviceStatus(context.Background(), false)
	if err != nil {
		t.Fatalf("GetDeviceStatus() error = %v, want nil", err)
	}
	if status.DeviceName != "Dishwasher" {
		t.Errorf("DeviceName = %q, want Dishwasher", status.DeviceName)
	}
	if status.ProgramEnd.End != "18:45" {
		t.Errorf("ProgramEnd.End = %q, want 18:45", status.ProgramEnd.End)
	}
	if status.IsInactive() {
		t.Error("IsInactive() = true, want false")
	}
}

func TestDeviceStatus_IsInactive(t *testing.T) {
	tests := []struct {
		inactive string
		want     bool
	}{
		{"true", true},
		{"false", false},
		{"", false},
		{"TRUE", false},
	}
	for _, tt := range tests {
		status := DeviceStatus{Inactive: tt.inactive}
		if got := status.IsInactive(); got != tt.want {
			t.Errorf("IsInactive() with Inactive=%q = %v, want %v", tt.inactive, got, tt.want)
		}
	}
}

func TestSetCommand_SendsValueParameter(t *testing.T) {
	var gotCommand, gotValue string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotCommand = r.URL.Query().Get("command")
		gotValue = r.URL.Query().Get("value")
		fmt.Fprint(w, "ok")
	})

	if err := client.SetCommand(context.Background(), "EcoMode", "true"); err != nil {
		t.Fatalf("SetCommand() error = %v, want nil", err)
	}
	if gotCommand != "setEcoMode" {
		t.Errorf("command = %q, want setEcoMode", gotCommand)
	}
	if gotValue != "true" {
		t.Errorf("value = %q, want true", gotValue)
	}
}

func TestSetCommand_FailureSurfaces(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, "busy", http.StatusInternalServerError)
	})

	err := client.SetCommand(context.Background(), "EcoMode", "true")
	if err == nil {
		t.Fatal("SetCommand() error = nil, want error (writes never degrade to defaults)")
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("requests = %d, want 2 (write attempt budget)", got)
	}
}

func TestGetCommand_Decode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("value"); got != "steamfinish" {
			t.Errorf("value = %q, want steamfinish", got)
		}
		fmt.Fprint(w, `{
			"type": "boolean",
			"description": "Steam finish",
			"command": "steamfinish",
			"value": "false",
			"alterable": true,
			"options": ["true", "false"],
			"refresh": ["ecomanagement"]
		}`)
	})

	command, err := client.GetCommand(context.Background(), "steamfinish")
	if err != nil {
		t.Fatalf("GetCommand() error = %v, want nil", err)
	}
	if command.Type != CommandTypeBoolean {
		t.Errorf("Type = %q, want %q", command.Type, CommandTypeBoolean)
	}
	if !command.Alterable {
		t.Error("Alterable = false, want true")
	}
	if len(command.Refresh) != 1 || command.Refresh[0] != "ecomanagement" {
		t.Errorf("Refresh = %v, want [ecomanagement]", command.Refresh)
	}
}

func TestSetProgram_EncodesOptionsWithID(t *testing.T) {
	var gotValue string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("command"); got != "setProgram" {
			t.Errorf("command = %q, want setProgram", got)
		}
		gotValue = r.URL.Query().Get("value")
		fmt.Fprint(w, "ok")
	})

	err := client.SetProgram(context.Background(), 50, map[string]any{"steamfinish": true})
	if err != nil {
		t.Fatalf("SetProgram() error = %v, want nil", err)
	}
	want := `{"id":50,"steamfinish":true}`
	if gotValue != want {
		t.Errorf("value = %q, want %q", gotValue, want)
	}
}

func TestGetProgram_SplitsInfoFromOptions(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{
			"id": 50,
			"name": "Eco",
			"status": "selected",
			"stepIds": [1, 2],
			"starttime": {"set": 0, "min": 0, "max": 86400},
			"duration": {"set": 3600}
		}]`)
	})

	programs, err := client.GetProgram(context.Background())
	if err != nil {
		t.Fatalf("GetProgram() error = %v, want nil", err)
	}
	if len(programs) != 1 {
		t.Fatalf("len(programs) = %d, want 1", len(programs))
	}

	p := programs[0]
	if p.Info.ID != 50 || p.Info.Name != "Eco" || p.Info.Status != "selected" {
		t.Errorf("Info = %+v, want id=50 name=Eco status=selected", p.Info)
	}
	if len(p.Options) != 2 {
		t.Fatalf("Options keys = %v, want starttime and duration", p.Options)
	}
	for _, infoKey := range []string{"id", "name", "status", "stepIds"} {
		if _, ok := p.Options[infoKey]; ok {
			t.Errorf("Options contains identity key %q", infoKey)
		}
	}
	if got := p.Options["duration"].Set; got == nil {
		t.Error("duration option lost its set value")
	}
}

func TestWithCredentials_SendsBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		fmt.Fprint(w, "fc:1b:ff:21:49:5f")
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, WithCredentials(Credentials{Username: "11111111", Password: "secret"}))
	if _, err := client.GetMacAddress(context.Background(), false); err != nil {
		t.Fatalf("GetMacAddress() error = %v, want nil", err)
	}
	if gotUser != "11111111" || gotPass != "secret" {
		t.Errorf("basic auth = %q/%q, want 11111111/secret", gotUser, gotPass)
	}
}

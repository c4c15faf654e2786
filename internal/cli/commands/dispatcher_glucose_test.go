package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"GlucoTrack/internal/cli/api"
	"GlucoTrack/internal/config"
)

// fakeCmd позволяет управлять возвратом ошибок из Run
type fakeCmd struct {
	name, usage, desc string
	run               func(ctx context.Context, cfg *config.Config, args []string) error
}

func (f fakeCmd) Name() string        { return f.name }
func (f fakeCmd) Description() string { return f.desc }
func (f fakeCmd) Usage() string       { return f.usage }
func (f fakeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	return f.run(ctx, cfg, args)
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

func TestDispatcher_HelpAndUnknown(t *testing.T) {
	// зарегистрированы login/register/glucose-add и остальные из init()
	out := withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{}) })
	if !strings.Contains(out, "GlucoTrack CLI") {
		t.Fatalf("global help expected")
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help"}) })
	if !strings.Contains(out, "Usage:") {
		t.Fatalf("usage expected")
	}

	code := Dispatch(context.Background(), &config.Config{}, []string{"help", "login"})
	if code != 0 {
		t.Fatalf("expected 0 for help login, got %d", code)
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help", "nope"}) })
	if !strings.Contains(out, "Unknown command") {
		t.Fatalf("unknown command message expected")
	}

	code = Dispatch(context.Background(), &config.Config{}, []string{"no-such"})
	if code != 2 {
		t.Fatalf("expected 2 for unknown command, got %d", code)
	}
}

func TestDispatcher_RunPaths(t *testing.T) {
	// зарегистрируем временную команду
	cmdOK := fakeCmd{name: "x", usage: "x", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return nil }}
	RegisterCmd(cmdOK)
	if code := Dispatch(context.Background(), &config.Config{}, []string{"x"}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	cmdUsage := fakeCmd{name: "u", usage: "u <arg>", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return ErrUsage }}
	RegisterCmd(cmdUsage)
	out := withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"u"}) })
	if !strings.Contains(out, "Usage: u <arg>") {
		t.Fatalf("usage text expected")
	}

	cmdErr := fakeCmd{name: "e", usage: "e", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return fmt.Errorf("boom") }}
	RegisterCmd(cmdErr)
	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"e"}) })
	if !strings.Contains(out, "e error: boom") {
		t.Fatalf("error line expected, got: %s", out)
	}
}

func TestGlucoseAdd_Run_Success_Errors_and_Usage(t *testing.T) {
	tokenFile := withTempToken(t)
	if err := api.SaveToken(tokenFile, "tok-123"); err != nil {
		t.Fatalf("failed to save token: %v", err)
	}

	// успех: 201 и заголовок авторизации
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/api/glucose") {
			t.Fatalf("path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			t.Fatalf("missing bearer token: %q", r.Header.Get("Authorization"))
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"glucose record created"}`))
	}))
	defer ts.Close()

	cfg := &config.Config{ServerURL: ts.URL, TokenFile: tokenFile}
	out := withStdoutCapture(t, func() {
		if err := (glucoseAddCmd{}).Run(context.Background(), cfg, []string{"2026-08-01", "fasting", "95", "after", "jogging"}); err != nil {
			t.Fatalf("glucose-add failed: %v", err)
		}
	})
	if !strings.Contains(out, "Recorded 95 mg/dL") {
		t.Fatalf("confirmation expected, got: %s", out)
	}

	// 409 — дубликат за дату и период
	ts409 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "record for this date and period already exists", http.StatusConflict)
	}))
	defer ts409.Close()
	cfg409 := &config.Config{ServerURL: ts409.URL, TokenFile: tokenFile}
	if err := (glucoseAddCmd{}).Run(context.Background(), cfg409, []string{"2026-08-01", "fasting", "95"}); err == nil {
		t.Fatalf("expected duplicate error")
	}

	// нечисловое значение
	if err := (glucoseAddCmd{}).Run(context.Background(), cfg, []string{"2026-08-01", "fasting", "high"}); err == nil {
		t.Fatalf("expected error for non-numeric value")
	}

	// ErrUsage при нехватке аргументов
	if err := (glucoseAddCmd{}).Run(context.Background(), cfg, []string{"2026-08-01"}); err != ErrUsage {
		t.Fatalf("expected ErrUsage, got %v", err)
	}

	// без токена — подсказка залогиниться
	noToken := &config.Config{ServerURL: ts.URL, TokenFile: tokenFile + ".missing"}
	if err := (glucoseAddCmd{}).Run(context.Background(), noToken, []string{"2026-08-01", "fasting", "95"}); err == nil {
		t.Fatalf("expected not-logged-in error")
	}
	_ = os.Remove(tokenFile)
}

func TestGlucoseList_Run(t *testing.T) {
	tokenFile := withTempToken(t)
	if err := api.SaveToken(tokenFile, "tok-123"); err != nil {
		t.Fatalf("failed to save token: %v", err)
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("startDate"); got != "2026-08-01" {
			t.Fatalf("startDate not passed: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"records":[{"id":1,"date":"2026-08-01","period":"fasting","value":95,"notes":"morning"}],
			"stats":{"average":95,"minimum":95,"maximum":95,"count":1}
		}`))
	}))
	defer ts.Close()

	cfg := &config.Config{ServerURL: ts.URL, TokenFile: tokenFile}
	out := withStdoutCapture(t, func() {
		if err := (glucoseListCmd{}).Run(context.Background(), cfg, []string{"2026-08-01"}); err != nil {
			t.Fatalf("glucose-list failed: %v", err)
		}
	})
	if !strings.Contains(out, "95 mg/dL") || !strings.Contains(out, "avg 95") {
		t.Fatalf("listing output unexpected: %s", out)
	}
}

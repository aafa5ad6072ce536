package cmd

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mj1618/eva/internal/platform"
)

func TestFocusOrLaunch_Focuses(t *testing.T) {
	rec := platform.NewRecorder(nil)
	result, err := focusOrLaunch(context.Background(), rec.Provider(), platform.FocusOptions{App: "firefox"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if result.Launched || result.Action != "focus" || result.App != "firefox" {
		t.Errorf("got %+v", result)
	}
	calls := rec.Calls()
	if len(calls) != 1 || calls[0].Method != "FocusWindow" || calls[0].Args != "app=firefox" {
		t.Errorf("calls = %v", calls)
	}
}

func TestFocusOrLaunch_LaunchesMissingApp(t *testing.T) {
	rec := platform.NewRecorder(nil)
	rec.Fail = map[string]error{"FocusWindow": errors.New("no window")}

	result, err := focusOrLaunch(context.Background(), rec.Provider(), platform.FocusOptions{App: "spotify"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Launched || result.Action != "launch" {
		t.Errorf("got %+v", result)
	}
	want := []string{"KeyCombo", "TypeText", "KeyCombo"}
	if got := rec.Methods(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestFocusOrLaunch_NoLaunch(t *testing.T) {
	tests := []struct {
		name   string
		opts   platform.FocusOptions
		launch bool
	}{
		{"launch disabled", platform.FocusOptions{App: "spotify"}, false},
		{"window title only", platform.FocusOptions{Window: "Inbox"}, true},
	}
	for _, tt := range tests {
		rec := platform.NewRecorder(nil)
		rec.Fail = map[string]error{"FocusWindow": errors.New("no window")}
		if _, err := focusOrLaunch(context.Background(), rec.Provider(), tt.opts, tt.launch); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
		if n := len(rec.Calls()); n != 0 {
			t.Errorf("%s: got %d calls, want none", tt.name, n)
		}
	}
}

func TestFocusOrLaunch_NoWindowManager(t *testing.T) {
	if _, err := focusOrLaunch(context.Background(), &platform.Provider{}, platform.FocusOptions{App: "x"}, true); err == nil {
		t.Error("expected an error without a window manager")
	}
}

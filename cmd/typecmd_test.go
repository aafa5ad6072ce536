package cmd

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mj1618/eva/internal/platform"
)

func TestTypeAndPress(t *testing.T) {
	tests := []struct {
		name       string
		text, key  string
		wantAction string
		wantCalls  []string
	}{
		{"text", "hello", "", "type", []string{"TypeText"}},
		{"key", "", "ctrl+l", "key", []string{"KeyCombo"}},
		{"text then key", "golang", "enter", "type+key", []string{"TypeText", "KeyCombo"}},
	}
	for _, tt := range tests {
		rec := platform.NewRecorder(nil)
		result, err := typeAndPress(rec.Provider().Inputter, tt.text, tt.key, 0)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if result.Action != tt.wantAction || !result.OK {
			t.Errorf("%s: got %+v", tt.name, result)
		}
		if got := rec.Methods(); !reflect.DeepEqual(got, tt.wantCalls) {
			t.Errorf("%s: calls = %v, want %v", tt.name, got, tt.wantCalls)
		}
	}
}

func TestTypeAndPress_Errors(t *testing.T) {
	rec := platform.NewRecorder(nil)
	in := rec.Provider().Inputter

	if _, err := typeAndPress(in, "", "", 0); err == nil {
		t.Error("expected an error with nothing to type")
	}
	if _, err := typeAndPress(in, "hi", "  ", 0); err == nil {
		t.Error("expected an error for a blank key combination")
	}
	if _, err := typeAndPress(nil, "hi", "", 0); err == nil {
		t.Error("expected an error without an inputter")
	}
	if n := len(rec.Calls()); n != 0 {
		t.Errorf("got %d calls after validation errors, want none", n)
	}

	rec.Fail = map[string]error{"TypeText": errors.New("no display")}
	if _, err := typeAndPress(in, "hi", "enter", 0); err == nil {
		t.Error("expected the typing error")
	}
	if n := len(rec.Calls()); n != 0 {
		t.Errorf("key pressed after typing failed: %v", rec.Calls())
	}
}

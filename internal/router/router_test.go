package router

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mj1618/eva/internal/classify"
	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/platform"
	"github.com/mj1618/eva/internal/steps"
	"github.com/mj1618/eva/internal/vision"
)

type fakeLocator struct {
	point vision.Point
	err   error
	panic bool
	calls []vision.Target
}

func (f *fakeLocator) Locate(_ context.Context, t vision.Target) (vision.Point, error) {
	if f.panic {
		panic("detector exploded")
	}
	f.calls = append(f.calls, t)
	return f.point, f.err
}

type waits []float64

func (w *waits) pause(_ context.Context, s float64) error {
	*w = append(*w, s)
	return nil
}

func newPlanRouter(rec *platform.Recorder, loc Locator, opts Options) (*PlanRouter, *waits) {
	opts.Locator = loc
	r := NewPlanRouter(rec.Provider(), opts)
	w := &waits{}
	r.pause = w.pause
	return r, w
}

func newDirectRouter(rec *platform.Recorder) (*DirectRouter, *waits) {
	r := NewDirectRouter(rec.Provider(), Options{})
	w := &waits{}
	r.pause = w.pause
	return r, w
}

func callStrings(rec *platform.Recorder) []string {
	var out []string
	for _, c := range rec.Calls() {
		out = append(out, c.String())
	}
	return out
}

func assertCalls(t *testing.T, rec *platform.Recorder, want ...string) {
	t.Helper()
	got := callStrings(rec)
	if strings.Join(got, " | ") != strings.Join(want, " | ") {
		t.Errorf("calls:\n got  %v\n want %v", got, want)
	}
}

func TestPlanRouter_OpenApp(t *testing.T) {
	rec := platform.NewRecorder(nil)
	r, w := newPlanRouter(rec, nil, Options{})
	plan := steps.Generate(model.CategoryOpenApp, model.Entities{AppName: "chrome"})

	res := r.Route(context.Background(), Request{Category: model.CategoryOpenApp, Plan: plan})
	if !res.Success {
		t.Fatalf("route failed: %s", res.Error)
	}
	assertCalls(t, rec, "KeyCombo win", "TypeText chrome", "KeyCombo enter")
	if len(*w) != 2 || (*w)[0] != 0.5 || (*w)[1] != 2 {
		t.Errorf("waits = %v, want [0.5 2]", *w)
	}
}

func TestPlanRouter_MouseClickFallsBackToBlindClick(t *testing.T) {
	tests := []struct {
		name string
		loc  Locator
	}{
		{"no elements", &fakeLocator{err: vision.ErrNoElements}},
		{"no target", &fakeLocator{err: vision.ErrNoTarget}},
		{"oracle timeout", &fakeLocator{err: context.DeadlineExceeded}},
		{"no locator", nil},
	}
	for _, tt := range tests {
		rec := platform.NewRecorder(nil)
		r, _ := newPlanRouter(rec, tt.loc, Options{})
		plan := model.Plan{{ActionType: model.ActionMouseClick, Params: model.Params{"target": "Send"}, Description: "Click: Send"}}
		res := r.Route(context.Background(), Request{Category: model.CategoryMouseClick, Plan: plan})
		if !res.Success {
			t.Errorf("%s: got failure %q", tt.name, res.Error)
		}
		assertCalls(t, rec, "ClickCurrent left x1")
	}
}

func TestPlanRouter_MouseClickResolved(t *testing.T) {
	tests := []struct {
		op   string
		want string
	}{
		{vision.OpClick, "Click 30,40 left x1"},
		{vision.OpDoubleClick, "Click 30,40 left x2"},
		{vision.OpRightClick, "Click 30,40 right x1"},
	}
	for _, tt := range tests {
		rec := platform.NewRecorder(nil)
		loc := &fakeLocator{point: vision.Point{X: 30, Y: 40, Operation: tt.op}}
		r, _ := newPlanRouter(rec, loc, Options{})
		plan := model.Plan{{ActionType: model.ActionScreenAnalysis, Params: model.Params{"profile_name": "Work"}, Description: "Select profile: Work"}}
		if res := r.Route(context.Background(), Request{Plan: plan}); !res.Success {
			t.Fatalf("route failed: %s", res.Error)
		}
		assertCalls(t, rec, tt.want)
		if len(loc.calls) != 1 || loc.calls[0].Label != "Work" || loc.calls[0].Description != "Select profile: Work" {
			t.Errorf("locator got %+v", loc.calls)
		}
	}
}

func TestPlanRouter_PrimitiveFailureAborts(t *testing.T) {
	rec := platform.NewRecorder(nil)
	rec.Fail = map[string]error{"TypeText": errors.New("xdotool is not installed")}
	r, _ := newPlanRouter(rec, nil, Options{})
	plan := steps.Generate(model.CategoryOpenApp, model.Entities{AppName: "chrome"})

	res := r.Route(context.Background(), Request{Plan: plan})
	if res.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Error, "step 3 (TYPE_TEXT)") || !strings.Contains(res.Error, "xdotool is not installed") {
		t.Errorf("error = %q", res.Error)
	}
	assertCalls(t, rec, "KeyCombo win")
}

func TestPlanRouter_SkipsUnknownAndExecute(t *testing.T) {
	rec := platform.NewRecorder(nil)
	r, _ := newPlanRouter(rec, nil, Options{})
	plan := model.Plan{
		{ActionType: "TELEPORT", Description: "?"},
		{ActionType: model.ActionExecute, Params: model.Params{}, Description: "Execute: UNKNOWN"},
		{ActionType: model.ActionMouseRightClick, Description: "Right click"},
		{ActionType: model.ActionMouseDoubleClick, Description: "Double click"},
		{ActionType: model.ActionFocusWindow, Params: model.Params{"window": "Spotify"}, Description: "Focus"},
	}
	res := r.Route(context.Background(), Request{Plan: plan})
	if !res.Success || res.Message != "Executed 5 steps" {
		t.Errorf("got %+v", res)
	}
	assertCalls(t, rec, "ClickCurrent right x1", "ClickCurrent left x2", "FocusWindow window=Spotify")
}

func TestPlanRouter_EmptyKeyIsSkipped(t *testing.T) {
	rec := platform.NewRecorder(nil)
	r, _ := newPlanRouter(rec, nil, Options{})
	// A keyboard command whose shortcut was not recognized.
	plan := steps.Generate(model.CategoryKeyboard, model.Entities{})
	plan = append(plan, model.Step{ActionType: model.ActionTypeText, Params: model.Params{"text": "after"}})

	res := r.Route(context.Background(), Request{Category: model.CategoryKeyboard, Plan: plan})
	if !res.Success {
		t.Fatalf("got %+v", res)
	}
	assertCalls(t, rec, "TypeText after")
}

func TestPlanRouter_RecoversPanic(t *testing.T) {
	rec := platform.NewRecorder(nil)
	r, _ := newPlanRouter(rec, &fakeLocator{panic: true}, Options{})
	res := r.Route(context.Background(), Request{Plan: model.Plan{{ActionType: model.ActionMouseClick, Params: model.Params{"target": "x"}}}})
	if res.Success || !strings.Contains(res.Error, "detector exploded") {
		t.Errorf("got %+v", res)
	}
}

func TestPlanRouter_SystemFastPath(t *testing.T) {
	rec := platform.NewRecorder(nil)
	r, _ := newPlanRouter(rec, nil, Options{})
	res := r.Route(context.Background(), Request{Category: model.CategorySystemAction, Raw: "set volume to 42"})
	if !res.Success {
		t.Fatalf("got %+v", res)
	}
	assertCalls(t, rec, "SetVolume 42")

	res = r.Route(context.Background(), Request{Category: model.CategoryOpenApp, Raw: "open"})
	if res.Success {
		t.Error("empty non-system plan should fail")
	}
}

func TestPlanRouter_SystemSteps(t *testing.T) {
	dir := t.TempDir()
	rec := platform.NewRecorder(nil)
	r, _ := newPlanRouter(rec, nil, Options{Archive: vision.NewArchive(dir, 5, nil)})

	lock := steps.Generate(model.CategorySystem, model.Entities{SystemAction: "lock"})
	if res := r.Route(context.Background(), Request{Category: model.CategorySystem, Plan: lock, Raw: "lock screen"}); !res.Success {
		t.Fatalf("lock: %+v", res)
	}
	shot := steps.Generate(model.CategorySystem, model.Entities{SystemAction: "screenshot"})
	if res := r.Route(context.Background(), Request{Category: model.CategorySystem, Plan: shot, Raw: "take screenshot"}); !res.Success {
		t.Fatalf("screenshot: %+v", res)
	}
	assertCalls(t, rec, "Power lock", "CaptureScreen 320x180")
	if files, _ := vision.NewArchive(dir, 5, nil).List(); len(files) != 1 {
		t.Errorf("archived %d screenshots, want 1", len(files))
	}
}

func TestDirectRouter_AppLaunch(t *testing.T) {
	rec := platform.NewRecorder(nil)
	r, w := newDirectRouter(rec)
	res := r.Route(context.Background(), Request{
		Category: model.CategoryAppLaunch,
		Entities: model.Entities{AppName: "Spotify."},
		Raw:      "open Spotify.",
	})
	if !res.Success || res.Message != "Opened spotify" {
		t.Fatalf("got %+v", res)
	}
	assertCalls(t, rec, "KeyCombo win", "TypeText spotify", "KeyCombo enter")
	if len(*w) != 2 || (*w)[0] != 0.5 || (*w)[1] != 0.5 {
		t.Errorf("waits = %v, want [0.5 0.5]", *w)
	}
}

func TestDirectRouter_AppLaunchFromRaw(t *testing.T) {
	rec := platform.NewRecorder(nil)
	r, _ := newDirectRouter(rec)
	if res := r.Route(context.Background(), Request{Category: model.CategoryAppLaunch, Raw: "launch Firefox"}); !res.Success {
		t.Fatalf("got %+v", res)
	}
	assertCalls(t, rec, "KeyCombo win", "TypeText firefox", "KeyCombo enter")

	rec2 := platform.NewRecorder(nil)
	r2, _ := newDirectRouter(rec2)
	if res := r2.Route(context.Background(), Request{Category: model.CategoryAppLaunch, Raw: "hmm"}); res.Success {
		t.Error("missing app name should fail")
	}
}

func TestDirectRouter_System(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		ok    bool
		call  string
		error string
	}{
		{"volume", Request{Raw: "set volume to 42"}, true, "SetVolume 42", ""},
		{"volume clamped", Request{Raw: "volume 150 percent"}, true, "SetVolume 100", ""},
		{"volume missing", Request{Raw: "turn the volume up"}, false, "", "no volume level found"},
		{"brightness", Request{Raw: "brightness 30%", Classification: model.Classification{Subcategory: "brightness"}}, true, "SetBrightness 30", ""},
		{"brightness missing", Request{Raw: "more brightness"}, false, "", "no brightness level found"},
		{"mute", Request{Raw: "mute"}, true, "SetMute true", ""},
		{"unmute", Request{Raw: "unmute please"}, true, "SetMute false", ""},
		{"shutdown", Request{Raw: "turn it off", Classification: model.Classification{Subcategory: "shutdown"}}, true, "Power shutdown", ""},
		{"action name", Request{Raw: "do it", Classification: model.Classification{Action: "set_volume"}}, false, "", "no volume level found"},
		{"restart", Request{Raw: "reboot the machine"}, true, "Power restart", ""},
		{"unknown", Request{Raw: "make it faster"}, false, "", "unknown system action"},
	}
	for _, tt := range tests {
		rec := platform.NewRecorder(nil)
		r, _ := newDirectRouter(rec)
		tt.req.Category = model.CategorySystemAction
		res := r.Route(context.Background(), tt.req)
		if res.Success != tt.ok {
			t.Errorf("%s: got %+v", tt.name, res)
			continue
		}
		if tt.ok {
			assertCalls(t, rec, tt.call)
		} else if res.Error != tt.error {
			t.Errorf("%s: error = %q, want %q", tt.name, res.Error, tt.error)
		}
	}
}

func TestDirectRouter_InApp(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		ok   bool
		want []string
		msg  string
	}{
		{"close", Request{Raw: "close window", Classification: model.Classification{Action: "close"}}, true, []string{"KeyCombo alt+f4"}, "Window closed"},
		{"click", Request{Raw: "click", Entities: model.Entities{Action: "click"}}, true, []string{"ClickCurrent left x1"}, "Clicked"},
		{"type", Request{Raw: "Type Hello World", Classification: model.Classification{Action: "type"}}, true, []string{"TypeText Hello World"}, "Typed: Hello World"},
		{"inferred", Request{Raw: "please close this", Classification: model.Classification{Action: "unknown"}}, true, []string{"KeyCombo alt+f4"}, "Window closed"},
		{"type without text", Request{Raw: "type", Classification: model.Classification{Action: "type"}}, false, nil, "no text to type"},
		{"unsupported", Request{Raw: "pause the song", Classification: model.Classification{Action: "pause"}}, false, nil, "unknown in-app action: pause"},
	}
	for _, tt := range tests {
		rec := platform.NewRecorder(nil)
		r, _ := newDirectRouter(rec)
		tt.req.Category = model.CategoryInAppAction
		res := r.Route(context.Background(), tt.req)
		if res.Success != tt.ok {
			t.Errorf("%s: got %+v", tt.name, res)
			continue
		}
		if tt.ok && res.Message != tt.msg || !tt.ok && res.Error != tt.msg {
			t.Errorf("%s: got %+v, want %q", tt.name, res, tt.msg)
		}
		assertCalls(t, rec, tt.want...)
	}
}

func TestDirectRouter_Web(t *testing.T) {
	tests := []struct {
		name string
		e    model.Entities
		want []string
	}{
		{"nothing", model.Entities{}, nil},
		{"default engine query", model.Entities{Website: "google.com", SearchQuery: "python"}, []string{"KeyCombo ctrl+l", "TypeText python", "KeyCombo enter"}},
		{"site only", model.Entities{Website: "youtube.com"}, []string{"KeyCombo ctrl+l", "TypeText youtube.com", "KeyCombo enter"}},
		{"site and query", model.Entities{Website: "youtube.com", SearchQuery: "cats"}, []string{
			"KeyCombo ctrl+l", "TypeText youtube.com", "KeyCombo enter",
			"KeyCombo /", "TypeText cats", "KeyCombo enter",
		}},
	}
	for _, tt := range tests {
		rec := platform.NewRecorder(nil)
		r, _ := newDirectRouter(rec)
		res := r.Route(context.Background(), Request{Category: model.CategoryWebAction, Entities: tt.e})
		if !res.Success {
			t.Errorf("%s: got %+v", tt.name, res)
		}
		assertCalls(t, rec, tt.want...)
	}
}

func TestDirectRouter_UnknownCategory(t *testing.T) {
	r, _ := newDirectRouter(platform.NewRecorder(nil))
	res := r.Route(context.Background(), Request{Category: model.CategoryOpenApp})
	if res.Success || res.Error != "unknown category: OPEN_APP" {
		t.Errorf("got %+v", res)
	}
}

func TestForFamily(t *testing.T) {
	p := platform.NewRecorder(nil).Provider()
	if _, ok := ForFamily(classify.FamilySemantic, p, Options{}).(*DirectRouter); !ok {
		t.Error("semantic should use the direct router")
	}
	if _, ok := ForFamily(classify.FamilyPattern, p, Options{}).(*PlanRouter); !ok {
		t.Error("pattern should use the plan router")
	}
}

func TestSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := sleep(ctx, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("sleep ignored cancellation")
	}
	if err := sleep(context.Background(), 0.001); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

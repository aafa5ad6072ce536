package linux

import (
	"fmt"
	"strings"
)

// X11 keysym names for the key vocabulary used in plans.
var keysymMap = map[string]string{
	"return": "Return", "enter": "Return", "tab": "Tab", "space": "space",
	"delete": "Delete", "backspace": "BackSpace", "escape": "Escape", "esc": "Escape",
	"up": "Up", "down": "Down", "left": "Left", "right": "Right",
	"home": "Home", "end": "End", "pageup": "Prior", "pagedown": "Next",
	"insert": "Insert", "printscreen": "Print",
	"f1": "F1", "f2": "F2", "f3": "F3", "f4": "F4", "f5": "F5", "f6": "F6",
	"f7": "F7", "f8": "F8", "f9": "F9", "f10": "F10", "f11": "F11", "f12": "F12",
	"/": "slash", "\\": "backslash", ".": "period", ",": "comma", ";": "semicolon",
	"'": "apostrophe", "-": "minus", "=": "equal", "+": "plus", "`": "grave",
	"[": "bracketleft", "]": "bracketright",
	"playpause": "XF86AudioPlay", "play": "XF86AudioPlay", "pause": "XF86AudioPause",
	"nexttrack": "XF86AudioNext", "next": "XF86AudioNext",
	"prevtrack": "XF86AudioPrev", "previous": "XF86AudioPrev",
	"volumeup": "XF86AudioRaiseVolume", "volumedown": "XF86AudioLowerVolume",
	"volumemute": "XF86AudioMute", "mute": "XF86AudioMute",
}

var modifierMap = map[string]string{
	"ctrl": "ctrl", "control": "ctrl",
	"shift": "shift",
	"alt": "alt", "opt": "alt", "option": "alt",
	"win": "super", "super": "super", "cmd": "super", "command": "super", "meta": "super",
}

// keysymFor resolves a single key name; letters and digits pass through.
func keysymFor(k string) (string, bool) {
	if s, ok := keysymMap[k]; ok {
		return s, true
	}
	if len(k) == 1 && (k[0] >= 'a' && k[0] <= 'z' || k[0] >= '0' && k[0] <= '9') {
		return k, true
	}
	return "", false
}

// parseKeyCombo converts ["ctrl", "l"] to the xdotool chord "ctrl+l". A combo
// made only of modifiers taps the last one, so "win" opens the launcher.
func parseKeyCombo(keys []string) (string, error) {
	var mods []string
	key := ""
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if m, ok := modifierMap[k]; ok {
			mods = append(mods, m)
			continue
		}
		if key != "" {
			return "", fmt.Errorf("more than one non-modifier key in combo: %q and %q", key, k)
		}
		s, ok := keysymFor(k)
		if !ok {
			return "", fmt.Errorf("unknown key: %q", k)
		}
		key = s
	}
	if key == "" {
		if len(mods) == 0 {
			return "", fmt.Errorf("empty key combo")
		}
		key = mods[len(mods)-1]
		mods = mods[:len(mods)-1]
	}
	return strings.Join(append(mods, key), "+"), nil
}

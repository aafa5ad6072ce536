package linux

import (
	"strconv"

	"github.com/mj1618/eva/internal/platform"
)

// Inputter implements platform.Inputter with xdotool.
type Inputter struct {
	run runner
}

// NewInputter returns an xdotool-backed Inputter.
func NewInputter(r runner) *Inputter {
	return &Inputter{run: r}
}

func buttonNumber(b platform.MouseButton) string {
	switch b {
	case platform.MouseRight:
		return "3"
	case platform.MouseMiddle:
		return "2"
	default:
		return "1"
	}
}

func clickArgs(button platform.MouseButton, count int) []string {
	if count < 1 {
		count = 1
	}
	return []string{"click", "--repeat", strconv.Itoa(count), buttonNumber(button)}
}

func (i *Inputter) Click(x, y int, button platform.MouseButton, count int) error {
	args := append([]string{"mousemove", "--sync", strconv.Itoa(x), strconv.Itoa(y)}, clickArgs(button, count)...)
	return run(i.run, "xdotool", args...)
}

func (i *Inputter) ClickCurrent(button platform.MouseButton, count int) error {
	return run(i.run, "xdotool", clickArgs(button, count)...)
}

func (i *Inputter) MoveMouse(x, y int) error {
	return run(i.run, "xdotool", "mousemove", "--sync", strconv.Itoa(x), strconv.Itoa(y))
}

// Scroll moves to (x, y) and sends wheel clicks: buttons 4/5 for vertical,
// 6/7 for horizontal. Positive dy scrolls down, positive dx right.
func (i *Inputter) Scroll(x, y int, dx, dy int) error {
	args := []string{"mousemove", "--sync", strconv.Itoa(x), strconv.Itoa(y)}
	if dy != 0 {
		btn, n := "5", dy
		if dy < 0 {
			btn, n = "4", -dy
		}
		args = append(args, "click", "--repeat", strconv.Itoa(n), btn)
	}
	if dx != 0 {
		btn, n := "7", dx
		if dx < 0 {
			btn, n = "6", -dx
		}
		args = append(args, "click", "--repeat", strconv.Itoa(n), btn)
	}
	return run(i.run, "xdotool", args...)
}

func (i *Inputter) TypeText(text string, delayMs int) error {
	if text == "" {
		return nil
	}
	if delayMs <= 0 {
		delayMs = 12
	}
	return run(i.run, "xdotool", "type", "--delay", strconv.Itoa(delayMs), "--", text)
}

func (i *Inputter) KeyCombo(keys []string) error {
	chord, err := parseKeyCombo(keys)
	if err != nil {
		return err
	}
	return run(i.run, "xdotool", "key", "--clearmodifiers", chord)
}

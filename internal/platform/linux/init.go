//go:build linux

package linux

import "github.com/mj1618/eva/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		run := execRunner{}
		if err := requireTools(run, "xdotool"); err != nil {
			return nil, err
		}
		return &platform.Provider{
			Inputter:      NewInputter(run),
			WindowManager: NewWindowManager(run),
			Screenshotter: NewScreenshotter(run),
			System:        NewSystemController(run),
		}, nil
	}
}

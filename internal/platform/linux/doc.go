// Package linux provides X11 desktop support by driving xdotool, pactl,
// brightnessctl, systemctl and a screen grabber as subprocesses.
package linux

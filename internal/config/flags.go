package config

import (
	"github.com/spf13/pflag"
)

// RegisterSessionFlags adds the flags that override session and speech
// settings. Defaults are empty so an unset flag never masks the file.
func RegisterSessionFlags(fs *pflag.FlagSet) {
	fs.String("wake-word", "", "Wake phrase that starts a session (default from config)")
	fs.String("goodbye", "", "Phrase that ends a session (default from config)")
	fs.Duration("session-timeout", 0, "Inactivity timeout of a session (default from config)")
	fs.String("source", "", "Transcript source: stdin or voice (default from config)")
	fs.Bool("no-speak", false, "Do not speak greetings and goodbyes")
}

// ApplySessionFlags copies every flag the user set on fs into c.
func (c *Config) ApplySessionFlags(fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "wake-word":
			c.Session.WakeWord, err = fs.GetString(f.Name)
		case "goodbye":
			c.Session.GoodbyePhrase, err = fs.GetString(f.Name)
		case "session-timeout":
			c.Session.Timeout, err = fs.GetDuration(f.Name)
		case "source":
			c.Speech.Source, err = fs.GetString(f.Name)
		case "no-speak":
			var quiet bool
			quiet, err = fs.GetBool(f.Name)
			c.Session.Speak = !quiet
		}
	})
	return err
}

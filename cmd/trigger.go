package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/mj1618/eva/internal/ipc"
	"github.com/mj1618/eva/internal/output"
	"github.com/spf13/cobra"
)

// TriggerResult is the YAML output of a delivered control message.
type TriggerResult struct {
	OK     bool   `yaml:"ok"             json:"ok"`
	Action string `yaml:"action"         json:"action"`
	Text   string `yaml:"text,omitempty" json:"text,omitempty"`
}

var triggerCmd = &cobra.Command{
	Use:   "trigger [command]",
	Short: "Wake a running listener without the wake word",
	Long: `Send a control message to "eva listen". Without arguments the listener
starts a session as if the wake word had been heard. With a command it also
runs that command. --end closes the active session.

Examples:
  eva trigger
  eva trigger "open spotify"
  eva trigger --end`,
	RunE: runTrigger,
}

func init() {
	rootCmd.AddCommand(triggerCmd)
	triggerCmd.Flags().Bool("end", false, "End the active session")
	triggerCmd.Flags().String("socket", "", "Control socket path (default from config)")
}

func runTrigger(cmd *cobra.Command, args []string) error {
	end, _ := cmd.Flags().GetBool("end")
	socket, _ := cmd.Flags().GetString("socket")
	if socket == "" {
		socket = cfg.Socket
	}

	msg := ipc.ControlMessage{Cmd: ipc.CmdTrigger}
	switch {
	case end:
		msg.Cmd = ipc.CmdEnd
	case len(args) > 0:
		msg = ipc.ControlMessage{Cmd: ipc.CmdSay, Text: strings.Join(args, " ")}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
	defer cancel()
	if err := ipc.Send(ctx, socket, msg); err != nil {
		return err
	}
	return output.Print(TriggerResult{OK: true, Action: msg.Cmd, Text: msg.Text})
}

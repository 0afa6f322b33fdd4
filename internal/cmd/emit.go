package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/focusgate/internal/broadcast"
)

var emitCmd = &cobra.Command{
	Use:   "emit <event> <json>",
	Short: "Append a broadcast to the log (development)",
	Long: `Append a broadcast to the broadcast log, playing the part of the
background process. The payload is validated against the event's shape
before it is written.

Examples:
  focusgate emit siteAdded '{"site":{"id":"s1","host":"news.example","timeLimitMinutes":30}}'
  focusgate emit siteAddedToGroup '{"siteId":"s1","groupId":"g1"}'
  focusgate emit groupDeleted '{"groupId":"g1"}'`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: eventNameStrings(),
	RunE:      runEmit,
}

func init() {
	rootCmd.AddCommand(emitCmd)
}

func eventNameStrings() []string {
	names := broadcast.EventNames()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

// parseBroadcast validates name and payload and returns the typed event.
func parseBroadcast(name, payload string) (broadcast.Event, error) {
	if !broadcast.EventName(name).Known() {
		return nil, fmt.Errorf("unknown event %q\nValid events: %s", name, strings.Join(eventNameStrings(), ", "))
	}
	if !json.Valid([]byte(payload)) {
		return nil, fmt.Errorf("payload for %s is not valid JSON", name)
	}
	return broadcast.Decode(broadcast.Envelope{
		Type:  broadcast.BroadcastType,
		Event: broadcast.EventName(name),
		Data:  json.RawMessage(payload),
	})
}

func runEmit(cmd *cobra.Command, args []string) error {
	ev, err := parseBroadcast(args[0], args[1])
	if err != nil {
		return err
	}

	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	log := broadcast.NewLog(env.broadcastLogPath())
	if err := log.Emit(ev); err != nil {
		return fmt.Errorf("failed to write broadcast: %w", err)
	}
	env.logger.Debug("broadcast emitted", "event", args[0], "path", log.Path())

	fmt.Fprintf(cmd.OutOrStdout(), "Emitted %s: %s\n", ev.Name(), broadcast.Describe(ev))
	return nil
}

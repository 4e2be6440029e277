package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	clementine "github.com/clementine-bot/clementine"
	"github.com/clementine-bot/clementine/internal/config"
	"github.com/clementine-bot/clementine/internal/domain"
	"github.com/clementine-bot/clementine/internal/service"
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Inspect and reset per-room configuration",
}

var roomsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rooms with a custom configuration",
	Args:  cobra.NoArgs,
	RunE: withRooms(func(cmd *cobra.Command, rooms *service.RoomConfigService, args []string) error {
		overrides, err := rooms.List(cmd.Context())
		if err != nil {
			return err
		}
		return printRoomList(cmd.OutOrStdout(), overrides)
	}),
}

var roomsShowCmd = &cobra.Command{
	Use:   "show <room>",
	Short: "Show the effective configuration of a room",
	Args:  cobra.ExactArgs(1),
	RunE: withRooms(func(cmd *cobra.Command, rooms *service.RoomConfigService, args []string) error {
		printRoomView(cmd.OutOrStdout(), rooms.View(cmd.Context(), args[0]))
		return nil
	}),
}

var roomsResetCmd = &cobra.Command{
	Use:   "reset <room>",
	Short: "Remove a room's custom configuration",
	Args:  cobra.ExactArgs(1),
	RunE: withRooms(func(cmd *cobra.Command, rooms *service.RoomConfigService, args []string) error {
		if err := rooms.Reset(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Room %s now uses the default configuration.\n", args[0])
		return nil
	}),
}

func init() {
	roomsCmd.AddCommand(roomsListCmd, roomsShowCmd, roomsResetCmd)
}

type roomsRunFunc func(cmd *cobra.Command, rooms *service.RoomConfigService, args []string) error

// withRooms opens the room store for the duration of one subcommand.
func withRooms(run roomsRunFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		prompts, err := config.LoadPrompts(cfg.PromptsDir, clementine.PromptsFS)
		if err != nil {
			return fmt.Errorf("load prompts: %w", err)
		}
		rooms, closeStore, err := openRooms(cmd.Context(), cfg, prompts)
		if err != nil {
			return err
		}
		defer closeStore()
		return run(cmd, rooms, args)
	}
}

func printRoomList(w io.Writer, overrides map[string]domain.RoomOverride) error {
	if len(overrides) == 0 {
		fmt.Fprintln(w, "No rooms have a custom configuration.")
		return nil
	}

	ids := make([]string, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROOM\tASSISTANTS\tPROMPT\tCONTEXT\tUPDATED")
	for _, id := range ids {
		o := overrides[id]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			id,
			valueOr(o.AssistantList, "-"),
			promptSummary(o.SystemPrompt),
			intOr(o.ContextWindowSize, "-"),
			o.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}
	return tw.Flush()
}

func printRoomView(w io.Writer, v domain.RoomConfigView) {
	source := "defaults"
	if v.HasCustomConfig {
		source = "custom"
	}
	fmt.Fprintf(w, "Room:          %s (%s)\n", v.Config.RoomID, source)
	fmt.Fprintf(w, "Assistants:    %s\n", strings.Join(v.Config.AssistantList, ", "))
	fmt.Fprintf(w, "Context size:  %d (range %d-%d)\n", v.Config.ContextWindowSize, v.Bounds.Min, v.Bounds.Max)
	fmt.Fprintf(w, "System prompt:\n%s\n", v.Config.SystemPrompt)
}

func valueOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func intOr(n *int, def string) string {
	if n == nil {
		return def
	}
	return fmt.Sprint(*n)
}

func promptSummary(p *string) string {
	if p == nil {
		return "-"
	}
	s := strings.Join(strings.Fields(*p), " ")
	if len([]rune(s)) > 40 {
		return string([]rune(s)[:37]) + "..."
	}
	return s
}

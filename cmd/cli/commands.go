package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mauv0809/team-planner/internal/apiclient"
	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/calendar"
	"github.com/mauv0809/team-planner/internal/roster"
	"github.com/spf13/cobra"
)

var (
	date       string
	activeOnly bool
	role       string
	newName    string
	newRole    string
)

func init() {
	rootCmd.AddCommand(healthCmd, windowCmd, playersCmd, markCmd, bulkCmd, showCmd, deleteDayCmd)

	playersCmd.AddCommand(playersListCmd, playersAddCmd, playersEditCmd, playersReorderCmd, playersActivateCmd, playersDeactivateCmd, playersDeleteCmd)
	playersEditCmd.Flags().StringVar(&newName, "name", "", "New name (defaults to the current one)")
	playersEditCmd.Flags().StringVar(&newRole, "role", "", "New role, player or coach (defaults to the current one)")
	playersListCmd.Flags().BoolVar(&activeOnly, "active", false, "Only list active players")
	playersAddCmd.Flags().StringVar(&role, "role", string(roster.RolePlayer), "Role of the new player (player or coach)")

	for _, cmd := range []*cobra.Command{markCmd, bulkCmd, showCmd, deleteDayCmd, watchCmd} {
		cmd.Flags().StringVar(&date, "date", "", "Play day as YYYY-MM-DD (defaults to the next Friday)")
	}
}

func resolveDate() (string, error) {
	if date == "" {
		return calendar.Format(calendar.NextFriday(time.Now())), nil
	}
	if err := availability.ValidateDate(date); err != nil {
		return "", err
	}
	return date, nil
}

// resolvePlayer accepts a player ID or a case-insensitive name.
func resolvePlayer(ctx context.Context, c *apiclient.Client, ref string) (roster.Player, error) {
	players, err := c.GetPlayers(ctx, false)
	if err != nil {
		return roster.Player{}, err
	}
	for _, p := range players {
		if p.ID == ref || strings.EqualFold(p.Name, ref) {
			return p, nil
		}
	}
	return roster.Player{}, fmt.Errorf("no player matches %q", ref)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiclient.New(host)
		if err != nil {
			return err
		}
		if err := c.Health(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	},
}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "List the play days in the current planning window",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		w, err := c.Window(cmd.Context())
		if err != nil {
			return err
		}
		for i, d := range w.Dates {
			marker := " "
			if i == w.Current {
				marker = "*"
			}
			fmt.Printf("%s %s  %-22s %d window(s)\n", marker, d.Date, d.Label, d.Windows)
		}
		return nil
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Manage the team roster",
}

var playersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the roster in display order",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		players, err := c.GetPlayers(cmd.Context(), activeOnly)
		if err != nil {
			return err
		}
		t := table.New().Border(lipgloss.NormalBorder()).Headers("ID", "Name", "Role", "Active")
		for _, p := range players {
			t.Row(p.ID, p.Name, string(p.Role), fmt.Sprint(p.IsActive))
		}
		fmt.Println(t)
		return nil
	},
}

var playersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a player to the roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		p, err := c.AddPlayer(cmd.Context(), args[0], roster.Role(role))
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", p.Name, p.ID)
		return nil
	},
}

var playersEditCmd = &cobra.Command{
	Use:   "edit <player>",
	Short: "Rename a player or change their role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		p, err := resolvePlayer(cmd.Context(), c, args[0])
		if err != nil {
			return err
		}
		name, r := p.Name, p.Role
		if newName != "" {
			name = newName
		}
		if newRole != "" {
			r = roster.Role(newRole)
		}
		return c.UpdatePlayer(cmd.Context(), p.ID, name, r)
	},
}

var playersReorderCmd = &cobra.Command{
	Use:   "reorder <player>...",
	Short: "Set the display order; unlisted players move behind the listed ones",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(args))
		for _, ref := range args {
			p, err := resolvePlayer(cmd.Context(), c, ref)
			if err != nil {
				return err
			}
			ids = append(ids, p.ID)
		}
		players, err := c.Reorder(cmd.Context(), ids)
		if err != nil && players != nil {
			fmt.Println("Reorder failed, current order on the server:")
		}
		for i, p := range players {
			fmt.Printf("%d. %s\n", i+1, p.Name)
		}
		return err
	},
}

func setActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <player>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			p, err := resolvePlayer(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			return c.SetActive(cmd.Context(), p.ID, active)
		},
	}
}

var (
	playersActivateCmd   = setActiveCmd("activate", "Mark a player active for planning", true)
	playersDeactivateCmd = setActiveCmd("deactivate", "Remove a player from planning", false)
)

var playersDeleteCmd = &cobra.Command{
	Use:   "delete <player>",
	Short: "Delete a player and their availability",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		p, err := resolvePlayer(cmd.Context(), c, args[0])
		if err != nil {
			return err
		}
		return c.DeletePlayer(cmd.Context(), p.ID)
	},
}

var markCmd = &cobra.Command{
	Use:   "mark <player> <hour> <status>",
	Short: "Set one hour slot for a player",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := resolveDate()
		if err != nil {
			return err
		}
		status, err := availability.ParseStatus(args[2])
		if err != nil {
			return err
		}
		c, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		p, err := resolvePlayer(cmd.Context(), c, args[0])
		if err != nil {
			return err
		}
		return c.UpdateIndividualStatus(cmd.Context(), p.ID, d, args[1], status)
	},
}

var bulkCmd = &cobra.Command{
	Use:   "bulk <player> <status> [hours...]",
	Short: "Set several hour slots for a player at once (default: the evening hours)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := resolveDate()
		if err != nil {
			return err
		}
		status, err := availability.ParseStatus(args[1])
		if err != nil {
			return err
		}
		hours := args[2:]
		if len(hours) == 0 {
			hours = availability.DefaultHours
		}
		c, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		p, err := resolvePlayer(cmd.Context(), c, args[0])
		if err != nil {
			return err
		}
		return c.UpdateBulkStatus(cmd.Context(), p.ID, d, hours, status)
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the availability grid and play opportunities for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := resolveDate()
		if err != nil {
			return err
		}
		c, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		matrix, err := c.GetAvailabilityForDate(cmd.Context(), d)
		if err != nil {
			return err
		}
		opps, err := c.Opportunities(cmd.Context(), d)
		if err != nil {
			return err
		}
		fmt.Println(calendar.Display(d))
		fmt.Println(renderGrid(matrix))
		if len(opps.Opportunities) == 0 {
			fmt.Println("No play opportunities yet.")
			return nil
		}
		for _, o := range opps.Opportunities {
			fmt.Printf("%s  %d players: %s\n", o.Label, o.PlayerCount, strings.Join(o.Players, ", "))
		}
		return nil
	},
}

var deleteDayCmd = &cobra.Command{
	Use:   "delete-day",
	Short: "Remove every availability record for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := resolveDate()
		if err != nil {
			return err
		}
		c, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		removed, err := c.DeleteDay(cmd.Context(), d)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d records for %s\n", removed, d)
		return nil
	},
}

var statusSymbols = map[availability.Status]string{
	availability.StatusReady:     "✓",
	availability.StatusUncertain: "?",
	availability.StatusUnready:   "✗",
	availability.StatusUnknown:   "·",
}

// renderGrid prints hours as rows and players as columns, including any
// early hours that carry data.
func renderGrid(matrix []availability.PlayerAvailability) string {
	hours := availability.AllHours(nil, matrix)

	headers := []string{"Hour"}
	for _, pa := range matrix {
		headers = append(headers, pa.Player.Name)
	}
	t := table.New().Border(lipgloss.RoundedBorder()).Headers(headers...)
	for _, h := range hours {
		row := []string{h}
		for _, pa := range matrix {
			row = append(row, statusSymbols[pa.StatusAt(h)])
		}
		t.Row(row...)
	}
	return t.String()
}

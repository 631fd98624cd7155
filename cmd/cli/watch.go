package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-planner/internal/calendar"
	"github.com/mauv0809/team-planner/internal/metrics"
	"github.com/mauv0809/team-planner/internal/planner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var pollInterval time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&pollInterval, "interval", planner.DefaultPollInterval, "How often to poll the server")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a play day live and edit it from stdin",
	Long: `Polls the server and prints the grid whenever it changes. Lines read
from stdin edit the day optimistically:

  toggle <player> <hour>   advance one cell to its next status
  bulk <player>            advance all of a player's hours together
  early                    add the next earlier hour
  flush                    send pending edits now`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := resolveDate()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c, err := connect(ctx)
		if err != nil {
			return err
		}

		sched := planner.SystemScheduler{}
		m := metrics.NewService(prometheus.NewRegistry())
		p := planner.New(c, sched, m, []string{d}, planner.Options{PollInterval: pollInterval})
		defer p.Close(context.Background())

		s, _ := p.Session(d)
		unsubscribe := p.Bus().Subscribe(func(e planner.Event) {
			switch e.Kind {
			case planner.EventActivityChanged:
				log.Debug("Activity changed", "active", e.Active)
			case planner.EventDayWiped:
				fmt.Printf("%s was cleared on the server\n", calendar.Display(e.Date))
			case planner.EventRefreshed, planner.EventOverridesChanged, planner.EventFlushSettled:
				if e.Date == "" || e.Date == d {
					printSession(s)
				}
			}
		})
		defer unsubscribe()

		poller := planner.NewPoller(p, sched, pollInterval, m)
		poller.Start(ctx)
		defer poller.Stop()

		lines := make(chan string)
		go func() {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				lines <- scanner.Text()
			}
			close(lines)
		}()

		for {
			select {
			case <-ctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					<-ctx.Done()
					return nil
				}
				if err := handleLine(ctx, s, line); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
			}
		}
	},
}

func handleLine(ctx context.Context, s *planner.Session, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	findID := func(ref string) (string, error) {
		for _, p := range s.Players() {
			if p.ID == ref || strings.EqualFold(p.Name, ref) {
				return p.ID, nil
			}
		}
		return "", fmt.Errorf("no active player matches %q", ref)
	}

	switch fields[0] {
	case "toggle":
		if len(fields) != 3 {
			return fmt.Errorf("usage: toggle <player> <hour>")
		}
		id, err := findID(fields[1])
		if err != nil {
			return err
		}
		if _, err := s.ToggleCell(id, fields[2]); err != nil {
			return err
		}
	case "bulk":
		if len(fields) != 2 {
			return fmt.Errorf("usage: bulk <player>")
		}
		id, err := findID(fields[1])
		if err != nil {
			return err
		}
		s.ToggleBulk(id)
	case "early":
		if h, ok := s.AddEarlyHour(); ok {
			fmt.Printf("Added %s:00\n", h)
		} else {
			fmt.Println("No earlier hour available")
		}
	case "flush":
		s.Flush(ctx)
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
	return nil
}

func printSession(s *planner.Session) {
	fmt.Println(calendar.Display(s.Date()))
	fmt.Println(renderGrid(s.View()))
	opps := s.Opportunities()
	if len(opps) == 0 {
		fmt.Println("No play opportunities yet.")
		return
	}
	for _, o := range opps {
		fmt.Printf("%s  %d players: %s\n", o.Label(), o.PlayerCount, strings.Join(o.Players, ", "))
	}
}

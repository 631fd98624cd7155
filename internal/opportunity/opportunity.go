// Package opportunity finds practice windows: runs of consecutive hours in
// which the same group of at least MinPlayers players is available.
package opportunity

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/roster"
)

const (
	// MinPlayers is the smallest group that makes a practice session.
	MinPlayers = 5
	// MinSpan is the minimum number of hours a window must cover.
	MinSpan = 2
)

// Opportunity is a window of consecutive hours, StartHour through EndHour
// inclusive, during which Players are all available.
type Opportunity struct {
	StartHour   int      `json:"start_hour" msgpack:"start_hour"`
	EndHour     int      `json:"end_hour" msgpack:"end_hour"`
	Players     []string `json:"players" msgpack:"players"`
	PlayerCount int      `json:"player_count" msgpack:"player_count"`
}

// Label renders the window with a half-open end, e.g. "19:00–21:00".
func (o Opportunity) Label() string {
	return fmt.Sprintf("%d:00–%d:00", o.StartHour, o.EndHour+1)
}

// StatusFunc resolves the status of one (player, hour) cell.
type StatusFunc func(playerID, hour string) availability.Status

// Find scans hours (any order, non-numeric labels ignored) and returns every
// qualifying window in ascending order.
func Find(players []roster.Player, hours []string, status StatusFunc) []Opportunity {
	type slot struct {
		hour  int
		label string
	}
	slots := make([]slot, 0, len(hours))
	for _, h := range hours {
		n, err := strconv.Atoi(h)
		if err != nil {
			continue
		}
		slots = append(slots, slot{hour: n, label: h})
	}
	slices.SortFunc(slots, func(a, b slot) int { return a.hour - b.hour })

	var (
		result  []Opportunity
		current *Opportunity
		key     string
	)
	closeBlock := func() {
		if current != nil && current.EndHour-current.StartHour >= MinSpan-1 {
			result = append(result, *current)
		}
		current = nil
		key = ""
	}

	for _, s := range slots {
		names := make([]string, 0, len(players))
		for _, p := range players {
			if status(p.ID, s.label).Available() {
				names = append(names, p.Name)
			}
		}
		if len(names) < MinPlayers {
			closeBlock()
			continue
		}

		setKey := signature(names)
		if current != nil && s.hour == current.EndHour+1 && setKey == key {
			current.EndHour = s.hour
			continue
		}
		closeBlock()
		current = &Opportunity{StartHour: s.hour, EndHour: s.hour, Players: names, PlayerCount: len(names)}
		key = setKey
	}
	closeBlock()
	return result
}

// FindInMatrix scans the authoritative matrix over its displayed hours.
func FindInMatrix(matrix []availability.PlayerAvailability) []Opportunity {
	players := make([]roster.Player, 0, len(matrix))
	byID := make(map[string]availability.PlayerAvailability, len(matrix))
	for _, pa := range matrix {
		players = append(players, pa.Player)
		byID[pa.Player.ID] = pa
	}
	return Find(players, availability.AllHours(nil, matrix), func(playerID, hour string) availability.Status {
		return byID[playerID].StatusAt(hour)
	})
}

// Signature is an order-insensitive fingerprint of a set of windows, used to
// detect whether the opportunities of a day changed.
func Signature(opps []Opportunity) string {
	parts := make([]string, 0, len(opps))
	for _, o := range opps {
		parts = append(parts, fmt.Sprintf("%d-%d:%s", o.StartHour, o.EndHour, signature(o.Players)))
	}
	return strings.Join(parts, ";")
}

func signature(names []string) string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	return strings.Join(sorted, ",")
}

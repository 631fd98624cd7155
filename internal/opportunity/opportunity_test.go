package opportunity

import (
	"testing"

	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	R = availability.StatusReady
	U = availability.StatusUncertain
	N = availability.StatusUnready
)

// matrixOf builds a matrix from per-player hour maps, naming players A, B, C...
func matrixOf(cols ...map[string]availability.Status) []availability.PlayerAvailability {
	matrix := make([]availability.PlayerAvailability, 0, len(cols))
	for i, hours := range cols {
		name := string(rune('A' + i))
		matrix = append(matrix, availability.PlayerAvailability{
			Player: roster.Player{ID: "id-" + name, Name: name},
			Hours:  hours,
		})
	}
	return matrix
}

func TestFind_SetShrinksEndsBlock(t *testing.T) {
	all := map[string]availability.Status{"19": R, "20": R, "21": R}
	matrix := matrixOf(all, all, all,
		map[string]availability.Status{"19": R, "20": R, "21": N},
		all,
	)

	opps := FindInMatrix(matrix)
	require.Len(t, opps, 1)
	assert.Equal(t, 19, opps[0].StartHour)
	assert.Equal(t, 20, opps[0].EndHour)
	assert.Equal(t, 5, opps[0].PlayerCount)
	assert.ElementsMatch(t, []string{"A", "B", "C", "D", "E"}, opps[0].Players)
	assert.Equal(t, "19:00–21:00", opps[0].Label())
}

func TestFind_SingleHourIsDropped(t *testing.T) {
	only19 := map[string]availability.Status{"19": R}
	matrix := matrixOf(only19, only19, only19, only19, only19)
	assert.Empty(t, FindInMatrix(matrix))
}

func TestFind_UncertainCountsAsAvailable(t *testing.T) {
	h := map[string]availability.Status{"20": U, "21": U}
	matrix := matrixOf(h, h, h, h, h)
	opps := FindInMatrix(matrix)
	require.Len(t, opps, 1)
	assert.Equal(t, 20, opps[0].StartHour)
	assert.Equal(t, 21, opps[0].EndHour)
}

func TestFind_SameCountDifferentSetBreaksBlock(t *testing.T) {
	// Six players; at 21 F replaces E, keeping five available.
	early := map[string]availability.Status{"19": R, "20": R, "21": R, "22": R}
	e := map[string]availability.Status{"19": R, "20": R, "21": N, "22": N}
	f := map[string]availability.Status{"19": N, "20": N, "21": R, "22": R}
	matrix := matrixOf(early, early, early, early, e, f)

	opps := FindInMatrix(matrix)
	require.Len(t, opps, 2)
	assert.Equal(t, [2]int{19, 20}, [2]int{opps[0].StartHour, opps[0].EndHour})
	assert.Contains(t, opps[0].Players, "E")
	assert.Equal(t, [2]int{21, 22}, [2]int{opps[1].StartHour, opps[1].EndHour})
	assert.Contains(t, opps[1].Players, "F")
}

func TestFind_GapInHoursNeverMerges(t *testing.T) {
	players := []roster.Player{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}, {ID: "3", Name: "C"}, {ID: "4", Name: "D"}, {ID: "5", Name: "E"}}
	everyoneReady := func(string, string) availability.Status { return R }

	opps := Find(players, []string{"17", "19"}, everyoneReady)
	assert.Empty(t, opps, "17 and 19 are not integer-adjacent")

	opps = Find(players, []string{"20", "17", "19", "16"}, everyoneReady)
	require.Len(t, opps, 2)
	assert.Equal(t, 16, opps[0].StartHour)
	assert.Equal(t, 17, opps[0].EndHour)
	assert.Equal(t, 19, opps[1].StartHour)
	assert.Equal(t, 20, opps[1].EndHour)
}

func TestFind_NoHours(t *testing.T) {
	assert.Empty(t, Find(nil, nil, func(string, string) availability.Status { return R }))
}

func TestFind_UnknownAndUnreadyAreUnavailable(t *testing.T) {
	four := map[string]availability.Status{"19": R, "20": R}
	matrix := matrixOf(four, four, four, four, map[string]availability.Status{"20": N})
	assert.Empty(t, FindInMatrix(matrix))
}

func TestSignature_OrderInsensitive(t *testing.T) {
	a := []Opportunity{{StartHour: 19, EndHour: 20, Players: []string{"B", "A"}}}
	b := []Opportunity{{StartHour: 19, EndHour: 20, Players: []string{"A", "B"}}}
	assert.Equal(t, Signature(a), Signature(b))
	assert.Empty(t, Signature(nil))
}

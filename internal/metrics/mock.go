package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	writes           map[WriteKind]int
	writeFailures    map[WriteKind]int
	flushes          int
	flushDurations   []float64
	polls            int
	pollsSkipped     int
	dayWipes         int
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		writes:        make(map[WriteKind]int),
		writeFailures: make(map[WriteKind]int),
	}
}

func (m *Mock) IncWrites(kind WriteKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes[kind]++
}

func (m *Mock) IncWriteFailures(kind WriteKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeFailures[kind]++
}

func (m *Mock) IncFlushes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
}

func (m *Mock) ObserveFlushDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushDurations = append(m.flushDurations, seconds)
}

func (m *Mock) IncPolls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls++
}

func (m *Mock) IncPollsSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollsSkipped++
}

func (m *Mock) IncDayWipes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dayWipes++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = seconds
}

// Writes returns how many successful writes of kind were recorded.
func (m *Mock) Writes(kind WriteKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[kind]
}

// WriteFailures returns how many failed writes of kind were recorded.
func (m *Mock) WriteFailures(kind WriteKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeFailures[kind]
}

// Flushes returns the number of times IncFlushes was called.
func (m *Mock) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}

// Polls returns the number of times IncPolls was called.
func (m *Mock) Polls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.polls
}

// PollsSkipped returns the number of times IncPollsSkipped was called.
func (m *Mock) PollsSkipped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pollsSkipped
}

// DayWipes returns the number of times IncDayWipes was called.
func (m *Mock) DayWipes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dayWipes
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

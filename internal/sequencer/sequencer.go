// Package sequencer plays a pending message batch to completion: one
// message at a time, assistant text revealed rune by rune, each message
// committed to the transcript only when its animation finishes, and
// options revealed only after the owning message commits.
package sequencer

import (
	"errors"
	"sync"
	"time"

	"righthome-agent/internal/domain"
)

// ErrBusy is returned by Play while a batch is still in flight. Batches
// are never interleaved; callers reject or defer the new send.
var ErrBusy = errors.New("sequencer: batch already active")

// Default pacing.
const (
	DefaultTypeInterval = 15 * time.Millisecond
	DefaultPaceDelay    = 300 * time.Millisecond
)

// idleIndex is the cursor sentinel while no batch is active.
const idleIndex = -1

// State is the playback phase.
type State int

const (
	// StateIdle means no batch is active.
	StateIdle State = iota
	// StateAdvancing means the cursor sits on a pending message that is
	// not currently being typed (user pacing delay).
	StateAdvancing
	// StateTyping means an assistant message is being revealed.
	StateTyping
)

// EventKind discriminates sequencer events.
type EventKind int

const (
	EventTypingStarted EventKind = iota
	EventTypingProgress
	EventCommitted
	EventOptionsRevealed
	EventBatchDone
)

// Event notifies the listener of playback progress. Message is set for
// TypingStarted, Committed, and OptionsRevealed.
type Event struct {
	Kind    EventKind
	Message domain.Message
}

// Sink receives committed messages. *conversation.Store satisfies it.
type Sink interface {
	Append(domain.Message)
}

// Snapshot is a read-only view of the live animation state for the
// presentation layer. TypingMessage is non-nil exactly while the cursor
// sits on an uncommitted assistant message.
type Snapshot struct {
	State          State
	TypingMessage  *domain.Message
	TypedPrefix    string
	OptionsVisible bool
	PendingIndex   int
}

// Sequencer is the playback state machine. All transitions happen under
// one mutex; scheduled callbacks carry a generation number so a timer
// that fires after Cancel can never touch a newer batch.
type Sequencer struct {
	mu sync.Mutex

	sink     Sink
	sched    Scheduler
	listener func(Event)

	typeInterval time.Duration
	paceDelay    time.Duration

	state          State
	batch          []domain.Message
	index          int
	typingMsg      *domain.Message
	typingRunes    []rune
	typed          int
	optionsVisible bool
	cancel         CancelFunc
	gen            uint64

	pending []Event
}

// New creates a Sequencer committing into sink and scheduling on sched.
// listener may be nil. Non-positive intervals fall back to the defaults.
func New(sink Sink, sched Scheduler, listener func(Event), typeInterval, paceDelay time.Duration) (*Sequencer, error) {
	if sink == nil {
		return nil, errors.New("sequencer: sink must not be nil")
	}
	if sched == nil {
		return nil, errors.New("sequencer: scheduler must not be nil")
	}
	if typeInterval <= 0 {
		typeInterval = DefaultTypeInterval
	}
	if paceDelay <= 0 {
		paceDelay = DefaultPaceDelay
	}
	return &Sequencer{
		sink:         sink,
		sched:        sched,
		listener:     listener,
		typeInterval: typeInterval,
		paceDelay:    paceDelay,
		state:        StateIdle,
		index:        idleIndex,
	}, nil
}

// Play starts playback of a batch. An empty batch is a no-op; a batch
// while one is active returns ErrBusy.
func (s *Sequencer) Play(batch []domain.Message) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrBusy
	}
	if len(batch) == 0 {
		s.mu.Unlock()
		return nil
	}
	s.batch = batch
	s.index = 0
	s.advanceLocked()
	s.unlockAndDeliver()
	return nil
}

// Cancel aborts playback: the pending timer is stopped and the machine
// returns to Idle without committing anything further. Used on reset so
// a stale batch cannot commit into a cleared transcript.
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.batch = nil
	s.index = idleIndex
	s.typingMsg = nil
	s.typingRunes = nil
	s.typed = 0
	s.state = StateIdle
	s.mu.Unlock()
}

// Busy reports whether a batch is in flight.
func (s *Sequencer) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != StateIdle
}

// Snapshot returns the live animation state.
func (s *Sequencer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:          s.state,
		OptionsVisible: s.optionsVisible,
		PendingIndex:   s.index,
	}
	if s.typingMsg != nil {
		msg := *s.typingMsg
		snap.TypingMessage = &msg
		snap.TypedPrefix = string(s.typingRunes[:s.typed])
	}
	return snap
}

// advanceLocked moves the cursor onto the message at s.index and acts on
// its role, or finishes the batch when the cursor has run off the end.
func (s *Sequencer) advanceLocked() {
	if s.index >= len(s.batch) {
		s.batch = nil
		s.index = idleIndex
		s.state = StateIdle
		s.pending = append(s.pending, Event{Kind: EventBatchDone})
		return
	}
	msg := s.batch[s.index]
	if msg.Role != domain.RoleAssistant {
		s.state = StateAdvancing
		s.sink.Append(msg)
		s.pending = append(s.pending, Event{Kind: EventCommitted, Message: msg})
		s.scheduleLocked(s.paceDelay, func() {
			s.index++
			s.advanceLocked()
		})
		return
	}

	s.state = StateTyping
	s.typingMsg = &msg
	s.typingRunes = []rune(msg.Content)
	s.typed = 0
	s.optionsVisible = false
	s.pending = append(s.pending, Event{Kind: EventTypingStarted, Message: msg})
	if len(s.typingRunes) == 0 {
		// Empty content completes in zero ticks.
		s.completeTypingLocked()
		return
	}
	s.scheduleLocked(s.typeInterval, s.tickLocked)
}

// tickLocked reveals one more rune, committing on the final one.
func (s *Sequencer) tickLocked() {
	s.typed++
	s.pending = append(s.pending, Event{Kind: EventTypingProgress, Message: *s.typingMsg})
	if s.typed >= len(s.typingRunes) {
		s.completeTypingLocked()
		return
	}
	s.scheduleLocked(s.typeInterval, s.tickLocked)
}

// completeTypingLocked commits the finished message, reveals its options
// if it has any, and advances.
func (s *Sequencer) completeTypingLocked() {
	msg := *s.typingMsg
	s.typingMsg = nil
	s.typingRunes = nil
	s.typed = 0
	s.sink.Append(msg)
	s.pending = append(s.pending, Event{Kind: EventCommitted, Message: msg})
	if msg.HasOptions() {
		s.optionsVisible = true
		s.pending = append(s.pending, Event{Kind: EventOptionsRevealed, Message: msg})
	}
	s.index++
	s.advanceLocked()
}

// scheduleLocked arms the single pending timer. The callback re-acquires
// the lock, checks the generation, runs fn, and delivers whatever events
// fn queued.
func (s *Sequencer) scheduleLocked(d time.Duration, fn func()) {
	gen := s.gen
	s.cancel = s.sched.After(d, func() {
		s.mu.Lock()
		if s.gen != gen || s.state == StateIdle {
			s.mu.Unlock()
			return
		}
		s.cancel = nil
		fn()
		s.unlockAndDeliver()
	})
}

// unlockAndDeliver flushes queued events to the listener outside the
// lock, so a listener may call back into the sequencer.
func (s *Sequencer) unlockAndDeliver() {
	events := s.pending
	s.pending = nil
	s.mu.Unlock()
	if s.listener == nil {
		return
	}
	for _, ev := range events {
		s.listener(ev)
	}
}

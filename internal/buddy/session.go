package buddy

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "trade-buddy/internal/errors"
	"trade-buddy/internal/logging"
	"trade-buddy/internal/models"
)

// State is the observable state of a chat session.
type State int

const (
	StateIdle State = iota
	StateComposing
)

func (s State) String() string {
	if s == StateComposing {
		return "composing"
	}
	return "idle"
}

// TradeSource supplies the current trade history, oldest first.
type TradeSource interface {
	Trades() []models.Trade
}

// TradeSlice adapts a fixed slice to TradeSource.
type TradeSlice []models.Trade

func (t TradeSlice) Trades() []models.Trade { return t }

// Session is one buddy conversation. It handles a single turn at a time:
// a submission while a reply is being composed is refused.
type Session struct {
	mu       sync.Mutex
	state    State
	messages []models.ChatMessage

	trades    TradeSource
	responder *Responder
	rnd       Random
	clock     Clock
	base      time.Duration
	jitter    time.Duration
	greeting  string
	onState   func(State)
	logger    zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithRandom sets the randomness used for typing jitter and generic replies.
func WithRandom(rnd Random) Option {
	return func(s *Session) { s.rnd = rnd }
}

// WithClock sets the clock used for the typing delay.
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithTypingDelay sets the composing delay to base plus up to jitter.
func WithTypingDelay(base, jitter time.Duration) Option {
	return func(s *Session) {
		s.base = base
		s.jitter = jitter
	}
}

// WithGreeting opens the session with an ai message.
func WithGreeting(text string) Option {
	return func(s *Session) { s.greeting = text }
}

// WithStateListener is called after every state transition, outside the
// session lock.
func WithStateListener(fn func(State)) Option {
	return func(s *Session) { s.onState = fn }
}

// WithLogger sets the session logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.logger = logging.WithComponent(logger, "buddy") }
}

// NewSession creates an idle session reading history from trades.
func NewSession(trades TradeSource, opts ...Option) *Session {
	s := &Session{
		trades: trades,
		base:   time.Second,
		jitter: time.Second,
		clock:  SystemClock(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = NewRandom()
	}
	if s.trades == nil {
		s.trades = TradeSlice(nil)
	}
	s.responder = NewResponder(s.rnd)
	if g := strings.TrimSpace(s.greeting); g != "" {
		s.messages = append(s.messages, models.ChatMessage{Role: models.RoleAI, Text: g})
	}
	return s
}

// Submit runs one chat turn. Blank input is ignored and returns (nil, nil).
// Otherwise the user message is appended, the session composes for the
// typing delay, and the ai reply is appended and returned.
func (s *Session) Submit(text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	s.mu.Lock()
	if s.state == StateComposing {
		s.mu.Unlock()
		return nil, apperrors.ErrComposing
	}
	s.messages = append(s.messages, models.ChatMessage{Role: models.RoleUser, Text: text})
	s.state = StateComposing
	s.mu.Unlock()
	s.notify(StateComposing)

	delay := s.typingDelay()
	<-s.clock.After(delay)

	ctx := BuildContext(Classify(text), s.trades.Trades(), text)
	reply := models.ChatMessage{Role: models.RoleAI, Text: s.responder.Render(ctx)}

	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.state = StateIdle
	s.mu.Unlock()
	s.notify(StateIdle)

	logging.LogChatTurn(s.logger, ctx.Emotion.String(), ctx.Symbol, ctx.LossStreak, delay)
	return &reply, nil
}

func (s *Session) typingDelay() time.Duration {
	delay := s.base
	if ms := int(s.jitter / time.Millisecond); ms > 0 {
		delay += time.Duration(s.rnd.Intn(ms)) * time.Millisecond
	}
	return delay
}

func (s *Session) notify(st State) {
	if s.onState != nil {
		s.onState(st)
	}
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns a copy of the conversation so far.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

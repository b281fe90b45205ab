package buddy

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trade-buddy/internal/errors"
	"trade-buddy/internal/models"
)

// instantClock fires immediately and records every requested delay.
type instantClock struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (c *instantClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.delays = append(c.delays, d)
	c.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

// gateClock blocks until release is closed.
type gateClock struct {
	release chan time.Time
}

func (c *gateClock) After(time.Duration) <-chan time.Time {
	return c.release
}

func TestSubmitBlankIsNoop(t *testing.T) {
	clock := &instantClock{}
	s := NewSession(nil, WithClock(clock), WithRandom(&fixedRand{}))

	for _, in := range []string{"", "   ", "\t\n"} {
		msg, err := s.Submit(in)
		assert.NoError(t, err)
		assert.Nil(t, msg)
	}
	assert.Empty(t, s.Messages())
	assert.Empty(t, clock.delays)
	assert.Equal(t, StateIdle, s.State())
}

func TestSubmitRevengeTurn(t *testing.T) {
	clock := &instantClock{}
	rnd := &fixedRand{vals: []int{250}}
	trades := TradeSlice{
		{Symbol: "EURUSD", Outcome: models.OutcomeLoss, Responses: models.Responses{models.QuestionRevenge: models.YesNo(true)}},
	}
	s := NewSession(trades,
		WithClock(clock),
		WithRandom(rnd),
		WithTypingDelay(time.Second, time.Second),
	)

	reply, err := s.Submit("  I want to revenge trade EURUSD  ")
	require.NoError(t, err)
	require.NotNil(t, reply)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.ChatMessage{Role: models.RoleUser, Text: "I want to revenge trade EURUSD"}, msgs[0])
	assert.Equal(t, models.RoleAI, msgs[1].Role)
	assert.Equal(t, *reply, msgs[1])
	assert.Contains(t, reply.Text, "revenge trading")
	assert.Contains(t, reply.Text, "flagged 1 revenge trades")
	assert.NotContains(t, reply.Text, "WANT")

	// base + jitter drawn from [0, 1000) ms.
	assert.Equal(t, []time.Duration{1250 * time.Millisecond}, clock.delays)
	assert.Equal(t, []int{1000}, rnd.calls)
	assert.Equal(t, StateIdle, s.State())
}

func TestSubmitGenericUsesSharedRandom(t *testing.T) {
	clock := &instantClock{}
	rnd := &fixedRand{vals: []int{10, 3}}
	s := NewSession(nil, WithClock(clock), WithRandom(rnd), WithTypingDelay(500*time.Millisecond, 100*time.Millisecond))

	reply, err := s.Submit("hello")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{510 * time.Millisecond}, clock.delays)
	assert.Equal(t, []int{100, GenericTemplateCount()}, rnd.calls)
	assert.Equal(t, "Before you trade HELLO, ask yourself: is this setup in your plan?", reply.Text)
}

func TestSubmitNoJitter(t *testing.T) {
	clock := &instantClock{}
	rnd := &fixedRand{}
	s := NewSession(nil, WithClock(clock), WithRandom(rnd), WithTypingDelay(0, 0))

	_, err := s.Submit("I'm scared")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{0}, clock.delays)
	assert.Empty(t, rnd.calls)
}

func TestGreeting(t *testing.T) {
	s := NewSession(nil, WithGreeting("hi there"), WithClock(&instantClock{}))
	assert.Equal(t, []models.ChatMessage{{Role: models.RoleAI, Text: "hi there"}}, s.Messages())

	blank := NewSession(nil, WithGreeting("   "))
	assert.Empty(t, blank.Messages())
}

func TestSubmitWhileComposingIsRefused(t *testing.T) {
	clock := &gateClock{release: make(chan time.Time)}
	composing := make(chan struct{})
	var states []State
	var mu sync.Mutex

	s := NewSession(nil,
		WithClock(clock),
		WithRandom(&fixedRand{}),
		WithStateListener(func(st State) {
			mu.Lock()
			states = append(states, st)
			mu.Unlock()
			if st == StateComposing {
				close(composing)
			}
		}),
	)

	done := make(chan *models.ChatMessage)
	go func() {
		reply, _ := s.Submit("first")
		done <- reply
	}()

	<-composing
	assert.Equal(t, StateComposing, s.State())

	msg, err := s.Submit("second")
	assert.ErrorIs(t, err, apperrors.ErrComposing)
	assert.Nil(t, msg)
	require.Len(t, s.Messages(), 1, "refused submission appends nothing")

	close(clock.release)
	reply := <-done
	require.NotNil(t, reply)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, models.RoleAI, msgs[1].Role)

	mu.Lock()
	assert.Equal(t, []State{StateComposing, StateIdle}, states)
	mu.Unlock()
	assert.Equal(t, "idle", s.State().String())
}

func TestMessagesReturnsCopy(t *testing.T) {
	s := NewSession(nil, WithGreeting("hello"))
	msgs := s.Messages()
	msgs[0].Text = "changed"
	assert.Equal(t, "hello", s.Messages()[0].Text)
}

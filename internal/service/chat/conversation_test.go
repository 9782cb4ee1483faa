package chat_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/career-companion/backend/internal/analysis/intent"
	model "github.com/zhouzirui/career-companion/backend/internal/model/chat"
	"github.com/zhouzirui/career-companion/backend/internal/model/reply"
	chat "github.com/zhouzirui/career-companion/backend/internal/service/chat"
)

type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	sched   *manualScheduler
	delay   time.Duration
	fn      func()
	done    bool
	stopped bool
}

func (s *manualScheduler) Schedule(d time.Duration, fn func()) chat.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{sched: s, delay: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.done || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// fire runs every callback that is neither stopped nor already fired.
func (s *manualScheduler) fire() int {
	s.mu.Lock()
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.done && !t.stopped {
			t.done = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
	return len(due)
}

func (s *manualScheduler) lastDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timers[len(s.timers)-1].delay
}

func newConversation(t *testing.T, opts ...chat.Option) (*chat.Conversation, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	conv := chat.NewConversation("session-1", reply.Seed(), append([]chat.Option{chat.WithScheduler(sched)}, opts...)...)
	t.Cleanup(conv.Close)
	return conv, sched
}

func TestConversationStartsWithWelcome(t *testing.T) {
	conv, _ := newConversation(t)

	transcript := conv.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, model.SenderAssistant, transcript[0].Sender)
	assert.Equal(t, reply.Seed().Welcome, transcript[0].Text)
	assert.Equal(t, "session-1", transcript[0].SessionID)
	assert.False(t, conv.Pending())
	assert.Len(t, conv.SuggestedPrompts(), 6)
}

func TestSubmitRejectsBlankText(t *testing.T) {
	conv, sched := newConversation(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := conv.Submit(context.Background(), text)
		require.ErrorIs(t, err, chat.ErrEmptyMessage)
	}
	assert.Len(t, conv.Transcript(), 1)
	assert.False(t, conv.Pending())
	assert.Zero(t, sched.fire())
}

func TestSubmitAppendsUserThenAssistant(t *testing.T) {
	conv, sched := newConversation(t)
	ctx := context.Background()

	turn, err := conv.Submit(ctx, "skills please")
	require.NoError(t, err)

	transcript := conv.Transcript()
	require.Len(t, transcript, 2)
	last := transcript[1]
	assert.Equal(t, model.SenderUser, last.Sender)
	assert.Equal(t, "skills please", last.Text)
	assert.Equal(t, turn.User.ID, last.ID)
	assert.True(t, conv.Pending())

	require.Equal(t, 1, sched.fire())

	transcript = conv.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, model.SenderAssistant, transcript[2].Sender)
	assert.Equal(t, reply.Seed().Table.Resolve(intent.Skills), transcript[2].Text)
	assert.Equal(t, "skills", transcript[2].Intent)
	assert.False(t, conv.Pending())

	got, err := turn.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, transcript[2], got)
}

func TestSubmitWhilePendingIsRejected(t *testing.T) {
	conv, sched := newConversation(t)
	ctx := context.Background()

	_, err := conv.Submit(ctx, "What projects should I build?")
	require.NoError(t, err)

	_, err = conv.Submit(ctx, "and internships?")
	require.ErrorIs(t, err, chat.ErrReplyPending)
	assert.Len(t, conv.Transcript(), 2)

	sched.fire()
	_, err = conv.Submit(ctx, "and internships?")
	require.NoError(t, err)

	transcript := conv.Transcript()
	require.Len(t, transcript, 4)
	assert.Equal(t, model.SenderAssistant, transcript[2].Sender)
	assert.Equal(t, "and internships?", transcript[3].Text)
}

func TestPlacementScenario(t *testing.T) {
	conv, sched := newConversation(t)

	_, err := conv.Submit(context.Background(), "How can I prepare for placements?")
	require.NoError(t, err)
	sched.fire()

	transcript := conv.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, reply.Seed().Welcome, transcript[0].Text)
	assert.Equal(t, model.SenderUser, transcript[1].Sender)
	assert.Equal(t, "How can I prepare for placements?", transcript[1].Text)
	assert.Equal(t, model.SenderAssistant, transcript[2].Sender)
	assert.Equal(t, reply.Seed().Table.Resolve(intent.Placement), transcript[2].Text)
}

func TestSubmitTrimsText(t *testing.T) {
	conv, _ := newConversation(t)

	turn, err := conv.Submit(context.Background(), "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", turn.User.Text)
}

func TestSuggestedPromptsHiddenAfterFirstMessage(t *testing.T) {
	conv, sched := newConversation(t)

	prompts := conv.SuggestedPrompts()
	require.NotEmpty(t, prompts)

	_, err := conv.Submit(context.Background(), prompts[1])
	require.NoError(t, err)
	assert.Nil(t, conv.SuggestedPrompts())

	sched.fire()
	transcript := conv.Transcript()
	assert.Equal(t, reply.Seed().Table.Resolve(intent.Internship), transcript[2].Text)
}

func TestReplyDelayIsConfigurable(t *testing.T) {
	conv, sched := newConversation(t)
	_, err := conv.Submit(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, chat.DefaultReplyDelay, sched.lastDelay())

	conv2, sched2 := newConversation(t, chat.WithReplyDelay(50*time.Millisecond))
	_, err = conv2.Submit(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, sched2.lastDelay())
}

func TestCloseCancelsPendingReply(t *testing.T) {
	conv, sched := newConversation(t)
	ctx := context.Background()

	turn, err := conv.Submit(ctx, "career advice")
	require.NoError(t, err)

	conv.Close()
	assert.Zero(t, sched.fire())
	assert.Len(t, conv.Transcript(), 2)
	assert.False(t, conv.Pending())

	_, err = turn.Wait(ctx)
	require.ErrorIs(t, err, chat.ErrClosed)

	_, err = conv.Submit(ctx, "anyone?")
	require.ErrorIs(t, err, chat.ErrClosed)
}

func TestTurnWaitHonoursContext(t *testing.T) {
	conv, _ := newConversation(t)

	turn, err := conv.Submit(context.Background(), "hello")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = turn.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, conv.Pending())
}

func TestClockSchedulerDeliversReply(t *testing.T) {
	conv := chat.NewConversation("clock", reply.Seed(), chat.WithReplyDelay(5*time.Millisecond))
	defer conv.Close()

	turn, err := conv.Submit(context.Background(), "I need coding practice")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msg, err := turn.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, reply.Seed().Table.Resolve(intent.Coding), msg.Text)
	assert.False(t, conv.Pending())
}

func TestTranscriptIsACopy(t *testing.T) {
	conv, _ := newConversation(t)

	transcript := conv.Transcript()
	transcript[0].Text = "changed"
	assert.Equal(t, reply.Seed().Welcome, conv.Transcript()[0].Text)
}

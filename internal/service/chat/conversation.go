package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/career-companion/backend/internal/analysis/intent"
	"github.com/zhouzirui/career-companion/backend/internal/model/chat"
	"github.com/zhouzirui/career-companion/backend/internal/model/reply"
)

// DefaultReplyDelay is how long the assistant "thinks" before answering.
const DefaultReplyDelay = 800 * time.Millisecond

var (
	ErrEmptyMessage = errors.New("message text is empty")
	ErrReplyPending = errors.New("assistant reply is still pending")
	ErrClosed       = errors.New("conversation closed")
)

// Option customizes a Conversation.
type Option func(*Conversation)

// WithReplyDelay overrides DefaultReplyDelay. Negative values are treated as zero.
func WithReplyDelay(d time.Duration) Option {
	return func(c *Conversation) {
		if d < 0 {
			d = 0
		}
		c.delay = d
	}
}

// WithScheduler replaces the runtime timer, mostly for tests.
func WithScheduler(s Scheduler) Option {
	return func(c *Conversation) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithClock sets the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Conversation) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Conversation) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Conversation drives a single chat session. The transcript only grows, and
// at most one assistant reply is outstanding at any time.
type Conversation struct {
	id        string
	catalog   reply.Catalog
	delay     time.Duration
	scheduler Scheduler
	now       func() time.Time
	logger    *zap.Logger

	mu        sync.Mutex
	messages  []chat.Message
	userCount int
	pending   *Turn
	timer     Timer
	closed    bool
}

// NewConversation creates a conversation seeded with the catalog's welcome
// message.
func NewConversation(id string, catalog reply.Catalog, opts ...Option) *Conversation {
	c := &Conversation{
		id:        id,
		catalog:   catalog,
		delay:     DefaultReplyDelay,
		scheduler: ClockScheduler{},
		now:       func() time.Time { return time.Now().UTC() },
		logger:    zap.NewNop(),
		messages:  make([]chat.Message, 0, 16),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("session_id", id))

	c.messages = append(c.messages, c.newMessage(chat.SenderAssistant, catalog.Welcome, ""))
	return c
}

// ID returns the session identifier.
func (c *Conversation) ID() string {
	return c.id
}

// Submit appends the user's message and schedules the assistant reply.
// Blank text returns ErrEmptyMessage and a submission while a reply is
// outstanding returns ErrReplyPending; neither touches the transcript.
func (c *Conversation) Submit(_ context.Context, text string) (*Turn, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if c.pending != nil {
		return nil, ErrReplyPending
	}

	userMsg := c.newMessage(chat.SenderUser, trimmed, "")
	c.messages = append(c.messages, userMsg)
	c.userCount++

	turn := newTurn(userMsg)
	c.pending = turn
	c.timer = c.scheduler.Schedule(c.delay, func() { c.deliver(turn) })

	c.logger.Debug("user message accepted", zap.String("message_id", userMsg.ID))
	return turn, nil
}

func (c *Conversation) deliver(turn *Turn) {
	decision := intent.Explain(turn.User.Text)
	text := c.catalog.Table.Resolve(decision.Intent)

	c.mu.Lock()
	if c.closed || c.pending != turn {
		c.mu.Unlock()
		return
	}
	assistantMsg := c.newMessage(chat.SenderAssistant, text, decision.Intent.String())
	c.messages = append(c.messages, assistantMsg)
	c.pending = nil
	c.timer = nil
	c.mu.Unlock()

	turn.finish(assistantMsg, nil)
	c.logger.Info("assistant replied",
		zap.String("intent", decision.Intent.String()),
		zap.String("keyword", decision.Keyword),
	)
}

// Transcript returns the messages in insertion order.
func (c *Conversation) Transcript() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := make([]chat.Message, len(c.messages))
	copy(copied, c.messages)
	return copied
}

// Pending reports whether an assistant reply is outstanding.
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// SuggestedPrompts returns the starter prompts until the user sends the
// first message, nil afterwards.
func (c *Conversation) SuggestedPrompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userCount > 0 {
		return nil
	}
	return c.catalog.SuggestedPrompts()
}

// Close ends the conversation. A scheduled reply is cancelled and its Turn
// completes with ErrClosed.
func (c *Conversation) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	turn, timer := c.pending, c.timer
	c.pending, c.timer = nil, nil
	c.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if turn != nil {
		turn.finish(chat.Message{}, ErrClosed)
	}
}

func (c *Conversation) newMessage(sender chat.Sender, text, label string) chat.Message {
	return chat.Message{
		ID:        uuid.NewString(),
		SessionID: c.id,
		Sender:    sender,
		Text:      text,
		Intent:    label,
		CreatedAt: c.now(),
	}
}

// Turn is one user submission and its eventual assistant reply.
type Turn struct {
	User chat.Message

	done  chan struct{}
	once  sync.Once
	reply chat.Message
	err   error
}

func newTurn(user chat.Message) *Turn {
	return &Turn{User: user, done: make(chan struct{})}
}

// Done is closed once the reply is appended or the conversation closes.
func (t *Turn) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the assistant reply is available.
func (t *Turn) Wait(ctx context.Context) (chat.Message, error) {
	select {
	case <-t.done:
		return t.reply, t.err
	case <-ctx.Done():
		return chat.Message{}, ctx.Err()
	}
}

func (t *Turn) finish(msg chat.Message, err error) {
	t.once.Do(func() {
		t.reply = msg
		t.err = err
		close(t.done)
	})
}

package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/career-companion/backend/internal/model/chat"
	"github.com/zhouzirui/career-companion/backend/internal/model/reply"
)

var ErrSessionNotFound = errors.New("session not found")

// Service encapsulates conversation state management.
type Service struct {
	catalog reply.Catalog
	opts    []Option
	logger  *zap.Logger

	mu       sync.RWMutex
	sessions map[string]chat.Session
	convs    map[string]*Conversation
}

// NewService bootstraps the in-memory chat service. Options are applied to
// every conversation it creates.
func NewService(catalog reply.Catalog, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog:  catalog,
		opts:     append([]Option{WithLogger(logger)}, opts...),
		logger:   logger,
		sessions: make(map[string]chat.Session),
		convs:    make(map[string]*Conversation),
	}
}

// CreateSession provisions an anonymous session with a seeded welcome message.
func (s *Service) CreateSession(_ context.Context) chat.Session {
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	conv := NewConversation(session.ID, s.catalog, s.opts...)

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.convs[session.ID] = conv
	s.mu.Unlock()

	s.logger.Info("chat session created", zap.String("session_id", session.ID))
	return session
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Conversation returns the controller bound to sessionID.
func (s *Service) Conversation(sessionID string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.convs[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return conv, nil
}

// Submit forwards text to the session's conversation.
func (s *Service) Submit(ctx context.Context, sessionID, text string) (*Turn, error) {
	conv, err := s.Conversation(sessionID)
	if err != nil {
		return nil, err
	}
	return conv.Submit(ctx, text)
}

// LoadTranscript returns the messages for the provided session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	conv, err := s.Conversation(sessionID)
	if err != nil {
		return nil, err
	}
	return conv.Transcript(), nil
}

// SuggestedPrompts returns the catalog's starter prompts.
func (s *Service) SuggestedPrompts() []string {
	return s.catalog.SuggestedPrompts()
}

// EndSession discards the session and its transcript.
func (s *Service) EndSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	conv, ok := s.convs[sessionID]
	if ok {
		delete(s.convs, sessionID)
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	conv.Close()
	s.logger.Info("chat session ended", zap.String("session_id", sessionID))
	return nil
}

// Close ends every open session.
func (s *Service) Close() {
	s.mu.Lock()
	convs := s.convs
	s.convs = make(map[string]*Conversation)
	s.sessions = make(map[string]chat.Session)
	s.mu.Unlock()

	for _, conv := range convs {
		conv.Close()
	}
}

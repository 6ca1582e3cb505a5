package ask

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/papercomputeco/askstream/pkg/llm"
)

// Turn is one message of a Session.
type Turn struct {
	ID      uuid.UUID
	Role    string
	Content string
}

// Asker is the part of Client a Session needs.
type Asker interface {
	Ask(ctx context.Context, messages []llm.Message, onDelta func(string)) (string, error)
}

// Session keeps the history of a conversation and sends it with every
// question. It is not safe for concurrent use.
type Session struct {
	asker Asker
	turns []Turn
}

// NewSession returns a Session that starts from the given turns.
func NewSession(asker Asker, turns ...Turn) *Session {
	return &Session{
		asker: asker,
		turns: append([]Turn(nil), turns...),
	}
}

// Ask appends question as a user turn and asks with the full history. On
// success the answer is appended as an assistant turn. On failure the user
// turn is removed again so the question can be retried, and the partial
// answer is returned with the error.
func (s *Session) Ask(ctx context.Context, question string, onDelta func(string)) (string, error) {
	if question == "" {
		return "", errors.New("question is empty")
	}

	s.turns = append(s.turns, Turn{
		ID:      uuid.New(),
		Role:    llm.RoleUser,
		Content: question,
	})

	answer, err := s.asker.Ask(ctx, s.Messages(), onDelta)
	if err != nil {
		s.turns = s.turns[:len(s.turns)-1]
		return answer, err
	}

	s.turns = append(s.turns, Turn{
		ID:      uuid.New(),
		Role:    llm.RoleAssistant,
		Content: answer,
	})
	return answer, nil
}

// Messages returns the history in request form.
func (s *Session) Messages() []llm.Message {
	messages := make([]llm.Message, 0, len(s.turns))
	for _, t := range s.turns {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}
	return messages
}

// Turns returns a copy of the history.
func (s *Session) Turns() []Turn {
	return append([]Turn(nil), s.turns...)
}

// Len returns the number of turns.
func (s *Session) Len() int {
	return len(s.turns)
}

// Reset clears the history.
func (s *Session) Reset() {
	s.turns = nil
}

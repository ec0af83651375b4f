//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"forum-chat/contract"
	"forum-chat/domain"
	"forum-chat/errors"
	"forum-chat/repositories"
)

type IChatService interface {
	PostMessage(ctx context.Context, cmd domain.SendCommand) (domain.Message, error)
	Conversation(ctx context.Context, currentUserID, counterpartID int64) ([]domain.Message, error)
}

type ChatService struct {
	log       *slog.Logger
	repo      repositories.IMessageRepository
	publisher contract.Publisher
	validate  *validator.Validate
}

func NewChatService(log *slog.Logger, repo repositories.IMessageRepository,
	publisher contract.Publisher) *ChatService {
	return &ChatService{
		log:       log,
		repo:      repo,
		publisher: publisher,
		validate:  validator.New(),
	}
}

// PostMessage persists the message, then fans it out to both participants'
// inbound channels. The sender receives their own copy through the channel
// (the echo); clients never insert locally on send.
func (s *ChatService) PostMessage(ctx context.Context, cmd domain.SendCommand) (domain.Message, error) {
	cmd.Body = strings.TrimSpace(cmd.Body)
	if err := s.validate.Struct(cmd); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err)
	}

	msg := domain.Message{
		ID:         uuid.NewString(),
		SenderID:   cmd.SenderID,
		ReceiverID: cmd.ReceiverID,
		Body:       cmd.Body,
		SenderName: cmd.SenderName,
		SentAt:     time.Now().UTC(),
	}

	// Persist first: the channels must only ever carry durable messages.
	if err := s.repo.StoreMessage(msg); err != nil {
		return domain.Message{}, err
	}

	channels := []string{domain.InboundChannel(cmd.ReceiverID)}
	if cmd.SenderID != cmd.ReceiverID {
		channels = append(channels, domain.InboundChannel(cmd.SenderID))
	}
	for _, channel := range channels {
		if err := s.publisher.Publish(ctx, channel, msg); err != nil {
			// The message is already durable; a missed live delivery is
			// recovered by the next history load.
			s.log.Warn("Fan-out failed", "channel", channel, "err", err)
		}
	}

	return msg, nil
}

func (s *ChatService) Conversation(ctx context.Context, currentUserID, counterpartID int64) ([]domain.Message, error) {
	return s.repo.Conversation(currentUserID, counterpartID)
}

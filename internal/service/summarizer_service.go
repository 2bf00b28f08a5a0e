package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"collabnote-be/internal/dto"
	"collabnote-be/internal/repository/specification"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/pkg/textstat"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type ISummarizerService interface {
	Consume(ctx context.Context) error
}

// summarizerService derives the summary and insight strings for a note
// off the request path. The derivation is deterministic, so replays are
// harmless.
type summarizerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewSummarizerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) ISummarizerService {
	return &summarizerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *summarizerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *summarizerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.SummarizeNoteMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal summarize message: %v", err)
		msg.Ack() // malformed messages never become valid, do not retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	for attempt := 0; attempt < maxLockRetries; attempt++ {
		note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: payload.NoteId})
		if err != nil {
			log.Printf("[ERROR] Failed to load note %s: %v", payload.NoteId, err)
			msg.Nack()
			return
		}
		if note == nil {
			// Deleted before we got to it.
			msg.Ack()
			return
		}

		now := time.Now()
		note.AiSummary = textstat.Summarize(note.Content, 0, 0)
		note.AiInsights = textstat.Insights(note.Content)
		note.Metadata.LastSummarized = &now
		note.UpdatedAt = &now

		ok, err := uow.NoteRepository().UpdateLocked(ctx, note, note.LockVersion)
		if err != nil {
			log.Printf("[ERROR] Failed to store summary for note %s: %v", payload.NoteId, err)
			msg.Nack()
			return
		}
		if ok {
			msg.Ack()
			return
		}
		// A writer beat us; reload and summarize the newer content.
	}

	log.Printf("[WARN] Gave up summarizing note %s after repeated write races", payload.NoteId)
	msg.Nack()
}

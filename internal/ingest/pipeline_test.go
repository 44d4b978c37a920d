package ingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/coletorbot/internal/database"
	"github.com/edgard/coletorbot/internal/ingest"
)

// fakeStore implements database.Store for pipeline tests, capturing the rows
// handed to RecordMessage.
type fakeStore struct {
	inserted  bool
	assignID  int64
	recordErr error

	calls       int
	lastUser    *database.User
	lastChat    *database.Chat
	lastMessage *database.Message
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) RecordMessage(_ context.Context, user *database.User, chat *database.Chat, message *database.Message) (bool, error) {
	f.calls++
	f.lastUser = user
	f.lastChat = chat
	f.lastMessage = message
	if f.recordErr != nil {
		return false, f.recordErr
	}
	if f.inserted {
		message.ID = f.assignID
	}
	return f.inserted, nil
}

func (f *fakeStore) GetRecentMessagesInChat(context.Context, int64, int) ([]database.Message, error) {
	return nil, nil
}

func (f *fakeStore) CountMessages(context.Context) (int64, error) { return 0, nil }

func (f *fakeStore) CountMessagesInChat(context.Context, int64) (int64, error) { return 0, nil }

func (f *fakeStore) RunSQLMaintenance(context.Context) error { return nil }

func sampleMessage() *models.Message {
	return &models.Message{
		ID:   101,
		Date: 1700000000,
		From: &models.User{
			ID:        555,
			Username:  "alice",
			FirstName: "Alice",
			LastName:  "Smith",
		},
		Chat: models.Chat{
			ID:    -1001378056746,
			Title: "Monitored Group",
			Type:  "supergroup",
		},
		Text: "hello",
	}
}

func TestIngestMissingSender(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	p := ingest.NewPipeline(store, nil, time.Second)

	msg := sampleMessage()
	msg.From = nil

	outcome := p.Ingest(context.Background(), msg)
	if outcome.Status != ingest.StatusRejected || outcome.Reason != ingest.ReasonMissingSender {
		t.Fatalf("outcome = %+v, want rejected/missing_sender", outcome)
	}
	if store.calls != 0 {
		t.Errorf("store called %d times, want 0", store.calls)
	}
}

func TestIngestEmptyContent(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	p := ingest.NewPipeline(store, nil, time.Second)

	msg := sampleMessage()
	msg.Text = ""

	outcome := p.Ingest(context.Background(), msg)
	if outcome.Status != ingest.StatusRejected || outcome.Reason != ingest.ReasonEmptyContent {
		t.Fatalf("outcome = %+v, want rejected/empty_content", outcome)
	}
	if store.calls != 0 {
		t.Errorf("store called %d times, want 0", store.calls)
	}
}

func TestIngestRecorded(t *testing.T) {
	t.Parallel()

	store := &fakeStore{inserted: true, assignID: 7}
	p := ingest.NewPipeline(store, nil, time.Second)

	outcome := p.Ingest(context.Background(), sampleMessage())
	if outcome.Status != ingest.StatusRecorded {
		t.Fatalf("outcome = %+v, want recorded", outcome)
	}
	if outcome.MessageID != 7 {
		t.Errorf("MessageID = %d, want 7", outcome.MessageID)
	}

	user := store.lastUser
	if user == nil || user.ID != 555 || user.FirstName != "Alice" {
		t.Fatalf("user = %+v, want ID 555 / Alice", user)
	}
	if !user.Username.Valid || user.Username.String != "alice" {
		t.Errorf("Username = %+v, want alice", user.Username)
	}

	chat := store.lastChat
	if chat == nil || chat.ID != -1001378056746 || chat.Title != "Monitored Group" || chat.Type != "supergroup" {
		t.Fatalf("chat = %+v, want monitored group", chat)
	}

	msg := store.lastMessage
	if msg == nil || msg.TelegramMessageID != 101 || msg.ChatID != chat.ID || msg.UserID != user.ID {
		t.Fatalf("message = %+v, want keys mapped from event", msg)
	}
	if !msg.Text.Valid || msg.Text.String != "hello" {
		t.Errorf("Text = %+v, want hello", msg.Text)
	}
	if msg.MediaType.Valid {
		t.Errorf("MediaType = %+v, want NULL for plain text", msg.MediaType)
	}
	if msg.ReplyToMessageID.Valid {
		t.Errorf("ReplyToMessageID = %+v, want NULL for non-reply", msg.ReplyToMessageID)
	}
	if want := time.Unix(1700000000, 0).UTC(); !msg.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", msg.Date, want)
	}
}

func TestIngestMediaAndReplyMapping(t *testing.T) {
	t.Parallel()

	store := &fakeStore{inserted: true, assignID: 1}
	p := ingest.NewPipeline(store, nil, time.Second)

	msg := sampleMessage()
	msg.Text = ""
	msg.Photo = []models.PhotoSize{{FileID: "f1"}}
	msg.Caption = "look at this"
	msg.ReplyToMessage = &models.Message{ID: 42}

	outcome := p.Ingest(context.Background(), msg)
	if outcome.Status != ingest.StatusRecorded {
		t.Fatalf("outcome = %+v, want recorded", outcome)
	}

	rec := store.lastMessage
	if !rec.MediaType.Valid || rec.MediaType.String != string(ingest.MediaPhoto) {
		t.Errorf("MediaType = %+v, want photo", rec.MediaType)
	}
	if !rec.Text.Valid || rec.Text.String != "look at this" {
		t.Errorf("Text = %+v, want caption", rec.Text)
	}
	if !rec.ReplyToMessageID.Valid || rec.ReplyToMessageID.Int64 != 42 {
		t.Errorf("ReplyToMessageID = %+v, want 42", rec.ReplyToMessageID)
	}
}

func TestIngestCaptionlessMediaStoresNullText(t *testing.T) {
	t.Parallel()

	store := &fakeStore{inserted: true, assignID: 1}
	p := ingest.NewPipeline(store, nil, time.Second)

	msg := sampleMessage()
	msg.Text = ""
	msg.Photo = []models.PhotoSize{{FileID: "f1"}}

	outcome := p.Ingest(context.Background(), msg)
	if outcome.Status != ingest.StatusRecorded {
		t.Fatalf("outcome = %+v, want recorded", outcome)
	}
	if store.lastMessage.Text.Valid {
		t.Errorf("Text = %+v, want NULL for caption-less media", store.lastMessage.Text)
	}
}

func TestIngestDuplicate(t *testing.T) {
	t.Parallel()

	store := &fakeStore{inserted: false}
	p := ingest.NewPipeline(store, nil, time.Second)

	outcome := p.Ingest(context.Background(), sampleMessage())
	if outcome.Status != ingest.StatusDuplicate {
		t.Fatalf("outcome = %+v, want duplicate", outcome)
	}
	if outcome.MessageID != 0 {
		t.Errorf("MessageID = %d, want 0 for duplicate", outcome.MessageID)
	}
}

func TestIngestPersistenceError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("disk full")
	store := &fakeStore{recordErr: storeErr}
	p := ingest.NewPipeline(store, nil, time.Second)

	outcome := p.Ingest(context.Background(), sampleMessage())
	if outcome.Status != ingest.StatusRejected || outcome.Reason != ingest.ReasonPersistenceError {
		t.Fatalf("outcome = %+v, want rejected/persistence_error", outcome)
	}
	if !errors.Is(outcome.Err, storeErr) {
		t.Errorf("Err = %v, want wrapped %v", outcome.Err, storeErr)
	}
}

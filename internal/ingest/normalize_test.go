// Package ingest_test tests the ingest package.
package ingest_test

import (
	"errors"
	"testing"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/coletorbot/internal/ingest"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		msg         *models.Message
		wantText    string
		wantMedia   ingest.MediaType
		wantReplyTo int64
		wantErr     error
	}{
		{
			name:      "plain text",
			msg:       &models.Message{Text: "hello there"},
			wantText:  "hello there",
			wantMedia: ingest.MediaNone,
		},
		{
			name: "photo with caption",
			msg: &models.Message{
				Photo:   []models.PhotoSize{{FileID: "f1", Width: 100, Height: 100}},
				Caption: "sunset at the beach",
			},
			wantText:  "sunset at the beach",
			wantMedia: ingest.MediaPhoto,
		},
		{
			name: "photo without caption",
			msg: &models.Message{
				Photo: []models.PhotoSize{{FileID: "f1", Width: 100, Height: 100}},
			},
			wantText:  "",
			wantMedia: ingest.MediaPhoto,
		},
		{
			name: "video with caption",
			msg: &models.Message{
				Video:   &models.Video{FileID: "v1"},
				Caption: "a clip",
			},
			wantText:  "a clip",
			wantMedia: ingest.MediaVideo,
		},
		{
			name: "photo takes precedence over video",
			msg: &models.Message{
				Photo:   []models.PhotoSize{{FileID: "f1"}},
				Video:   &models.Video{FileID: "v1"},
				Caption: "both present",
			},
			wantText:  "both present",
			wantMedia: ingest.MediaPhoto,
		},
		{
			name: "animation takes precedence over its document",
			msg: &models.Message{
				Animation: &models.Animation{FileID: "a1"},
				Document:  &models.Document{FileID: "d1"},
			},
			wantText:  "",
			wantMedia: ingest.MediaAnimation,
		},
		{
			name: "sticker uses its emoji",
			msg: &models.Message{
				Sticker: &models.Sticker{FileID: "s1", Emoji: "🔥"},
			},
			wantText:  "🔥",
			wantMedia: ingest.MediaSticker,
		},
		{
			name: "document with caption",
			msg: &models.Message{
				Document: &models.Document{FileID: "d1"},
				Caption:  "quarterly report",
			},
			wantText:  "quarterly report",
			wantMedia: ingest.MediaDocument,
		},
		{
			name: "media message ignores plain text field",
			msg: &models.Message{
				Photo: []models.PhotoSize{{FileID: "f1"}},
				Text:  "should not be used",
			},
			wantText:  "",
			wantMedia: ingest.MediaPhoto,
		},
		{
			name: "reply target extracted",
			msg: &models.Message{
				Text:           "replying",
				ReplyToMessage: &models.Message{ID: 42},
			},
			wantText:    "replying",
			wantMedia:   ingest.MediaNone,
			wantReplyTo: 42,
		},
		{
			name:    "empty message rejected",
			msg:     &models.Message{},
			wantErr: ingest.ErrEmptyContent,
		},
		{
			name:    "whitespace-only text rejected",
			msg:     &models.Message{Text: "  \n\t "},
			wantErr: ingest.ErrEmptyContent,
		},
		{
			name: "reply without content still rejected",
			msg: &models.Message{
				ReplyToMessage: &models.Message{ID: 7},
			},
			wantErr: ingest.ErrEmptyContent,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ingest.Normalize(tc.msg)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Normalize() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize() unexpected error: %v", err)
			}
			if got.Text != tc.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tc.wantText)
			}
			if got.Media != tc.wantMedia {
				t.Errorf("Media = %q, want %q", got.Media, tc.wantMedia)
			}
			if got.ReplyToMessageID != tc.wantReplyTo {
				t.Errorf("ReplyToMessageID = %d, want %d", got.ReplyToMessageID, tc.wantReplyTo)
			}
		})
	}
}

// Package ingest turns raw Telegram message events into durable database
// records: normalization, identity upserts, and deduplicated message inserts
// orchestrated as one unit of work per event.
package ingest

import (
	"errors"
	"strings"

	"github.com/go-telegram/bot/models"
)

// ErrEmptyContent signals that an event carries neither text nor media and
// must not be persisted.
var ErrEmptyContent = errors.New("message has no text and no media")

// MediaType is the closed set of media categories the collector records.
// The empty value means plain text.
type MediaType string

const (
	MediaNone      MediaType = ""
	MediaPhoto     MediaType = "photo"
	MediaVideo     MediaType = "video"
	MediaSticker   MediaType = "sticker"
	MediaAnimation MediaType = "animation"
	MediaDocument  MediaType = "document"
)

// NormalizedMessage holds the canonical fields derived from a raw Telegram
// message. ReplyToMessageID is zero when the message is not a reply.
type NormalizedMessage struct {
	Text             string
	Media            MediaType
	ReplyToMessageID int64
}

// detectMedia returns the media category of a message. When more than one
// media field is structurally present (Telegram sets Document alongside
// Animation, for instance) the first match in this fixed order wins:
// photo, video, sticker, animation, document.
func detectMedia(msg *models.Message) MediaType {
	switch {
	case len(msg.Photo) > 0:
		return MediaPhoto
	case msg.Video != nil:
		return MediaVideo
	case msg.Sticker != nil:
		return MediaSticker
	case msg.Animation != nil:
		return MediaAnimation
	case msg.Document != nil:
		return MediaDocument
	default:
		return MediaNone
	}
}

// captionFor returns the caption-bearing field for a media category: the
// message caption for photo/video/animation/document, the associated emoji
// for stickers.
func captionFor(msg *models.Message, media MediaType) string {
	switch media {
	case MediaPhoto, MediaVideo, MediaAnimation, MediaDocument:
		return msg.Caption
	case MediaSticker:
		return msg.Sticker.Emoji
	default:
		return ""
	}
}

// Normalize derives the canonical text, media category, and reply target from
// a raw Telegram message. It is a pure function of its input. Events with no
// persistable content (no text and no media) are rejected with
// ErrEmptyContent.
func Normalize(msg *models.Message) (NormalizedMessage, error) {
	media := detectMedia(msg)

	var text string
	if media != MediaNone {
		text = captionFor(msg, media)
	} else {
		text = msg.Text
	}

	if strings.TrimSpace(text) == "" {
		if media == MediaNone {
			return NormalizedMessage{}, ErrEmptyContent
		}
		text = ""
	}

	var replyTo int64
	if msg.ReplyToMessage != nil {
		// The parent may reference a message outside the retention window;
		// no existence check is made.
		replyTo = int64(msg.ReplyToMessage.ID)
	}

	return NormalizedMessage{
		Text:             text,
		Media:            media,
		ReplyToMessageID: replyTo,
	}, nil
}

// Package search maintains a full-text index of live messages and
// serves per-chat term queries. The index trails the message log: it
// is fed asynchronously from committed events, so a hit is resolved
// against the log before being returned.
package search

import (
	"chat-mesh/domain"
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func Open(path string, log *slog.Logger) (*Index, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, err
	}
	return &Index{writer: writer, log: log}, nil
}

func (i *Index) Close() error {
	return i.writer.Close()
}

// Index upserts one message. Edits reuse the message id, so the
// document is replaced in place.
func (i *Index) Index(msg domain.Message) error {
	doc := bluge.NewDocument(msg.ID.String()).
		AddField(bluge.NewKeywordField("chat", string(msg.ChatID))).
		AddField(bluge.NewKeywordField("sender", msg.SenderID)).
		AddField(bluge.NewTextField("text", msg.Text))
	return i.writer.Update(doc.ID(), doc)
}

func (i *Index) Delete(msgID uuid.UUID) error {
	return i.writer.Delete(bluge.Identifier(msgID.String()))
}

// Search returns the ids of messages in the chat matching the terms,
// best first, capped at limit.
func (i *Index) Search(ctx context.Context, chatID domain.ChatID, terms string, limit int) ([]uuid.UUID, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(string(chatID)).SetField("chat")).
		AddMust(bluge.NewMatchQuery(terms).SetField("text"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field != "_id" {
				return true
			}
			id, parseErr := uuid.Parse(string(value))
			if parseErr != nil {
				i.log.Warn("Unparseable document id in index", "value", string(value))
				return false
			}
			ids = append(ids, id)
			return false
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}

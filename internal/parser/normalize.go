package parser

import (
	"time"

	"douyin-comments/internal/models"
)

// Normalizer flattens raw comments. It never fails: absent data degrades to zero values.
type Normalizer struct {
	// Location used to render publish times, time.Local when nil
	Location *time.Location
}

func (n Normalizer) Normalize(raw models.RawComment) models.Comment {
	loc := n.Location
	if loc == nil {
		loc = time.Local
	}

	var author string
	if raw.User != nil {
		author = string(raw.User.Nickname)
	}

	ts := int64(raw.CreateTime)
	if ts < 0 {
		ts = 0
	}

	return models.Comment{
		ID:          string(raw.CID),
		Author:      author,
		Text:        string(raw.Text),
		PublishedAt: time.Unix(ts, 0).In(loc).Format(models.TimestampLayout),
		Timestamp:   ts,
		Likes:       nonNegative(int64(raw.DiggCount)),
		Replies:     nonNegative(int64(raw.ReplyCommentTotal)),
	}
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// TimestampLayout is the rendering used for every published-at value
const TimestampLayout = "2006-01-02 15:04:05"

// Comment is a normalized Douyin comment
// swagger:model Comment
type Comment struct {
	// Platform comment ID, empty when the server omitted it
	ID string `json:"id"`
	// Author display name
	Author string `json:"author"`
	// Comment text
	Text string `json:"text"`
	// Publish time rendered with TimestampLayout
	PublishedAt string `json:"published_at"`
	// Publish time as unix seconds
	Timestamp int64 `json:"timestamp"`
	// Like count
	Likes int64 `json:"likes"`
	// Reply count
	Replies int64 `json:"replies"`
}

// Summary aggregates an accumulated comment sequence
// swagger:model Summary
type Summary struct {
	Count        int     `json:"count"`
	TotalLikes   int64   `json:"total_likes"`
	TotalReplies int64   `json:"total_replies"`
	AvgLikes     float64 `json:"avg_likes"`
	AvgReplies   float64 `json:"avg_replies"`
	// Earliest publish time, empty when there are no comments
	EarliestTime string `json:"earliest_time"`
	// Latest publish time, empty when there are no comments
	LatestTime string `json:"latest_time"`
}

// TrendPoint is one hourly bucket of the comment time series
// swagger:model TrendPoint
type TrendPoint struct {
	Hour  time.Time `json:"hour"`
	Count int       `json:"count"`
}

// TermCount is a term and the number of times it occurred
// swagger:model TermCount
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// CloudTerm is a TermCount with the font size used by word-cloud renderers
// swagger:model CloudTerm
type CloudTerm struct {
	Term  string  `json:"term"`
	Count int     `json:"count"`
	Size  float64 `json:"size"`
}

// Progress is reported after every accumulated page
type Progress struct {
	Page    int
	Fetched int
	// Total is the count declared by the server, nil while unknown
	Total *int64
}

// Fraction returns fetched/total capped at 1. ok is false when the total is unknown,
// in which case the retrieval is indeterminate but still in progress.
func (p Progress) Fraction() (fraction float64, ok bool) {
	if p.Total == nil || *p.Total <= 0 {
		return 0, false
	}
	f := float64(p.Fetched) / float64(*p.Total)
	if f > 1 {
		f = 1
	}
	return f, true
}

// CredentialStatus classifies a session credential
type CredentialStatus string

const (
	CredentialValid   CredentialStatus = "valid"
	CredentialInvalid CredentialStatus = "invalid"
)

// RetrievalRequest describes one pagination session
type RetrievalRequest struct {
	VideoID    string
	Credential string
	// StartCursor resumes a previous session, 0 starts from the first page
	StartCursor int64
	// MaxComments stops the session once reached, 0 means no limit
	MaxComments int
}

// RetrievalResult is returned by a pagination session, also when it ended with an error
// swagger:model RetrievalResult
type RetrievalResult struct {
	SessionID string    `json:"session_id"`
	VideoID   string    `json:"video_id"`
	Comments  []Comment `json:"comments"`
	// Total declared by the server on the first page that carried one
	Total *int64 `json:"total,omitempty"`
	// NextCursor is the cursor a resumed session should start from
	NextCursor int64 `json:"next_cursor"`
	Pages      int   `json:"pages"`
	// HasMore is the last has_more flag seen, informational only
	HasMore bool `json:"has_more"`
	// Complete is true when the session stopped on an empty page or a zero cursor
	Complete bool `json:"complete"`
}

// CommentPage is one parsed response of the comment list endpoint
type CommentPage struct {
	Comments []RawComment
	Cursor   int64
	HasMore  bool
	Total    *int64
}

// RawCommentPage is the wire shape of the comment list endpoint
type RawCommentPage struct {
	StatusCode FlexInt      `json:"status_code"`
	Comments   []RawComment `json:"comments"`
	Cursor     FlexInt      `json:"cursor"`
	HasMore    FlexInt      `json:"has_more"`
	Total      *FlexInt     `json:"total"`
}

// RawComment is the server's representation of one comment.
// Decoding never fails: a field of the wrong type, or an entry that is not an object,
// leaves the zero value in place so one odd comment cannot spoil its page.
type RawComment struct {
	CID               FlexString `json:"cid"`
	Text              FlexString `json:"text"`
	CreateTime        FlexInt    `json:"create_time"`
	DiggCount         FlexInt    `json:"digg_count"`
	ReplyCommentTotal FlexInt    `json:"reply_comment_total"`
	IPLabel           FlexString `json:"ip_label"`
	User              *RawUser   `json:"user"`
}

func (c *RawComment) UnmarshalJSON(data []byte) error {
	*c = RawComment{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	decodeField(fields, "cid", &c.CID)
	decodeField(fields, "text", &c.Text)
	decodeField(fields, "create_time", &c.CreateTime)
	decodeField(fields, "digg_count", &c.DiggCount)
	decodeField(fields, "reply_comment_total", &c.ReplyCommentTotal)
	decodeField(fields, "ip_label", &c.IPLabel)

	if raw, ok := fields["user"]; ok && !isNull(raw) {
		var user RawUser
		if err := json.Unmarshal(raw, &user); err == nil {
			c.User = &user
		}
	}
	return nil
}

// RawUser is the nested author object of a RawComment
type RawUser struct {
	UID      FlexString `json:"uid"`
	SecUID   FlexString `json:"sec_uid"`
	Nickname FlexString `json:"nickname"`
}

func (u *RawUser) UnmarshalJSON(data []byte) error {
	*u = RawUser{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	decodeField(fields, "uid", &u.UID)
	decodeField(fields, "sec_uid", &u.SecUID)
	decodeField(fields, "nickname", &u.Nickname)
	return nil
}

// decodeField leaves dst untouched when key is absent or does not decode
func decodeField(fields map[string]json.RawMessage, key string, dst json.Unmarshaler) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	_ = dst.UnmarshalJSON(raw)
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// FlexString decodes a JSON string, number or boolean into its text. Null is empty;
// objects and arrays are an error.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	case data[0] == '{', data[0] == '[':
		return fmt.Errorf("flexstring: cannot decode %s", data)
	}

	if !json.Valid(data) {
		return fmt.Errorf("flexstring: cannot decode %s", data)
	}
	*f = FlexString(data)
	return nil
}

// FlexInt decodes a JSON number, numeric string, boolean or null into an int64.
// The comment endpoint is not consistent about how it encodes counters and flags.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*f = 0
		return nil
	case bytes.Equal(data, []byte("true")):
		*f = 1
		return nil
	case bytes.Equal(data, []byte("false")):
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		data = []byte(s)
	}

	if v, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*f = FlexInt(v)
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("flexint: cannot decode %s", data)
	}
	*f = FlexInt(int64(v))
	return nil
}

// ProgressFunc receives a Progress after every accumulated page
type ProgressFunc func(Progress)

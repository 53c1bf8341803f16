package mocks

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CommentPageJSON renders a comment list response with n comments whose cids start at first.
// total < 0 omits the total field.
func CommentPageJSON(first, n int, cursor int64, hasMore bool, total int64) json.RawMessage {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := first + i
		items = append(items, fmt.Sprintf(
			`{"cid":"%d","text":"comment %d","create_time":%d,"digg_count":%d,"reply_comment_total":%d,"user":{"nickname":"user%d"}}`,
			id, id, 1700000000+id*60, id%7, id%3, id))
	}

	more := 0
	if hasMore {
		more = 1
	}
	totalField := ""
	if total >= 0 {
		totalField = fmt.Sprintf(`,"total":%d`, total)
	}

	return json.RawMessage(fmt.Sprintf(`{"status_code":0,"comments":[%s],"cursor":%d,"has_more":%d%s}`,
		strings.Join(items, ","), cursor, more, totalField))
}

// Package analysis derives summaries, hourly trends and term frequencies from normalized comments.
// Every function is pure and safe for concurrent use.
package analysis

import (
	"math"
	"sort"
	"time"

	"douyin-comments/internal/models"
)

// Summarize aggregates comments. Averages are rounded to two decimals, exact halves to even;
// EarliestTime and LatestTime are empty when there are no comments.
func Summarize(comments []models.Comment) models.Summary {
	s := models.Summary{Count: len(comments)}
	if len(comments) == 0 {
		return s
	}

	earliest, latest := 0, 0
	for i, c := range comments {
		s.TotalLikes += c.Likes
		s.TotalReplies += c.Replies
		if c.Timestamp < comments[earliest].Timestamp {
			earliest = i
		}
		if c.Timestamp > comments[latest].Timestamp {
			latest = i
		}
	}

	s.AvgLikes = round2(float64(s.TotalLikes) / float64(s.Count))
	s.AvgReplies = round2(float64(s.TotalReplies) / float64(s.Count))
	s.EarliestTime = comments[earliest].PublishedAt
	s.LatestTime = comments[latest].PublishedAt
	return s
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// TimeTrend counts comments per hour in loc (time.Local when nil), oldest hour first
func TimeTrend(comments []models.Comment, loc *time.Location) []models.TrendPoint {
	if loc == nil {
		loc = time.Local
	}

	buckets := make(map[int64]int)
	hours := make(map[int64]time.Time)
	for _, c := range comments {
		t := time.Unix(c.Timestamp, 0).In(loc)
		hour := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
		key := hour.Unix()
		buckets[key]++
		hours[key] = hour
	}

	out := make([]models.TrendPoint, 0, len(buckets))
	for key, n := range buckets {
		out = append(out, models.TrendPoint{Hour: hours[key], Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour.Before(out[j].Hour) })
	return out
}

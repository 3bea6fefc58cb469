// Package model defines the data models for the article overload bot.
package model

import "time"

// Article represents a stored news article and its generated summary.
// The summary carries statement markers: lines wrapped in [] hold the one
// false statement, lines wrapped in <> hold true statements, quoted lines
// are neutral filler.
type Article struct {
	ID            int64     `db:"id"`
	URL           string    `db:"url"`
	Title         string    `db:"title"`
	Author        string    `db:"author"`
	Topic         string    `db:"topic"`
	Size          string    `db:"size"`
	BodyText      string    `db:"body_text"`
	Summary       string    `db:"summary"`
	DatePublished time.Time `db:"date_published"`
	CreatedAt     time.Time `db:"created_at"`
}

// ArticleResponse records one answer a player gave for an article.
type ArticleResponse struct {
	ID        int64     `db:"id"`
	ArticleID int64     `db:"article_id"`
	SessionID int64     `db:"session_id"`
	UserID    int64     `db:"user_id"`
	Response  string    `db:"response"`
	IsCorrect bool      `db:"is_correct"`
	CreatedAt time.Time `db:"created_at"`
}

// SessionRecord tracks one scoring session for a player.
// A session is opened when a game starts and closed with the final score.
type SessionRecord struct {
	ID        int64      `db:"id"`
	UserID    int64      `db:"user_id"`
	Score     int64      `db:"score"`
	StartedAt time.Time  `db:"started_at"`
	EndedAt   *time.Time `db:"ended_at"`
}

// Score is an aggregated leaderboard row for a player.
type Score struct {
	UserID       int64     `db:"user_id"`
	Score        int64     `db:"score"`
	LatestPlayed time.Time `db:"latest_played"`
}

// TopicStat summarizes a player's answer accuracy for one article topic.
type TopicStat struct {
	Topic   string `db:"topic"`
	Correct int64  `db:"correct"`
	Total   int64  `db:"total"`
}

package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ThreadDelimiter separates the original comment body from appended additions
const ThreadDelimiter = "\n\n-- "

// CommentRef addresses a comment in mutation requests. Persisted comments use
// their decimal server id; comments that have not round-tripped yet carry a
// synthesized placeholder.
type CommentRef string

// Comment is the authoritative-mirror representation of a server comment
type Comment struct {
	ID        int64     `json:"id"`
	AssetID   string    `json:"video_id"`
	Timestamp *float64  `json:"timestamp"`
	Page      *int      `json:"page"`
	Text      string    `json:"comment"`
	User      string    `json:"user"`
	Image     *string   `json:"image,omitempty"`
	Reactions Reactions `json:"reactions"`
	CreatedAt string    `json:"created_at,omitempty"`
}

// Addition is one threaded reply appended to a comment
type Addition struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Thread is a comment body split into the original text and its additions
type Thread struct {
	Body      string     `json:"body"`
	Additions []Addition `json:"additions,omitempty"`
}

// UnmarshalJSON tolerates numeric fields encoded as strings ("00", "3") and
// reactions encoded as a JSON string.
func (c *Comment) UnmarshalJSON(data []byte) error {
	type plain Comment
	var raw struct {
		plain
		Timestamp json.RawMessage `json:"timestamp"`
		Page      json.RawMessage `json:"page"`
		Reactions json.RawMessage `json:"reactions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Comment(raw.plain)

	ts, err := decodeFlexibleNumber(raw.Timestamp)
	if err != nil {
		return fmt.Errorf("comment %d: timestamp: %w", c.ID, err)
	}
	c.Timestamp = ts

	page, err := decodeFlexibleNumber(raw.Page)
	if err != nil {
		return fmt.Errorf("comment %d: page: %w", c.ID, err)
	}
	if page != nil {
		p := int(*page)
		c.Page = &p
	}

	reactions, err := decodeReactions(raw.Reactions)
	if err != nil {
		return fmt.Errorf("comment %d: reactions: %w", c.ID, err)
	}
	c.Reactions = reactions
	return nil
}

func decodeFlexibleNumber(raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Seconds returns the timestamp or zero
func (c *Comment) Seconds() float64 {
	if c == nil || c.Timestamp == nil {
		return 0
	}
	return *c.Timestamp
}

// PageNumber returns the page or zero
func (c *Comment) PageNumber() int {
	if c == nil || c.Page == nil {
		return 0
	}
	return *c.Page
}

// HasPage reports whether the comment is anchored to a nonzero page
func (c *Comment) HasPage() bool {
	return c.PageNumber() != 0
}

// Persisted reports whether the server has assigned an id
func (c *Comment) Persisted() bool {
	return c != nil && c.ID > 0
}

// Ref returns the reference used to address the comment in mutations
func (c *Comment) Ref() CommentRef {
	if c.Persisted() {
		return CommentRef(strconv.FormatInt(c.ID, 10))
	}
	return PlaceholderRef(c)
}

// PlaceholderRef synthesizes a reference for a comment without server id
func PlaceholderRef(c *Comment) CommentRef {
	return CommentRef(strconv.FormatFloat(c.Seconds(), 'f', -1, 64) + "-" + c.Text)
}

// ParseCommentRef resolves a reference to a server id. Placeholders and any
// other non-numeric or non-positive value yield ErrPlaceholderRef.
func ParseCommentRef(ref CommentRef) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(string(ref)), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrPlaceholderRef
	}
	return id, nil
}

// Thread splits the stored text into body and additions
func (c *Comment) Thread() Thread {
	parts := strings.Split(c.Text, ThreadDelimiter)
	thread := Thread{Body: parts[0]}
	for _, part := range parts[1:] {
		author, text, _ := strings.Cut(strings.TrimSpace(part), "\n")
		thread.Additions = append(thread.Additions, Addition{
			Author: strings.TrimSpace(author),
			Text:   text,
		})
	}
	return thread
}

// FormatAddition appends a threaded reply to existing comment text
func FormatAddition(existing, authorLine, text string) string {
	return existing + ThreadDelimiter + authorLine + "\n" + text
}

// AuthorLine renders the "name (time)" header of an addition
func AuthorLine(username string, at time.Time) string {
	return fmt.Sprintf("%s (%s)", username, at.Format("1/2/2006, 3:04:05 PM"))
}

// FloorSeconds truncates a playback position to whole seconds
func FloorSeconds(position float64) float64 {
	if position < 0 || math.IsNaN(position) {
		return 0
	}
	return math.Floor(position)
}

// Reactions maps a reaction symbol to the users who reacted with it
type Reactions map[string][]string

func decodeReactions(raw json.RawMessage) (Reactions, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Reactions{}, nil
	}
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, err
		}
		if strings.TrimSpace(encoded) == "" {
			return Reactions{}, nil
		}
		raw = []byte(encoded)
	}
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	out := make(Reactions, len(generic))
	for symbol, value := range generic {
		var users []string
		if err := json.Unmarshal(value, &users); err == nil {
			out[symbol] = users
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err == nil && single != "" {
			out[symbol] = []string{single}
			continue
		}
		out[symbol] = nil
	}
	return out, nil
}

// Count returns the number of users that reacted with symbol
func (r Reactions) Count(symbol string) int {
	return len(r[symbol])
}

// Users returns the users that reacted with symbol
func (r Reactions) Users(symbol string) []string {
	return r[symbol]
}

// Symbols returns the reaction symbols in sorted order
func (r Reactions) Symbols() []string {
	out := make([]string, 0, len(r))
	for symbol := range r {
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}

// CommentDraft is a comment submission before the server assigns an id
type CommentDraft struct {
	AssetID   string  `json:"video_id" validate:"required"`
	Timestamp float64 `json:"timestamp" validate:"gte=0"`
	Page      *int    `json:"page" validate:"omitempty,gte=0"`
	Text      string  `json:"comment" validate:"required"`
	Image     *string `json:"image"`
}

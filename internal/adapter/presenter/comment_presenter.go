package presenter

import (
	"fmt"
	"math"

	"github.com/johnquangdev/media-review/internal/adapter/dto/review"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/usecase/timeline"
)

// ReactionPalette is the fixed set of reactions offered on every comment
var ReactionPalette = []string{"👍", "❤️", "👎"}

// FormatTime renders seconds as m:ss
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	s := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// CommentLabel renders the position of a comment: "Page N" for comments
// anchored to a page, m:ss otherwise.
func CommentLabel(c *entities.Comment) string {
	if c.HasPage() {
		return fmt.Sprintf("Page %d", c.PageNumber())
	}
	return FormatTime(c.Seconds())
}

// ToCommentResponse converts a Comment entity for display to reviewer
func ToCommentResponse(c *entities.Comment, activeID int64, reviewer string) review.CommentResponse {
	thread := c.Thread()
	resp := review.CommentResponse{
		ID:        c.ID,
		Ref:       string(c.Ref()),
		AssetID:   c.AssetID,
		Label:     CommentLabel(c),
		Timestamp: c.Timestamp,
		Page:      c.Page,
		User:      c.User,
		Body:      thread.Body,
		Image:     c.Image,
		Reactions: toReactionCounts(c.Reactions, reviewer),
		CreatedAt: c.CreatedAt,
		Active:    activeID != 0 && c.ID == activeID,
	}
	for _, a := range thread.Additions {
		resp.Additions = append(resp.Additions, review.AdditionResponse{Author: a.Author, Text: a.Text})
	}
	return resp
}

// ToCommentResponses converts a list preserving order
func ToCommentResponses(list []entities.Comment, activeID int64, reviewer string) []review.CommentResponse {
	out := make([]review.CommentResponse, 0, len(list))
	for i := range list {
		out = append(out, ToCommentResponse(&list[i], activeID, reviewer))
	}
	return out
}

func toReactionCounts(r entities.Reactions, reviewer string) []review.ReactionCount {
	out := make([]review.ReactionCount, 0, len(ReactionPalette))
	for _, symbol := range ReactionPalette {
		users := r.Users(symbol)
		rc := review.ReactionCount{Symbol: symbol, Count: r.Count(symbol), Users: users}
		for _, u := range users {
			if u == reviewer {
				rc.Reacted = true
				break
			}
		}
		out = append(out, rc)
	}
	return out
}

// ToTimelineResponse converts clusters for the axis of mediaType
func ToTimelineResponse(mediaType entities.MediaType, clusters []timeline.Cluster, pages []timeline.PageCluster) review.TimelineResponse {
	resp := review.TimelineResponse{Axis: string(mediaType.Axis()), Clusters: []review.ClusterResponse{}}
	if mediaType.Axis() == entities.AxisPage {
		for _, p := range pages {
			resp.Clusters = append(resp.Clusters, review.ClusterResponse{
				Page:       p.Page,
				Label:      fmt.Sprintf("Page %d", p.Page),
				Tier:       string(p.Tier),
				CommentIDs: commentIDs(p.Comments),
			})
		}
		return resp
	}
	for _, c := range clusters {
		resp.Clusters = append(resp.Clusters, review.ClusterResponse{
			Position:   c.Position,
			Label:      FormatTime(c.Position),
			Tier:       string(c.Tier),
			CommentIDs: commentIDs(c.Comments),
		})
	}
	return resp
}

func commentIDs(list []entities.Comment) []int64 {
	ids := make([]int64, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	return ids
}

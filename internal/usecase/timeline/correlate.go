// Package timeline maps comments onto the playback timeline or page axis:
// active comment selection, scrub-bar clusters and the transcript overlay.
package timeline

import (
	"math"
	"sort"

	"github.com/johnquangdev/media-review/internal/domain/entities"
)

// DefaultWindow is the proximity window in seconds
const DefaultWindow = 1.0

// ClusterTier is the visual weight of a marker
type ClusterTier string

const (
	TierNeutral  ClusterTier = "neutral"
	TierWarning  ClusterTier = "warning"
	TierEmphasis ClusterTier = "emphasis"
)

// Tier grades a cluster by size: 1 neutral, 2-3 warning, 4+ emphasis
func Tier(size int) ClusterTier {
	switch {
	case size >= 4:
		return TierEmphasis
	case size >= 2:
		return TierWarning
	default:
		return TierNeutral
	}
}

// Cluster is a group of comments sharing one scrub-bar marker
type Cluster struct {
	Position float64            `json:"position"`
	Tier     ClusterTier        `json:"tier"`
	Comments []entities.Comment `json:"comments"`
}

// PageCluster is the set of comments on one page
type PageCluster struct {
	Page     int                `json:"page"`
	Tier     ClusterTier        `json:"tier"`
	Comments []entities.Comment `json:"comments"`
}

// ActiveComment returns the timed comment closest to position, if any lies
// strictly within window seconds. Ties keep list order.
func ActiveComment(comments []entities.Comment, position, window float64) (entities.Comment, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i := range comments {
		if comments[i].Timestamp == nil {
			continue
		}
		d := math.Abs(*comments[i].Timestamp - position)
		if d < window && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return entities.Comment{}, false
	}
	return comments[best], true
}

// ClusterComments groups timed comments. Each cluster is anchored at its earliest
// comment and takes every later comment strictly within window of it.
func ClusterComments(comments []entities.Comment, window float64) []Cluster {
	timed := make([]entities.Comment, 0, len(comments))
	for _, c := range comments {
		if c.Timestamp != nil {
			timed = append(timed, c)
		}
	}
	sort.SliceStable(timed, func(i, j int) bool { return *timed[i].Timestamp < *timed[j].Timestamp })

	var clusters []Cluster
	for _, c := range timed {
		ts := *c.Timestamp
		if n := len(clusters); n > 0 && ts-clusters[n-1].Position < window {
			clusters[n-1].Comments = append(clusters[n-1].Comments, c)
			continue
		}
		clusters = append(clusters, Cluster{Position: ts, Comments: []entities.Comment{c}})
	}
	for i := range clusters {
		clusters[i].Tier = Tier(len(clusters[i].Comments))
	}
	return clusters
}

// ClusterPages groups page-anchored comments by page in ascending order
func ClusterPages(comments []entities.Comment) []PageCluster {
	byPage := make(map[int][]entities.Comment)
	for _, c := range comments {
		if c.HasPage() {
			byPage[c.PageNumber()] = append(byPage[c.PageNumber()], c)
		}
	}
	pages := make([]int, 0, len(byPage))
	for p := range byPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	out := make([]PageCluster, 0, len(pages))
	for _, p := range pages {
		out = append(out, PageCluster{Page: p, Tier: Tier(len(byPage[p])), Comments: byPage[p]})
	}
	return out
}

// CommentsOnPage returns the comments anchored to page
func CommentsOnPage(comments []entities.Comment, page int) []entities.Comment {
	var out []entities.Comment
	for _, c := range comments {
		if c.PageNumber() == page {
			out = append(out, c)
		}
	}
	return out
}

package comments

import (
	"sort"

	"github.com/johnquangdev/media-review/internal/domain/entities"
)

// SortComments orders a fetched list for display. Page-anchored lists
// (storyboards, or any comment with a nonzero page) sort by page; others sort
// by timestamp. Both sorts are stable on server order.
func SortComments(comments []entities.Comment, mediaType entities.MediaType) []entities.Comment {
	out := make([]entities.Comment, len(comments))
	copy(out, comments)

	if mediaType == entities.MediaTypeStoryboard || anyPaged(out) {
		sort.SliceStable(out, func(i, j int) bool {
			return pageKey(&out[i]) < pageKey(&out[j])
		})
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Seconds() < out[j].Seconds()
	})
	return out
}

func anyPaged(comments []entities.Comment) bool {
	for i := range comments {
		if comments[i].HasPage() {
			return true
		}
	}
	return false
}

// pageKey places unpaged comments ahead of page 1
func pageKey(c *entities.Comment) int {
	if !c.HasPage() {
		return -1
	}
	return c.PageNumber()
}

// sortPrevious orders another asset's comments by page then time. A missing
// page sorts first; page zero is kept as is.
func sortPrevious(comments []entities.Comment) []entities.Comment {
	out := make([]entities.Comment, len(comments))
	copy(out, comments)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := -1, -1
		if out[i].Page != nil {
			pi = *out[i].Page
		}
		if out[j].Page != nil {
			pj = *out[j].Page
		}
		if pi != pj {
			return pi < pj
		}
		return out[i].Seconds() < out[j].Seconds()
	})
	return out
}

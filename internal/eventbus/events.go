package eventbus

import "github.com/johnquangdev/media-review/internal/domain/entities"

const (
	TopicAssetChanged         Topic = "asset.changed"
	TopicNavigateRequested    Topic = "asset.navigate"
	TopicCommentsChanged      Topic = "comments.changed"
	TopicCommentsUpdated      Topic = "comments.updated"
	TopicLiveStatusChanged    Topic = "comments.live"
	TopicPageSynced           Topic = "viewer.page"
	TopicSnapshotCaptured     Topic = "viewer.snapshot"
	TopicJumpToPage           Topic = "viewer.jump"
	TopicActiveCommentChanged Topic = "timeline.active"
	TopicScrollRequested      Topic = "timeline.scroll"
	TopicSeekRequested        Topic = "timeline.seek"
	TopicCaptionChanged       Topic = "timeline.caption"
)

// AssetChanged is published after the active identity changed
type AssetChanged struct {
	Asset   entities.Asset `json:"asset"`
	Pending bool           `json:"pending"`
}

func (AssetChanged) Topic() Topic { return TopicAssetChanged }

// NavigateRequested asks the surface to move its address to /review/<id>
type NavigateRequested struct {
	AssetID string `json:"asset_id"`
	Path    string `json:"path"`
}

func (NavigateRequested) Topic() Topic { return TopicNavigateRequested }

// CommentsChanged signals that the server-side comment set was mutated
type CommentsChanged struct {
	AssetID string `json:"asset_id"`
}

func (CommentsChanged) Topic() Topic { return TopicCommentsChanged }

// CommentsUpdated carries a freshly fetched and sorted comment list
type CommentsUpdated struct {
	AssetID  string             `json:"asset_id"`
	Seq      uint64             `json:"seq"`
	Comments []entities.Comment `json:"comments"`
}

func (CommentsUpdated) Topic() Topic { return TopicCommentsUpdated }

// LiveStatusChanged reports the live/quiet indicator
type LiveStatusChanged struct {
	Live  bool `json:"live"`
	Quiet bool `json:"quiet"`
}

func (LiveStatusChanged) Topic() Topic { return TopicLiveStatusChanged }

// PageSynced reports the page shown in the document viewer
type PageSynced struct {
	Page       int  `json:"page"`
	TotalPages *int `json:"total_pages,omitempty"`
}

func (PageSynced) Topic() Topic { return TopicPageSynced }

// SnapshotCaptured carries a region snapshot captured in the viewer
type SnapshotCaptured struct {
	Page  int    `json:"page"`
	Image string `json:"image"`
}

func (SnapshotCaptured) Topic() Topic { return TopicSnapshotCaptured }

// JumpToPage is the host-to-viewer navigation command
type JumpToPage struct {
	Page int `json:"page"`
}

func (JumpToPage) Topic() Topic { return TopicJumpToPage }

// ActiveCommentChanged reports the comment nearest the playback position
type ActiveCommentChanged struct {
	CommentID int64 `json:"comment_id"`
	Active    bool  `json:"active"`
}

func (ActiveCommentChanged) Topic() Topic { return TopicActiveCommentChanged }

// ScrollRequested asks the surface to scroll a comment into view
type ScrollRequested struct {
	CommentID int64 `json:"comment_id"`
}

func (ScrollRequested) Topic() Topic { return TopicScrollRequested }

// SeekRequested asks the player to move to a position
type SeekRequested struct {
	Position float64 `json:"position"`
}

func (SeekRequested) Topic() Topic { return TopicSeekRequested }

// CaptionChanged carries the transcript line under the playback position
type CaptionChanged struct {
	Text string `json:"text"`
}

func (CaptionChanged) Topic() Topic { return TopicCaptionChanged }

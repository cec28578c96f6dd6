package entity

// CounterReport compares the denormalized counters on a post with the
// number of like and comment documents that reference it.
type CounterReport struct {
	PostID         string `json:"post_id"`
	StoredLikes    int    `json:"stored_likes"`
	ActualLikes    int    `json:"actual_likes"`
	StoredComments int    `json:"stored_comments"`
	ActualComments int    `json:"actual_comments"`
	Drifted        bool   `json:"drifted"`
	Repaired       bool   `json:"repaired"`
}

func NewCounterReport(post *Post, actualLikes, actualComments int) *CounterReport {
	return &CounterReport{
		PostID:         post.ID,
		StoredLikes:    post.LikeCount,
		ActualLikes:    actualLikes,
		StoredComments: post.CommentCount,
		ActualComments: actualComments,
		Drifted:        post.LikeCount != actualLikes || post.CommentCount != actualComments,
	}
}

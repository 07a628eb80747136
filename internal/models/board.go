// Package models defines the four synchronized entity sets of the union
// community site (site settings, posts, deleted posts, members), their
// validation rules, and the content fingerprint used for change detection.
package models

// BoardType tags a post with the board it belongs to.
type BoardType string

const (
	BoardNotice       BoardType = "notice"
	BoardNoticeAll    BoardType = "notice_all"
	BoardFamilyEvents BoardType = "family_events"
	BoardFree         BoardType = "free"
	BoardResources    BoardType = "resources"
)

// AdminOnlyBoards lists the boards only an admin may post to.
var AdminOnlyBoards = []BoardType{BoardNotice, BoardNoticeAll, BoardFamilyEvents, BoardResources}

func (b BoardType) Valid() bool {
	switch b {
	case BoardNotice, BoardNoticeAll, BoardFamilyEvents, BoardFree, BoardResources:
		return true
	}
	return false
}

// AdminOnly reports whether posting to this board requires the admin role.
func (b BoardType) AdminOnly() bool {
	for _, t := range AdminOnlyBoards {
		if b == t {
			return true
		}
	}
	return false
}

package models

// TargetKind 是可投票/可评论对象的类型标签
type TargetKind string

const (
	KindIssue        TargetKind = "issue"
	KindAnnouncement TargetKind = "announcement"
	KindComment      TargetKind = "comment"
)

// TargetSpec 描述一种目标类型的存储位置与能力
type TargetSpec struct {
	Table       string
	Votable     bool
	Commentable bool
	RateLimited bool // 评论是否需要限流
	Archivable  bool // 表中有 archived 列
}

// targets is the closed registry of target kinds. Adding a kind means adding
// one entry here plus its table.
var targets = map[TargetKind]TargetSpec{
	KindIssue:        {Table: "issues", Votable: true, Commentable: true, RateLimited: true, Archivable: true},
	KindAnnouncement: {Table: "announcements", Votable: true, Commentable: true},
	KindComment:      {Table: "comments", Votable: true},
}

// LookupTarget returns the registry entry for kind.
func LookupTarget(kind TargetKind) (TargetSpec, bool) {
	spec, ok := targets[kind]
	return spec, ok
}

// VotableKinds lists every kind that carries an upvote counter.
func VotableKinds() []TargetKind {
	return []TargetKind{KindIssue, KindAnnouncement, KindComment}
}

// Target is the store's view of a votable/commentable row.
type Target struct {
	Kind     TargetKind `json:"kind"`
	ID       uint       `json:"id"`
	Upvotes  int        `json:"upvotes"`
	Archived bool       `json:"archived"`
}

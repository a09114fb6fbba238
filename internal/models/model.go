package models

import "time"

type Role string

const (
	RoleVisitor Role = "visitor"
	RoleAdmin   Role = "admin"
)

// ContentType tags the three likeable entity kinds. Every polymorphic
// dispatch in the engine goes through this enum, never through type names.
type ContentType string

const (
	TypeArticle ContentType = "article"
	TypeReview  ContentType = "review"
	TypeComment ContentType = "comment"
)

// ContentTypes lists all valid tags in a stable order.
var ContentTypes = []ContentType{TypeArticle, TypeReview, TypeComment}

func (t ContentType) Valid() bool {
	return t == TypeArticle || t == TypeReview || t == TypeComment
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

type Article struct {
	ID             int64     `json:"id"`
	AuthorID       int64     `json:"authorId"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Excerpt        string    `json:"excerpt"`
	Content        string    `json:"content"`
	Image          string    `json:"image"`
	SecondaryImage string    `json:"secondaryImage"`
	ReadingTime    string    `json:"readingTime"`
	LikeCount      int       `json:"likeCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Author         string    `json:"author"`
}

type Review struct {
	ID             int64     `json:"id"`
	AuthorID       int64     `json:"authorId"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Excerpt        string    `json:"excerpt"`
	Content        string    `json:"content"`
	Image          string    `json:"image"`
	SecondaryImage string    `json:"secondaryImage"`
	ReadingTime    string    `json:"readingTime"`
	GameTitle      string    `json:"gameTitle"`
	Platform       string    `json:"platform"`
	Genre          string    `json:"genre"`
	Rating         int       `json:"rating"`
	LikeCount      int       `json:"likeCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Author         string    `json:"author"`
}

// Comment attaches to exactly one of an article or a review, and optionally
// replies to a parent comment. Deleted marks the soft-deleted placeholder
// state: content cleared, row retained so replies keep a valid parent.
type Comment struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"authorId"`
	ArticleID *int64    `json:"articleId,omitempty"`
	ReviewID  *int64    `json:"reviewId,omitempty"`
	ParentID  *int64    `json:"parentCommentId,omitempty"`
	Content   string    `json:"content"`
	Deleted   bool      `json:"isDeleted"`
	LikeCount int       `json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
	Author    string    `json:"author"`
}

// Like is one ledger fact: this user likes this content. At most one row per
// (user, content type, content id) triple, enforced by the store.
type Like struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"userId"`
	ContentType ContentType `json:"contentType"`
	ContentID   int64       `json:"contentId"`
	CreatedAt   time.Time   `json:"createdAt"`
}

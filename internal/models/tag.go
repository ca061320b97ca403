package models

// Tag is a read-only attribute of posts, attached through the post_tags
// join table.
type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;size:30"`
}

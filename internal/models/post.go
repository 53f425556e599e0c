package models

import (
	"time"
)

type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"autoCreateTime;index" json:"pub_date"`
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	GroupID  *uint     `gorm:"index" json:"group_id"` // Nullable
	Group    *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group"`
	Image    string    `json:"image"` // Optional, path relative to the media root
}

// OwnerID implements access.Owned
func (p *Post) OwnerID() uint {
	return p.AuthorID
}

// String 返回正文前 30 个字符
func (p Post) String() string {
	runes := []rune(p.Text)
	if len(runes) > 30 {
		return string(runes[:30])
	}
	return p.Text
}

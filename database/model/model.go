package model

import "time"

// Post is a single blog entry. Content holds raw Markdown as persisted;
// RenderedContent is derived on read and never stored.
type Post struct {
	Id              int       `json:"id" form:"id" gorm:"primaryKey;autoIncrement"`
	Title           string    `json:"title" form:"title" gorm:"not null"`
	Content         string    `json:"content" form:"content" gorm:"not null;type:text"`
	Author          string    `json:"author" form:"author" gorm:"not null"`
	CreateTime      time.Time `json:"createTime" gorm:"column:create_time;not null"`
	RenderedContent string    `json:"renderedContent" gorm:"-"`
}

func (Post) TableName() string {
	return "posts"
}

// RoleAdmin is the single capability tag in this system. Exactly one
// configured account carries it.
const RoleAdmin = "ADMIN"

// Principal identifies an authenticated session. It lives only in the
// session store, never in the database. LoginID ties the login and logout
// log lines of one session together.
type Principal struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	LoginID  string `json:"loginId"`
}

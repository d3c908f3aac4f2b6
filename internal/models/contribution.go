package models

import (
	"time"
)

// SystemAuthorID 系统身份，用于作品完结时追加的收尾条目
const SystemAuthorID = "00000000-0000-0000-0000-000000000000"

type Contribution struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	WorkID         string    `gorm:"size:36;not null;index;uniqueIndex:idx_work_author_day" json:"work_id"`
	AuthorID       string    `gorm:"size:36;not null;index;uniqueIndex:idx_work_author_day" json:"author_id"`
	AuthorNickname string    `gorm:"size:50" json:"author_nickname"` // 写入时冗余保存
	Content        string    `gorm:"size:200;not null" json:"content"`
	Day            string    `gorm:"size:10;not null;uniqueIndex:idx_work_author_day" json:"-"` // UTC 日期 YYYY-MM-DD
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// IsClosing 是否为系统追加的完结条目
func (c *Contribution) IsClosing() bool {
	return c.AuthorID == SystemAuthorID
}

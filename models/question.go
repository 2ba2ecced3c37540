package models

// Question is a question/answer pair the bot posts in a guild.
type Question struct {
	ID        string `json:"id" gorm:"primaryKey;size:8"`
	GuildID   string `json:"guild_id" gorm:"not null;index"`
	Question  string `json:"question" gorm:"not null"`
	Answer    string `json:"answer" gorm:"not null"`
	Author    string `json:"author" gorm:"not null"`
	TimesSent int    `json:"times_sent" gorm:"not null;default:0"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestionUpdate holds the only fields an update may change.
type QuestionUpdate struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

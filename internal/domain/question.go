package domain

import (
	"github.com/google/uuid"
)

// Question is a prompt from the question bank. Choice-type questions carry
// two options; daily questions are free-form.
type Question struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Type    GameType  `json:"type" gorm:"not null;index"`
	Text    string    `json:"text" gorm:"not null"`
	OptionA string    `json:"optionA"`
	OptionB string    `json:"optionB"`
	Active  bool      `json:"active" gorm:"not null;default:true"`
}

package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GameType string

const (
	GameTypeDaily          GameType = "daily"
	GameTypeThisOrThat     GameType = "this_or_that"
	GameTypeMoreLikely     GameType = "more_likely"
	GameTypeWouldYouRather GameType = "would_you_rather"
)

// IsChoice reports whether the type is one of the ticket-gated choice games.
func (t GameType) IsChoice() bool {
	switch t {
	case GameTypeThisOrThat, GameTypeMoreLikely, GameTypeWouldYouRather:
		return true
	}
	return false
}

// IsValid reports whether the type is a known game type.
func (t GameType) IsValid() bool {
	return t == GameTypeDaily || t.IsChoice()
}

type SessionStatus string

const (
	SessionStatusWaiting   SessionStatus = "waiting"
	SessionStatusCompleted SessionStatus = "completed"
)

// Answer is one member's submission on a game session.
type Answer struct {
	Value      string    `json:"value"`
	AnsweredAt time.Time `json:"answeredAt"`
}

type GameSession struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CoupleID    uuid.UUID      `json:"coupleId" gorm:"type:uuid;not null;index"`
	Type        GameType       `json:"type" gorm:"not null"`
	QuestionID  uuid.UUID      `json:"questionId" gorm:"type:uuid;not null"`
	InitiatorID uuid.UUID      `json:"initiatorId" gorm:"type:uuid;not null"`
	Answers     datatypes.JSON `json:"answers" gorm:"not null"`
	Status      SessionStatus  `json:"status" gorm:"not null;default:'waiting'"`
	Purchased   bool           `json:"purchased" gorm:"not null;default:false"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	CompletedAt *time.Time     `json:"completedAt"`

	// Relations
	Question *Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

// DecodeAnswers unmarshals the answers map keyed by member id string.
// A nil/empty column decodes to an empty map.
func (s *GameSession) DecodeAnswers() (map[string]Answer, error) {
	answers := make(map[string]Answer)
	if len(s.Answers) == 0 {
		return answers, nil
	}
	if err := json.Unmarshal(s.Answers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// EncodeAnswers stores the answers map back into the JSON column.
func (s *GameSession) EncodeAnswers(answers map[string]Answer) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	s.Answers = datatypes.JSON(data)
	return nil
}

// HasAnswerFrom reports whether the given member already answered.
func (s *GameSession) HasAnswerFrom(userID uuid.UUID) bool {
	answers, err := s.DecodeAnswers()
	if err != nil {
		return false
	}
	_, ok := answers[userID.String()]
	return ok
}

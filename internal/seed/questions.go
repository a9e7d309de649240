// Package seed holds the built-in question bank used to bootstrap an
// empty database.
package seed

import (
	"github.com/google/uuid"
	"github.com/mins/twogether/internal/domain"
)

// Questions returns the default question pool for every game type.
func Questions() []*domain.Question {
	var questions []*domain.Question

	daily := []string{
		"What small thing did your partner do this week that made you smile?",
		"If we could teleport anywhere for dinner tonight, where would you pick?",
		"What song reminds you of the early days of our relationship?",
		"What is one thing you want us to try together this year?",
		"Which habit of mine did you find weird at first but love now?",
		"What moment from our relationship would you relive if you could?",
	}
	for _, text := range daily {
		questions = append(questions, &domain.Question{
			ID:     uuid.New(),
			Type:   domain.GameTypeDaily,
			Text:   text,
			Active: true,
		})
	}

	thisOrThat := [][3]string{
		{"For our next date night", "Cozy movie at home", "Dressed-up dinner out"},
		{"For a weekend away", "Mountains", "Beach"},
		{"On a lazy Sunday morning", "Sleep in late", "Early breakfast run"},
		{"For a surprise gift", "Something handmade", "Something from my wishlist"},
	}
	for _, q := range thisOrThat {
		questions = append(questions, &domain.Question{
			ID:      uuid.New(),
			Type:    domain.GameTypeThisOrThat,
			Text:    q[0],
			OptionA: q[1],
			OptionB: q[2],
			Active:  true,
		})
	}

	moreLikely := []string{
		"Who is more likely to cry during a movie?",
		"Who is more likely to forget an anniversary?",
		"Who is more likely to win an argument about directions?",
		"Who is more likely to adopt a stray animal on the spot?",
	}
	for _, text := range moreLikely {
		questions = append(questions, &domain.Question{
			ID:      uuid.New(),
			Type:    domain.GameTypeMoreLikely,
			Text:    text,
			OptionA: "Me",
			OptionB: "My partner",
			Active:  true,
		})
	}

	wouldYouRather := [][3]string{
		{"Would you rather...", "Know every secret I've ever kept", "Have me know all of yours"},
		{"Would you rather...", "Travel the world together for a year", "Buy our dream home now"},
		{"Would you rather...", "Relive our first date", "Fast-forward to our 50th anniversary for a day"},
		{"Would you rather...", "Never argue again", "Always make up within an hour"},
	}
	for _, q := range wouldYouRather {
		questions = append(questions, &domain.Question{
			ID:      uuid.New(),
			Type:    domain.GameTypeWouldYouRather,
			Text:    q[0],
			OptionA: q[1],
			OptionB: q[2],
			Active:  true,
		})
	}

	return questions
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mins/twogether/internal/domain"
	"github.com/mins/twogether/internal/period"
	"github.com/mins/twogether/internal/repository/postgres"
	"github.com/mins/twogether/internal/service"
	"github.com/mins/twogether/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameService_StartDaily(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)
	ctx := context.Background()
	testutil.SeedQuestions(t, testDB.DB)

	t.Run("consumes quota and blocks the partner", func(t *testing.T) {
		couple, member1, member2 := testutil.NewCoupleBuilder().Build(t, testDB.DB)

		result, err := services.Game.StartDaily(ctx, couple.ID, member1.ID, false)
		require.NoError(t, err)
		assert.Equal(t, domain.SessionStatusWaiting, result.Session.Status)
		assert.Equal(t, domain.GameTypeDaily, result.Session.Type)
		assert.NotEmpty(t, result.Question.Text)
		assert.Equal(t, 0, result.Couple.DailyRemaining)
		assert.True(t, result.Couple.HasPendingDaily)

		// The partner cannot open a second daily while one is pending.
		_, err = services.Game.StartDaily(ctx, couple.ID, member2.ID, false)
		assert.ErrorIs(t, err, domain.ErrPendingDailyExists)
	})

	t.Run("exhausted quota", func(t *testing.T) {
		couple, member1, _ := testutil.NewCoupleBuilder().
			WithDailyRemaining(0).
			Build(t, testDB.DB)

		_, err := services.Game.StartDaily(ctx, couple.ID, member1.ID, false)
		assert.ErrorIs(t, err, domain.ErrNoDailyRemaining)
	})

	t.Run("purchased start bypasses quota", func(t *testing.T) {
		couple, member1, _ := testutil.NewCoupleBuilder().
			WithDailyRemaining(0).
			Build(t, testDB.DB)

		result, err := services.Game.StartDaily(ctx, couple.ID, member1.ID, true)
		require.NoError(t, err)
		assert.True(t, result.Session.Purchased)
		assert.Equal(t, 0, result.Couple.DailyRemaining)
		assert.True(t, result.Couple.HasPendingDaily)
	})

	t.Run("stale quota is refreshed before the check", func(t *testing.T) {
		couple, member1, _ := testutil.NewCoupleBuilder().
			WithDailyRemaining(0).
			WithDailyResetDate("2020-01-01").
			Build(t, testDB.DB)

		result, err := services.Game.StartDaily(ctx, couple.ID, member1.ID, false)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Couple.DailyRemaining) // refilled to 1, then consumed
	})

	t.Run("non-member cannot start", func(t *testing.T) {
		couple, _, _ := testutil.NewCoupleBuilder().Build(t, testDB.DB)
		stranger, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

		_, err := services.Game.StartDaily(ctx, couple.ID, stranger.ID, false)
		assert.ErrorIs(t, err, domain.ErrNotCoupleMember)
	})
}

func TestGameService_StartChoice(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)
	ctx := context.Background()
	testutil.SeedQuestions(t, testDB.DB)

	t.Run("pending cap allows three then rejects the fourth", func(t *testing.T) {
		couple, member1, member2 := testutil.NewCoupleBuilder().Build(t, testDB.DB)

		types := []domain.GameType{
			domain.GameTypeThisOrThat,
			domain.GameTypeMoreLikely,
			domain.GameTypeWouldYouRather,
		}
		for i, gameType := range types {
			result, err := services.Game.StartChoice(ctx, couple.ID, member1.ID, gameType, false)
			require.NoError(t, err)
			assert.Equal(t, i+1, result.Couple.PendingChoiceCount)
			assert.Equal(t, 3-(i+1), result.Couple.TicketsRemaining)
		}

		// Fourth start hits the cap even from the other partner, even
		// when purchased.
		_, err := services.Game.StartChoice(ctx, couple.ID, member2.ID, domain.GameTypeThisOrThat, true)
		assert.ErrorIs(t, err, domain.ErrPendingChoiceLimit)
	})

	t.Run("no tickets left", func(t *testing.T) {
		couple, member1, _ := testutil.NewCoupleBuilder().
			WithTicketsRemaining(0).
			Build(t, testDB.DB)

		_, err := services.Game.StartChoice(ctx, couple.ID, member1.ID, domain.GameTypeMoreLikely, false)
		assert.ErrorIs(t, err, domain.ErrNoTicketsRemaining)
	})

	t.Run("purchased start keeps tickets", func(t *testing.T) {
		couple, member1, _ := testutil.NewCoupleBuilder().
			WithTicketsRemaining(0).
			Build(t, testDB.DB)

		result, err := services.Game.StartChoice(ctx, couple.ID, member1.ID, domain.GameTypeWouldYouRather, true)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Couple.TicketsRemaining)
		assert.Equal(t, 1, result.Couple.PendingChoiceCount)
	})

	t.Run("daily type is not a choice game", func(t *testing.T) {
		couple, member1, _ := testutil.NewCoupleBuilder().Build(t, testDB.DB)

		_, err := services.Game.StartChoice(ctx, couple.ID, member1.ID, domain.GameTypeDaily, false)
		assert.ErrorIs(t, err, domain.ErrUnsupportedGameType)

		_, err = services.Game.StartChoice(ctx, couple.ID, member1.ID, domain.GameType("trivia"), false)
		assert.ErrorIs(t, err, domain.ErrUnsupportedGameType)
	})
}

func TestGameService_SubmitAnswer(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)
	ctx := context.Background()
	testutil.SeedQuestions(t, testDB.DB)

	t.Run("completion requires both members", func(t *testing.T) {
		couple, member1, member2 := testutil.NewCoupleBuilder().Build(t, testDB.DB)
		started, err := services.Game.StartDaily(ctx, couple.ID, member1.ID, false)
		require.NoError(t, err)
		sessionID := started.Session.ID

		first, err := services.Game.SubmitAnswer(ctx, couple.ID, sessionID, member1.ID, "the way you laughed on Tuesday")
		require.NoError(t, err)
		assert.False(t, first.Completed)

		// Still waiting after one answer
		sess, err := repos.GameSession.GetByID(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.SessionStatusWaiting, sess.Status)

		second, err := services.Game.SubmitAnswer(ctx, couple.ID, sessionID, member2.ID, "your terrible puns")
		require.NoError(t, err)
		assert.True(t, second.Completed)

		sess, err = repos.GameSession.GetByID(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.SessionStatusCompleted, sess.Status)
		require.NotNil(t, sess.CompletedAt)

		answers, err := sess.DecodeAnswers()
		require.NoError(t, err)
		assert.Len(t, answers, 2)

		// Streak credited, pending flag cleared
		fresh, err := repos.Couple.GetByID(ctx, couple.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, fresh.Streak)
		assert.False(t, fresh.HasPendingDaily)
		assert.Equal(t, period.Daily(time.Now()), fresh.LastStreakEarnedDate)
	})

	t.Run("each answer pays the submitter immediately", func(t *testing.T) {
		couple, member1, member2 := testutil.NewCoupleBuilder().Build(t, testDB.DB)
		started, err := services.Game.StartChoice(ctx, couple.ID, member1.ID, domain.GameTypeThisOrThat, false)
		require.NoError(t, err)

		_, err = services.Game.SubmitAnswer(ctx, couple.ID, started.Session.ID, member1.ID, "a")
		require.NoError(t, err)

		// Points land even though the session is still waiting.
		user, err := repos.User.GetByID(ctx, member1.ID)
		require.NoError(t, err)
		assert.Equal(t, service.AnswerPoints, user.Points)

		partner, err := repos.User.GetByID(ctx, member2.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, partner.Points)
	})

	t.Run("double answer is rejected", func(t *testing.T) {
		couple, member1, _ := testutil.NewCoupleBuilder().Build(t, testDB.DB)
		started, err := services.Game.StartDaily(ctx, couple.ID, member1.ID, false)
		require.NoError(t, err)

		_, err = services.Game.SubmitAnswer(ctx, couple.ID, started.Session.ID, member1.ID, "first")
		require.NoError(t, err)
		_, err = services.Game.SubmitAnswer(ctx, couple.ID, started.Session.ID, member1.ID, "second")
		assert.ErrorIs(t, err, domain.ErrAlreadyAnswered)

		sess, err := repos.GameSession.GetByID(ctx, started.Session.ID)
		require.NoError(t, err)
		answers, err := sess.DecodeAnswers()
		require.NoError(t, err)
		assert.Len(t, answers, 1)
		assert.Equal(t, "first", answers[member1.ID.String()].Value)
	})

	t.Run("completed session is immutable", func(t *testing.T) {
		couple, member1, member2 := testutil.NewCoupleBuilder().Build(t, testDB.DB)
		started, err := services.Game.StartDaily(ctx, couple.ID, member1.ID, false)
		require.NoError(t, err)

		_, err = services.Game.SubmitAnswer(ctx, couple.ID, started.Session.ID, member1.ID, "a")
		require.NoError(t, err)
		_, err = services.Game.SubmitAnswer(ctx, couple.ID, started.Session.ID, member2.ID, "b")
		require.NoError(t, err)

		_, err = services.Game.SubmitAnswer(ctx, couple.ID, started.Session.ID, member1.ID, "again")
		assert.ErrorIs(t, err, domain.ErrSessionCompleted)
	})

	t.Run("unknown session", func(t *testing.T) {
		couple, member1, _ := testutil.NewCoupleBuilder().Build(t, testDB.DB)
		_, err := services.Game.SubmitAnswer(ctx, couple.ID, uuid.New(), member1.ID, "x")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestGameService_StreakLaws(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)
	ctx := context.Background()
	testutil.SeedQuestions(t, testDB.DB)

	complete := func(t *testing.T, coupleID, m1, m2 uuid.UUID, gameType domain.GameType) {
		t.Helper()
		var started *service.StartResult
		var err error
		if gameType == domain.GameTypeDaily {
			started, err = services.Game.StartDaily(ctx, coupleID, m1, true)
		} else {
			started, err = services.Game.StartChoice(ctx, coupleID, m1, gameType, true)
		}
		require.NoError(t, err)
		_, err = services.Game.SubmitAnswer(ctx, coupleID, started.Session.ID, m1, "a")
		require.NoError(t, err)
		result, err := services.Game.SubmitAnswer(ctx, coupleID, started.Session.ID, m2, "b")
		require.NoError(t, err)
		require.True(t, result.Completed)
	}

	t.Run("two completions on one day credit once", func(t *testing.T) {
		couple, member1, member2 := testutil.NewCoupleBuilder().Build(t, testDB.DB)

		complete(t, couple.ID, member1.ID, member2.ID, domain.GameTypeDaily)
		complete(t, couple.ID, member1.ID, member2.ID, domain.GameTypeThisOrThat)

		fresh, err := repos.Couple.GetByID(ctx, couple.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, fresh.Streak)
	})

	t.Run("yesterday's streak continues", func(t *testing.T) {
		yesterday := period.Daily(time.Now().Add(-24 * time.Hour))
		couple, member1, member2 := testutil.NewCoupleBuilder().
			WithStreak(6, yesterday).
			Build(t, testDB.DB)

		complete(t, couple.ID, member1.ID, member2.ID, domain.GameTypeMoreLikely)

		fresh, err := repos.Couple.GetByID(ctx, couple.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, fresh.Streak)
	})

	t.Run("a gap resets to one, not previous plus one", func(t *testing.T) {
		couple, member1, member2 := testutil.NewCoupleBuilder().
			WithStreak(12, "2020-06-01").
			Build(t, testDB.DB)

		complete(t, couple.ID, member1.ID, member2.ID, domain.GameTypeWouldYouRather)

		fresh, err := repos.Couple.GetByID(ctx, couple.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, fresh.Streak)
	})
}

func TestGameService_PendingAndHistory(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)
	ctx := context.Background()
	testutil.SeedQuestions(t, testDB.DB)

	couple, member1, member2 := testutil.NewCoupleBuilder().Build(t, testDB.DB)

	daily, err := services.Game.StartDaily(ctx, couple.ID, member1.ID, false)
	require.NoError(t, err)
	choice, err := services.Game.StartChoice(ctx, couple.ID, member1.ID, domain.GameTypeThisOrThat, false)
	require.NoError(t, err)

	// Initiator answers the daily; the choice game stays untouched.
	_, err = services.Game.SubmitAnswer(ctx, couple.ID, daily.Session.ID, member1.ID, "answer")
	require.NoError(t, err)

	t.Run("pending hides sessions the member already answered", func(t *testing.T) {
		forMember1, err := services.Game.GetPending(ctx, couple.ID, member1.ID)
		require.NoError(t, err)
		require.Len(t, forMember1, 1)
		assert.Equal(t, choice.Session.ID, forMember1[0].ID)

		forMember2, err := services.Game.GetPending(ctx, couple.ID, member2.ID)
		require.NoError(t, err)
		assert.Len(t, forMember2, 2)
	})

	t.Run("pending is empty for a vanished couple", func(t *testing.T) {
		got, err := services.Game.GetPending(ctx, uuid.New(), member1.ID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("pending is empty for an outsider", func(t *testing.T) {
		stranger, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		got, err := services.Game.GetPending(ctx, couple.ID, stranger.ID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("history is newest first with answerability", func(t *testing.T) {
		entries, err := services.Game.GetHistory(ctx, couple.ID, member1.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, choice.Session.ID, entries[0].Session.ID)
		assert.True(t, entries[0].CanAnswer)

		assert.Equal(t, daily.Session.ID, entries[1].Session.ID)
		assert.False(t, entries[1].CanAnswer) // member1 already answered
	})
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mins/twogether/internal/domain"
	"github.com/mins/twogether/internal/repository/postgres"
	"github.com/mins/twogether/internal/service"
	"github.com/mins/twogether/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairingService_GenerateCode(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)
	ctx := context.Background()

	t.Run("unpaired user gets a code", func(t *testing.T) {
		user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

		invite, err := services.Pairing.GenerateCode(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, invite.Code, 6)
		assert.Equal(t, domain.InviteStatusPending, invite.Status)
		assert.True(t, invite.ExpiresAt.After(time.Now()))
	})

	t.Run("codes are unique", func(t *testing.T) {
		codes := make(map[string]bool)
		for i := 0; i < 10; i++ {
			user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
			invite, err := services.Pairing.GenerateCode(ctx, user.ID)
			require.NoError(t, err)
			assert.False(t, codes[invite.Code], "duplicate invite code generated")
			codes[invite.Code] = true
		}
	})

	t.Run("paired user is rejected", func(t *testing.T) {
		_, member1, _ := testutil.NewCoupleBuilder().Build(t, testDB.DB)

		_, err := services.Pairing.GenerateCode(ctx, member1.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyPaired)
	})
}

func TestPairingService_ValidateCode(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)
	ctx := context.Background()

	inviter, _ := testutil.NewUserBuilder().WithDisplayName("inviter").Build(t, testDB.DB)
	requester, _ := testutil.NewUserBuilder().WithDisplayName("requester").Build(t, testDB.DB)

	invite, err := services.Pairing.GenerateCode(ctx, inviter.ID)
	require.NoError(t, err)

	t.Run("valid code returns inviter", func(t *testing.T) {
		got, err := services.Pairing.ValidateCode(ctx, invite.Code, requester.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Inviter)
		assert.Equal(t, "inviter", got.Inviter.DisplayName)
	})

	t.Run("validate does not consume the code", func(t *testing.T) {
		_, err := services.Pairing.ValidateCode(ctx, invite.Code, requester.ID)
		require.NoError(t, err)
		stored, err := repos.Invite.GetByCode(ctx, invite.Code)
		require.NoError(t, err)
		assert.Equal(t, domain.InviteStatusPending, stored.Status)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := services.Pairing.ValidateCode(ctx, "NOSUCH", requester.ID)
		assert.ErrorIs(t, err, domain.ErrCodeNotFound)
	})

	t.Run("own code", func(t *testing.T) {
		_, err := services.Pairing.ValidateCode(ctx, invite.Code, inviter.ID)
		assert.ErrorIs(t, err, domain.ErrOwnCode)
	})

	t.Run("expired code", func(t *testing.T) {
		expired, err := services.Pairing.GenerateCode(ctx, requester.ID)
		require.NoError(t, err)
		err = testDB.DB.Model(&domain.InviteCode{}).
			Where("code = ?", expired.Code).
			Update("expires_at", time.Now().Add(-time.Minute)).Error
		require.NoError(t, err)

		other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		_, err = services.Pairing.ValidateCode(ctx, expired.Code, other.ID)
		assert.ErrorIs(t, err, domain.ErrCodeExpired)
	})
}

func TestPairingService_AcceptInvite(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)
	ctx := context.Background()

	t.Run("creates couple with default quotas", func(t *testing.T) {
		inviter, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		requester, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		invite, err := services.Pairing.GenerateCode(ctx, inviter.ID)
		require.NoError(t, err)

		couple, err := services.Pairing.AcceptInvite(ctx, invite.Code, requester.ID, "2024-01-01")
		require.NoError(t, err)

		assert.Equal(t, 1, couple.DailyRemaining)
		assert.Equal(t, 3, couple.TicketsRemaining)
		assert.Equal(t, 0, couple.Streak)
		assert.Equal(t, "2024-01-01", couple.AnniversaryDate)
		assert.True(t, couple.HasMember(inviter.ID))
		assert.True(t, couple.HasMember(requester.ID))

		// Both members are linked
		for _, id := range couple.MemberIDs() {
			user, err := repos.User.GetByID(ctx, id)
			require.NoError(t, err)
			require.NotNil(t, user.CoupleID)
			assert.Equal(t, couple.ID, *user.CoupleID)
		}

		// Code is consumed
		stored, err := repos.Invite.GetByCode(ctx, invite.Code)
		require.NoError(t, err)
		assert.Equal(t, domain.InviteStatusConsumed, stored.Status)
	})

	t.Run("consumed code cannot be accepted again", func(t *testing.T) {
		inviter, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		requester, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		latecomer, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		invite, err := services.Pairing.GenerateCode(ctx, inviter.ID)
		require.NoError(t, err)

		_, err = services.Pairing.AcceptInvite(ctx, invite.Code, requester.ID, "")
		require.NoError(t, err)

		_, err = services.Pairing.AcceptInvite(ctx, invite.Code, latecomer.ID, "")
		assert.ErrorIs(t, err, domain.ErrCodeConsumed)
	})

	t.Run("expired code is rejected at accept", func(t *testing.T) {
		inviter, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		requester, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		invite, err := services.Pairing.GenerateCode(ctx, inviter.ID)
		require.NoError(t, err)

		// Simulate the 61st minute of a 1-hour TTL
		err = testDB.DB.Model(&domain.InviteCode{}).
			Where("code = ?", invite.Code).
			Update("expires_at", time.Now().Add(-time.Minute)).Error
		require.NoError(t, err)

		_, err = services.Pairing.AcceptInvite(ctx, invite.Code, requester.ID, "2024-01-01")
		assert.ErrorIs(t, err, domain.ErrCodeExpired)
	})

	t.Run("requester who paired elsewhere is rejected", func(t *testing.T) {
		inviter, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		invite, err := services.Pairing.GenerateCode(ctx, inviter.ID)
		require.NoError(t, err)

		_, member1, _ := testutil.NewCoupleBuilder().Build(t, testDB.DB)
		_, err = services.Pairing.AcceptInvite(ctx, invite.Code, member1.ID, "")
		assert.ErrorIs(t, err, domain.ErrAlreadyPaired)
	})

	t.Run("inviter who paired elsewhere is rejected", func(t *testing.T) {
		inviter, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		requester, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		partner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

		invite, err := services.Pairing.GenerateCode(ctx, inviter.ID)
		require.NoError(t, err)

		// Inviter pairs with someone else through a second code
		second, err := services.Pairing.GenerateCode(ctx, inviter.ID)
		require.NoError(t, err)
		_, err = services.Pairing.AcceptInvite(ctx, second.Code, partner.ID, "")
		require.NoError(t, err)

		_, err = services.Pairing.AcceptInvite(ctx, invite.Code, requester.ID, "")
		assert.ErrorIs(t, err, domain.ErrInviterUnavailable)
	})

	t.Run("concurrent accepts of one inviter's codes pair exactly once", func(t *testing.T) {
		inviter, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		requester1, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		requester2, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

		first, err := services.Pairing.GenerateCode(ctx, inviter.ID)
		require.NoError(t, err)
		second, err := services.Pairing.GenerateCode(ctx, inviter.ID)
		require.NoError(t, err)

		type outcome struct {
			couple *domain.Couple
			err    error
		}
		results := make(chan outcome, 2)
		start := make(chan struct{})
		for _, attempt := range []struct {
			code      string
			requester uuid.UUID
		}{
			{first.Code, requester1.ID},
			{second.Code, requester2.ID},
		} {
			go func(code string, requesterID uuid.UUID) {
				<-start
				couple, err := services.Pairing.AcceptInvite(ctx, code, requesterID, "")
				results <- outcome{couple: couple, err: err}
			}(attempt.code, attempt.requester)
		}
		close(start)

		var won []*domain.Couple
		var lost []error
		for i := 0; i < 2; i++ {
			res := <-results
			if res.err != nil {
				lost = append(lost, res.err)
			} else {
				won = append(won, res.couple)
			}
		}
		require.Len(t, won, 1, "exactly one accept must win")
		require.Len(t, lost, 1)
		assert.ErrorIs(t, lost[0], domain.ErrInviterUnavailable)

		// The inviter belongs to the winning couple and no other.
		stored, err := repos.User.GetByID(ctx, inviter.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.CoupleID)
		assert.Equal(t, won[0].ID, *stored.CoupleID)
	})
}

func TestPairingService_ValidateCode_StoreError(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)
	ctx := context.Background()

	inviter, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	requester, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	invite, err := services.Pairing.GenerateCode(ctx, inviter.ID)
	require.NoError(t, err)

	// Break the users table so the lookup fails with something other
	// than a missing row. That failure must not masquerade as not-found.
	require.NoError(t, testDB.DB.Exec(`ALTER TABLE users RENAME TO users_offline`).Error)

	_, err = services.Pairing.ValidateCode(ctx, invite.Code, requester.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUserNotFound)
}

func TestPairingService_Unpair(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)
	ctx := context.Background()
	testutil.SeedQuestions(t, testDB.DB)

	couple, member1, member2 := testutil.NewCoupleBuilder().Build(t, testDB.DB)

	// An outstanding session should be cleaned up with the couple
	_, err := services.Game.StartDaily(ctx, couple.ID, member1.ID, false)
	require.NoError(t, err)

	err = services.Pairing.Unpair(ctx, member1.ID)
	require.NoError(t, err)

	// Couple is gone
	_, err = services.Couple.EnsureFresh(ctx, couple.ID)
	assert.ErrorIs(t, err, domain.ErrCoupleNotFound)

	// Both members are unlinked
	for _, id := range []string{member1.ID.String(), member2.ID.String()} {
		var user domain.User
		require.NoError(t, testDB.DB.First(&user, "id = ?", id).Error)
		assert.Nil(t, user.CoupleID)
	}

	// Sessions are gone
	sessions, err := repos.GameSession.GetWaitingByCouple(ctx, couple.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// Unpairing again fails
	err = services.Pairing.Unpair(ctx, member1.ID)
	assert.ErrorIs(t, err, domain.ErrCoupleNotFound)
}

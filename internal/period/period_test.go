package period_test

import (
	"testing"
	"time"

	"github.com/mins/twogether/internal/period"
	"github.com/stretchr/testify/assert"
)

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, period.Zone)
}

func TestDaily(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{
			name: "midday",
			now:  at(2024, time.March, 1, 12, 0),
			want: "2024-03-01",
		},
		{
			name: "just before midnight",
			now:  at(2024, time.March, 1, 23, 59),
			want: "2024-03-01",
		},
		{
			name: "exactly midnight rolls over",
			now:  at(2024, time.March, 2, 0, 0),
			want: "2024-03-02",
		},
		{
			name: "utc instant converted to fixed zone",
			now:  time.Date(2024, time.March, 1, 20, 0, 0, 0, time.UTC), // 04:00 next day in UTC+8
			want: "2024-03-02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, period.Daily(tt.now))
		})
	}
}

func TestTicket(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"first bucket start", at(2024, time.March, 1, 0, 0), "2024-03-01#0"},
		{"first bucket end", at(2024, time.March, 1, 7, 59), "2024-03-01#0"},
		{"second bucket start", at(2024, time.March, 1, 8, 0), "2024-03-01#1"},
		{"second bucket end", at(2024, time.March, 1, 15, 59), "2024-03-01#1"},
		{"third bucket start", at(2024, time.March, 1, 16, 0), "2024-03-01#2"},
		{"third bucket end", at(2024, time.March, 1, 23, 59), "2024-03-01#2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, period.Ticket(tt.now))
		})
	}
}

func TestNextTicketBoundary(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "middle of first bucket",
			now:  at(2024, time.March, 1, 3, 30),
			want: at(2024, time.March, 1, 8, 0),
		},
		{
			name: "middle of last bucket rolls to next day",
			now:  at(2024, time.March, 1, 20, 0),
			want: at(2024, time.March, 2, 0, 0),
		},
		{
			name: "last bucket on month end rolls to next month",
			now:  at(2024, time.March, 31, 23, 0),
			want: at(2024, time.April, 1, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(period.NextTicketBoundary(tt.now)))
		})
	}
}

func TestNextDailyBoundary(t *testing.T) {
	got := period.NextDailyBoundary(at(2024, time.February, 29, 13, 0))
	assert.True(t, at(2024, time.March, 1, 0, 0).Equal(got))
}

func TestYesterdayToday(t *testing.T) {
	now := at(2024, time.March, 1, 10, 0)

	assert.True(t, period.IsToday("2024-03-01", now))
	assert.False(t, period.IsToday("2024-02-29", now))

	assert.True(t, period.IsYesterday("2024-02-29", now)) // leap day across month end
	assert.False(t, period.IsYesterday("2024-02-28", now))
	assert.False(t, period.IsYesterday("2024-03-01", now))
	assert.False(t, period.IsYesterday("", now))
}

func TestZeroTimeTreatedAsNow(t *testing.T) {
	// Defensive behavior: a zero instant falls back to the current time
	// instead of producing a 0001-01-01 period.
	assert.Equal(t, period.Daily(time.Now()), period.Daily(time.Time{}))
	assert.Equal(t, period.Ticket(time.Now()), period.Ticket(time.Time{}))
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvent_CheckInvitable(t *testing.T) {
	now := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		event Event
		want  error
	}{
		{"open", Event{CurrentParticipants: 1, MaxParticipants: 4, LinkExpiry: now.Add(time.Hour)}, nil},
		{"full", Event{CurrentParticipants: 4, MaxParticipants: 4, LinkExpiry: now.Add(time.Hour)}, ErrEventFull},
		{"over capacity", Event{CurrentParticipants: 5, MaxParticipants: 4, LinkExpiry: now.Add(time.Hour)}, ErrEventFull},
		{"expires now", Event{CurrentParticipants: 1, MaxParticipants: 4, LinkExpiry: now}, ErrInviteExpired},
		{"expired", Event{CurrentParticipants: 1, MaxParticipants: 4, LinkExpiry: now.Add(-time.Minute)}, ErrInviteExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.CheckInvitable(now))
		})
	}
}

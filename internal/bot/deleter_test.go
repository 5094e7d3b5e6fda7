package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mymmrac/telego/telegoapi"
	"github.com/stretchr/testify/assert"

	"tg-autodelete/internal/cleaner"
	"tg-autodelete/internal/config"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want cleaner.OutcomeKind
	}{
		{
			name: "message already deleted",
			err:  &telegoapi.Error{ErrorCode: 400, Description: "Bad Request: message to delete not found"},
			want: cleaner.OutcomeAlreadyGone,
		},
		{
			name: "invalid message id",
			err:  &telegoapi.Error{ErrorCode: 400, Description: "Bad Request: MESSAGE_ID_INVALID"},
			want: cleaner.OutcomeAlreadyGone,
		},
		{
			name: "forbidden",
			err:  &telegoapi.Error{ErrorCode: 403, Description: "Forbidden: bot is not a member of the channel chat"},
			want: cleaner.OutcomePermissionDenied,
		},
		{
			name: "unauthorized",
			err:  &telegoapi.Error{ErrorCode: 401, Description: "Unauthorized"},
			want: cleaner.OutcomePermissionDenied,
		},
		{
			name: "missing delete rights",
			err:  &telegoapi.Error{ErrorCode: 400, Description: "Bad Request: message can't be deleted"},
			want: cleaner.OutcomePermissionDenied,
		},
		{
			name: "other bad request",
			err:  &telegoapi.Error{ErrorCode: 400, Description: "Bad Request: chat not found"},
			want: cleaner.OutcomePermissionDenied,
		},
		{
			name: "server error",
			err:  &telegoapi.Error{ErrorCode: 502, Description: "Bad Gateway"},
			want: cleaner.OutcomeTransient,
		},
		{
			name: "network error",
			err:  errors.New("dial tcp: i/o timeout"),
			want: cleaner.OutcomeTransient,
		},
		{
			name: "context deadline",
			err:  context.DeadlineExceeded,
			want: cleaner.OutcomeTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

func TestNotifierOwnerChatID(t *testing.T) {
	n := &Notifier{}
	_, ok := n.ownerChatID()
	assert.False(t, ok)

	n.owner.Username = "alice"
	id, ok := n.ownerChatID()
	assert.True(t, ok)
	assert.Equal(t, "@alice", id.Username)

	// User id wins over username when both are set
	n.owner.UserID = 42
	id, ok = n.ownerChatID()
	assert.True(t, ok)
	assert.Equal(t, int64(42), id.ID)
	assert.Empty(t, id.Username)
}

func TestNotifierWithoutOwnerIsNoOp(t *testing.T) {
	// With no owner configured send degrades to a log line; the bot client
	// is never touched, so nil is safe here.
	n := NewNotifier(nil, config.OwnerConfig{})
	assert.NoError(t, n.NotifyDeleted(context.Background(), 100, 55, time.Now()))
	assert.NoError(t, n.NotifyFailed(context.Background(), 100, 55, "reason", time.Now()))
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/diegoclair/team-assistant-bot/internal/domain/contract"
	"github.com/diegoclair/team-assistant-bot/internal/domain/entity"
	"github.com/diegoclair/team-assistant-bot/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type allMocks struct {
	mockDataManager  *mocks.MockDataManager
	mockReminderRepo *mocks.MockReminderRepo
	mockNotifier     *mocks.MockNotifier
	mockCompleter    *mocks.MockTextCompleter
}

// testOptions keeps background loops out of the way and retries fast.
var testOptions = Options{
	MinLeadTime:   time.Second,
	NotifyTimeout: time.Second,
	RetryBackoff:  time.Millisecond,
	SweepInterval: time.Hour,
	Location:      time.UTC,
}

func newServiceTestMock(t *testing.T) (m allMocks, ctrl *gomock.Controller) {
	t.Helper()

	ctrl = gomock.NewController(t)

	dm := mocks.NewMockDataManager(ctrl)

	reminderRepo := mocks.NewMockReminderRepo(ctrl)
	dm.EXPECT().Reminder().Return(reminderRepo).AnyTimes()
	dm.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(contract.DataManager) error) error {
			return fn(dm)
		}).AnyTimes()

	m = allMocks{
		mockDataManager:  dm,
		mockReminderRepo: reminderRepo,
		mockNotifier:     mocks.NewMockNotifier(ctrl),
		mockCompleter:    mocks.NewMockTextCompleter(ctrl),
	}

	// validate service creation
	instance := NewInstance(dm, m.mockNotifier, nil, testOptions)
	require.NotNil(t, instance.Reminder)
	require.NotNil(t, instance.Scheduler)

	return
}

func newTestReminder(id, userID, message string, scheduledFor time.Time) *entity.Reminder {
	return &entity.Reminder{
		ID:           id,
		UserID:       userID,
		UserName:     "user-" + userID,
		Message:      message,
		ScheduledFor: scheduledFor,
		CreatedAt:    time.Now().UTC(),
	}
}

// waitFor fails the test if ch does not receive within timeout.
func waitFor(t *testing.T, ch <-chan struct{}, timeout time.Duration, what string) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for %s", what)
	}
}

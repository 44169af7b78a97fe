package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diegoclair/team-assistant-bot/internal/domain"
	"github.com/diegoclair/team-assistant-bot/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_newScheduler(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	s := newScheduler(m.mockDataManager, m.mockNotifier, Options{})

	require.NotNil(t, s)
	assert.Equal(t, m.mockDataManager, s.dm)
	assert.Equal(t, m.mockNotifier, s.notifier)
	assert.NotNil(t, s.armed)
	assert.NotNil(t, s.inFlight)
	assert.False(t, s.running)
	assert.Equal(t, domain.DefaultNotifyTimeout, s.opts.NotifyTimeout)
	assert.Equal(t, domain.DefaultDeliveryAttempts, s.opts.DeliveryAttempts)
	assert.Equal(t, domain.DefaultRetentionDays, s.opts.RetentionDays)
}

func Test_scheduler_Start(t *testing.T) {
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name      string
		buildMock func(m allMocks)
		wantErr   bool
		wantArmed int
	}{
		{
			name: "Should arm every pending reminder",
			buildMock: func(m allMocks) {
				m.mockReminderRepo.EXPECT().GetAllPending(gomock.Any()).Return([]*entity.Reminder{
					newTestReminder("r1", "U1", "standup", future),
					newTestReminder("r2", "U2", "send email", future.Add(time.Hour)),
				}, nil).Times(1)
			},
			wantArmed: 2,
		},
		{
			name: "Should return error when store fails",
			buildMock: func(m allMocks) {
				m.mockReminderRepo.EXPECT().GetAllPending(gomock.Any()).
					Return(nil, errors.New("database is locked")).Times(1)
			},
			wantErr:   true,
			wantArmed: 0,
		},
		{
			name: "Should skip reminders already sent",
			buildMock: func(m allMocks) {
				sent := newTestReminder("r1", "U1", "standup", future)
				sent.Sent = true
				m.mockReminderRepo.EXPECT().GetAllPending(gomock.Any()).Return([]*entity.Reminder{sent}, nil).Times(1)
			},
			wantArmed: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctrl := newServiceTestMock(t)
			defer ctrl.Finish()

			s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)
			defer s.Stop()

			if tt.buildMock != nil {
				tt.buildMock(m)
			}

			err := s.Start(context.Background())
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantArmed, s.ArmedCount())
		})
	}
}

func Test_scheduler_Start_Idempotent(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	future := time.Now().Add(time.Hour)
	pending := []*entity.Reminder{
		newTestReminder("r1", "U1", "standup", future),
		newTestReminder("r2", "U1", "standup sync", future),
		newTestReminder("r3", "U2", "send email", future),
	}
	m.mockReminderRepo.EXPECT().GetAllPending(gomock.Any()).Return(pending, nil).Times(2)

	s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)
	defer s.Stop()

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 3, s.ArmedCount())

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 3, s.ArmedCount(), "Second start must not double arm")
	assert.True(t, s.running)
}

func Test_scheduler_Start_FiresOverdueImmediately(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	overdue := newTestReminder("r1", "U1", "Falar com o João", time.Now().Add(-10*time.Minute))
	sent := make(chan struct{})
	retired := make(chan struct{})

	gomock.InOrder(
		m.mockReminderRepo.EXPECT().GetAllPending(gomock.Any()).Return([]*entity.Reminder{overdue}, nil).Times(1),
		m.mockReminderRepo.EXPECT().GetByID(gomock.Any(), "r1").Return(overdue, nil).Times(1),
		m.mockNotifier.EXPECT().Send(gomock.Any(), "U1", "🔔 *Lembrete:* Falar com o João").
			DoAndReturn(func(ctx context.Context, userID, text string) error {
				close(sent)
				return nil
			}).Times(1),
		m.mockReminderRepo.EXPECT().MarkSent(gomock.Any(), "r1", "U1").
			DoAndReturn(func(ctx context.Context, id, userID string) error {
				close(retired)
				return nil
			}).Times(1),
	)

	s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)
	defer s.Stop()

	require.NoError(t, s.Start(context.Background()))

	waitFor(t, sent, domain.FireEpsilon+500*time.Millisecond, "overdue reminder delivery")
	waitFor(t, retired, time.Second, "overdue reminder retirement")
}

func Test_scheduler_fire(t *testing.T) {
	tests := []struct {
		name          string
		opts          Options
		buildMock     func(m allMocks, r *entity.Reminder)
		wantUnretired bool
	}{
		{
			name: "Should retire reminder when notifier fails",
			buildMock: func(m allMocks, r *entity.Reminder) {
				m.mockReminderRepo.EXPECT().GetByID(gomock.Any(), r.ID).Return(r, nil).Times(1)
				m.mockNotifier.EXPECT().Send(gomock.Any(), r.UserID, gomock.Any()).
					Return(errors.New("slack is down")).Times(1)
				m.mockReminderRepo.EXPECT().MarkSent(gomock.Any(), r.ID, r.UserID).Return(nil).Times(1)
			},
		},
		{
			name: "Should not deliver reminder deleted while timer fired",
			buildMock: func(m allMocks, r *entity.Reminder) {
				m.mockReminderRepo.EXPECT().GetByID(gomock.Any(), r.ID).Return(nil, nil).Times(1)
			},
		},
		{
			name: "Should deliver when pre-check fails",
			buildMock: func(m allMocks, r *entity.Reminder) {
				m.mockReminderRepo.EXPECT().GetByID(gomock.Any(), r.ID).Return(nil, errors.New("timeout")).Times(1)
				m.mockNotifier.EXPECT().Send(gomock.Any(), r.UserID, gomock.Any()).Return(nil).Times(1)
				m.mockReminderRepo.EXPECT().MarkSent(gomock.Any(), r.ID, r.UserID).Return(nil).Times(1)
			},
		},
		{
			name: "Should retry up to delivery attempts",
			opts: Options{DeliveryAttempts: 3},
			buildMock: func(m allMocks, r *entity.Reminder) {
				m.mockReminderRepo.EXPECT().GetByID(gomock.Any(), r.ID).Return(r, nil).Times(1)
				gomock.InOrder(
					m.mockNotifier.EXPECT().Send(gomock.Any(), r.UserID, gomock.Any()).Return(errors.New("rate limited")).Times(2),
					m.mockNotifier.EXPECT().Send(gomock.Any(), r.UserID, gomock.Any()).Return(nil).Times(1),
				)
				m.mockReminderRepo.EXPECT().MarkSent(gomock.Any(), r.ID, r.UserID).Return(nil).Times(1)
			},
		},
		{
			name: "Should not retry unreachable recipient",
			opts: Options{DeliveryAttempts: 3},
			buildMock: func(m allMocks, r *entity.Reminder) {
				m.mockReminderRepo.EXPECT().GetByID(gomock.Any(), r.ID).Return(r, nil).Times(1)
				m.mockNotifier.EXPECT().Send(gomock.Any(), r.UserID, gomock.Any()).Return(domain.ErrRecipientNotFound).Times(1)
				m.mockReminderRepo.EXPECT().MarkSent(gomock.Any(), r.ID, r.UserID).Return(nil).Times(1)
			},
		},
		{
			name: "Should remember failed retirement",
			buildMock: func(m allMocks, r *entity.Reminder) {
				m.mockReminderRepo.EXPECT().GetByID(gomock.Any(), r.ID).Return(r, nil).Times(1)
				m.mockNotifier.EXPECT().Send(gomock.Any(), r.UserID, gomock.Any()).Return(nil).Times(1)
				m.mockReminderRepo.EXPECT().MarkSent(gomock.Any(), r.ID, r.UserID).Return(errors.New("disk full")).Times(1)
			},
			wantUnretired: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctrl := newServiceTestMock(t)
			defer ctrl.Finish()

			opts := testOptions
			if tt.opts.DeliveryAttempts > 0 {
				opts.DeliveryAttempts = tt.opts.DeliveryAttempts
			}
			s := newScheduler(m.mockDataManager, m.mockNotifier, opts)

			r := newTestReminder("r1", "U1", "standup", time.Now().Add(time.Hour))
			tt.buildMock(m, r)

			require.True(t, s.Arm(r))
			s.mu.Lock()
			entry := s.armed[r.ID]
			entry.timer.Stop()
			s.mu.Unlock()

			s.fire(entry)

			assert.Equal(t, 0, s.ArmedCount(), "Fired reminder must never be re-armed")
			assert.Empty(t, s.inFlight)
			if tt.wantUnretired {
				assert.Contains(t, s.unretired, r.ID)
				assert.False(t, s.Arm(r), "Delivered reminder waiting for retirement must not be armed")
			} else {
				assert.Empty(t, s.unretired)
			}
		})
	}
}

func Test_scheduler_fire_IgnoresDisarmedEntry(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)
	r := newTestReminder("r1", "U1", "standup", time.Now().Add(time.Hour))

	require.True(t, s.Arm(r))
	s.mu.Lock()
	entry := s.armed[r.ID]
	s.mu.Unlock()

	require.True(t, s.Disarm(r.ID))

	// no store or notifier expectations: a stale timer must do nothing
	s.fire(entry)
	assert.Equal(t, 0, s.ArmedCount())
}

func Test_scheduler_Arm(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)
	defer s.Stop()

	r := newTestReminder("r1", "U1", "standup", time.Now().Add(time.Hour))
	assert.True(t, s.Arm(r))
	assert.False(t, s.Arm(r), "Already armed reminder must be skipped")
	assert.Equal(t, 1, s.ArmedCount())

	sent := newTestReminder("r2", "U1", "done", time.Now().Add(time.Hour))
	sent.Sent = true
	assert.False(t, s.Arm(sent))

	s.mu.Lock()
	s.inFlight["r3"] = true
	s.mu.Unlock()
	assert.False(t, s.Arm(newTestReminder("r3", "U1", "firing", time.Now())))

	s.Stop()
	assert.False(t, s.Arm(newTestReminder("r4", "U1", "late", time.Now().Add(time.Hour))), "Stopped scheduler must not arm")
}

func Test_scheduler_Cancel(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)
	defer s.Stop()

	r := newTestReminder("r1", "U1", "standup", time.Now().Add(time.Hour))
	require.True(t, s.Arm(r))

	gomock.InOrder(
		m.mockReminderRepo.EXPECT().Delete(gomock.Any(), "r1").Return(true, nil).Times(1),
		m.mockReminderRepo.EXPECT().Delete(gomock.Any(), "r1").Return(false, nil).Times(1),
	)

	deleted, err := s.Cancel(context.Background(), "r1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 0, s.ArmedCount())

	deleted, err = s.Cancel(context.Background(), "r1")
	require.NoError(t, err, "Cancelling twice is a no-op")
	assert.False(t, deleted)
}

func Test_scheduler_Cancel_StoreError(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)
	defer s.Stop()

	require.True(t, s.Arm(newTestReminder("r1", "U1", "standup", time.Now().Add(time.Hour))))
	m.mockReminderRepo.EXPECT().Delete(gomock.Any(), "r1").Return(false, errors.New("locked")).Times(1)

	_, err := s.Cancel(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, 1, s.ArmedCount(), "Reminder still pending must stay armed")
}

func Test_scheduler_CancelRacingFire(t *testing.T) {
	for i := 0; i < 25; i++ {
		m, ctrl := newServiceTestMock(t)

		var deleted, sends, deletes atomic.Int32
		r := newTestReminder("r1", "U1", "standup", time.Now())

		m.mockReminderRepo.EXPECT().GetByID(gomock.Any(), "r1").
			DoAndReturn(func(ctx context.Context, id string) (*entity.Reminder, error) {
				if deleted.Load() == 1 {
					return nil, nil
				}
				return r, nil
			}).MaxTimes(1)
		m.mockNotifier.EXPECT().Send(gomock.Any(), "U1", gomock.Any()).
			DoAndReturn(func(ctx context.Context, userID, text string) error {
				sends.Add(1)
				return nil
			}).MaxTimes(1)
		m.mockReminderRepo.EXPECT().MarkSent(gomock.Any(), "r1", "U1").Return(nil).MaxTimes(1)
		m.mockReminderRepo.EXPECT().Delete(gomock.Any(), "r1").
			DoAndReturn(func(ctx context.Context, id string) (bool, error) {
				deleted.Store(1)
				deletes.Add(1)
				return true, nil
			}).Times(1)

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)
		require.True(t, s.Arm(r))

		_, err := s.Cancel(context.Background(), "r1")
		require.NoError(t, err)

		// wait for a fire that may have won the race
		time.Sleep(20 * time.Millisecond)
		s.Stop()

		assert.LessOrEqual(t, sends.Load(), int32(1), "Reminder must never be delivered twice")
		assert.Equal(t, int32(1), deletes.Load())
		assert.Equal(t, 0, s.ArmedCount())

		ctrl.Finish()
	}
}

func Test_scheduler_DisarmUser(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)
	defer s.Stop()

	future := time.Now().Add(time.Hour)
	s.Arm(newTestReminder("r1", "U1", "one", future))
	s.Arm(newTestReminder("r2", "U1", "two", future))
	s.Arm(newTestReminder("r3", "U2", "three", future))

	assert.Equal(t, 2, s.DisarmUser("U1"))
	assert.Equal(t, 1, s.ArmedCount())
	assert.Equal(t, 0, s.DisarmUser("U1"))
}

func Test_scheduler_Stop(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	future := time.Now().Add(time.Hour)
	m.mockReminderRepo.EXPECT().GetAllPending(gomock.Any()).Return([]*entity.Reminder{
		newTestReminder("r1", "U1", "one", future),
		newTestReminder("r2", "U2", "two", future),
	}, nil).Times(2)

	s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)
	require.NoError(t, s.Start(context.Background()))
	require.Equal(t, 2, s.ArmedCount())

	// no Delete or MarkSent expectations: stopping never touches the store
	s.Stop()
	assert.Equal(t, 0, s.ArmedCount())
	assert.False(t, s.running)

	// restart rebuilds the timer map from the store alone
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 2, s.ArmedCount())
	s.Stop()
}

func Test_scheduler_StartWithRetry(t *testing.T) {
	t.Run("Should succeed after transient failure", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		gomock.InOrder(
			m.mockReminderRepo.EXPECT().GetAllPending(gomock.Any()).Return(nil, errors.New("connection refused")).Times(1),
			m.mockReminderRepo.EXPECT().GetAllPending(gomock.Any()).Return([]*entity.Reminder{
				newTestReminder("r1", "U1", "one", time.Now().Add(time.Hour)),
			}, nil).Times(1),
		)

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)
		defer s.Stop()

		err := s.StartWithRetry(context.Background(), 3, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 1, s.ArmedCount())
	})

	t.Run("Should run degraded when every attempt fails", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		m.mockReminderRepo.EXPECT().GetAllPending(gomock.Any()).Return(nil, errors.New("connection refused")).Times(2)

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)
		defer s.Stop()

		err := s.StartWithRetry(context.Background(), 2, time.Millisecond)
		require.Error(t, err)
		assert.Equal(t, 0, s.ArmedCount())
		assert.True(t, s.running, "Maintenance loop keeps running to recover later")
	})
}

func Test_scheduler_StartWithRetry_StopEndsRetries(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	attempted := make(chan struct{})
	m.mockReminderRepo.EXPECT().GetAllPending(gomock.Any()).
		DoAndReturn(func(ctx context.Context) ([]*entity.Reminder, error) {
			close(attempted)
			return nil, errors.New("connection refused")
		}).Times(1)

	s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)

	result := make(chan error, 1)
	go func() {
		result <- s.StartWithRetry(context.Background(), 5, time.Hour)
	}()

	waitFor(t, attempted, time.Second, "first start attempt")
	s.Stop()

	select {
	case err := <-result:
		assert.ErrorIs(t, err, errStopped)
	case <-time.After(time.Second):
		t.Fatal("StartWithRetry kept retrying after Stop")
	}
	assert.False(t, s.running, "Stopped scheduler must not start its loop")
	assert.Equal(t, 0, s.ArmedCount())
}

func Test_scheduler_StartWithRetry_CancelledContext(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)
	defer s.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// no GetAllPending expectation: a cancelled start never reaches the store
	err := s.StartWithRetry(ctx, 3, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, s.running)
}

func Test_scheduler_deliver_StopCutsBackoff(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	opts := testOptions
	opts.DeliveryAttempts = 3
	opts.RetryBackoff = time.Hour
	s := newScheduler(m.mockDataManager, m.mockNotifier, opts)

	r := newTestReminder("r1", "U1", "standup", time.Now().Add(time.Hour))
	attempted := make(chan struct{})

	m.mockReminderRepo.EXPECT().GetByID(gomock.Any(), r.ID).Return(r, nil).Times(1)
	m.mockNotifier.EXPECT().Send(gomock.Any(), r.UserID, gomock.Any()).
		DoAndReturn(func(ctx context.Context, userID, text string) error {
			close(attempted)
			return errors.New("rate limited")
		}).Times(1)
	m.mockReminderRepo.EXPECT().MarkSent(gomock.Any(), r.ID, r.UserID).Return(nil).Times(1)

	require.True(t, s.Arm(r))
	s.mu.Lock()
	entry := s.armed[r.ID]
	entry.timer.Stop()
	s.mu.Unlock()

	go s.fire(entry)
	waitFor(t, attempted, time.Second, "first delivery attempt")

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	waitFor(t, stopped, time.Second, "Stop during delivery backoff")
	assert.Empty(t, s.inFlight)
}

func Test_scheduler_sweep(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)
	defer s.Stop()

	future := time.Now().Add(time.Hour)
	stuck := newTestReminder("r0", "U1", "sent but not retired", time.Now().Add(-time.Minute))
	s.unretired[stuck.ID] = stuck

	armed := newTestReminder("r1", "U1", "armed", future)
	require.True(t, s.Arm(armed))

	lost := newTestReminder("r2", "U2", "lost timer", future)

	m.mockReminderRepo.EXPECT().MarkSent(gomock.Any(), "r0", "U1").Return(nil).Times(1)
	m.mockReminderRepo.EXPECT().GetAllPending(gomock.Any()).Return([]*entity.Reminder{armed, lost}, nil).Times(1)

	s.sweep()

	assert.Equal(t, 2, s.ArmedCount())
	assert.Empty(t, s.unretired)
}

func Test_scheduler_sweep_KeepsUnretiredOnFailure(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions)
	defer s.Stop()

	stuck := newTestReminder("r0", "U1", "sent but not retired", time.Now().Add(-time.Minute))
	s.unretired[stuck.ID] = stuck

	m.mockReminderRepo.EXPECT().MarkSent(gomock.Any(), "r0", "U1").Return(errors.New("disk full")).Times(1)
	m.mockReminderRepo.EXPECT().GetAllPending(gomock.Any()).Return([]*entity.Reminder{stuck}, nil).Times(1)

	s.sweep()

	assert.Equal(t, 0, s.ArmedCount(), "Delivered reminder must not be armed again")
	assert.Len(t, s.unretired, 1)
}

func Test_scheduler_purge(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	s := newScheduler(m.mockDataManager, m.mockNotifier, Options{RetentionDays: 7})

	gomock.InOrder(
		m.mockReminderRepo.EXPECT().DeleteSentOlderThan(gomock.Any(), 7).Return(int64(4), nil).Times(1),
		m.mockReminderRepo.EXPECT().DeleteSentOlderThan(gomock.Any(), 7).Return(int64(0), errors.New("locked")).Times(1),
	)

	s.purge()
	s.purge()
}

func Test_scheduler_mainLoop(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	opts := testOptions
	opts.SweepInterval = 10 * time.Millisecond
	opts.RetentionInterval = time.Hour
	s := newScheduler(m.mockDataManager, m.mockNotifier, opts)

	swept := make(chan struct{}, 1)
	m.mockReminderRepo.EXPECT().GetAllPending(gomock.Any()).
		DoAndReturn(func(ctx context.Context) ([]*entity.Reminder, error) {
			select {
			case swept <- struct{}{}:
			default:
			}
			return nil, nil
		}).MinTimes(1)

	halt := s.resume()
	require.True(t, s.startMaintenance(halt))
	require.True(t, s.startMaintenance(halt)) // second call is a no-op

	waitFor(t, swept, time.Second, "periodic sweep")
	s.Stop()

	assert.False(t, s.startMaintenance(halt), "Loop of a stopped run must not restart")
	assert.False(t, s.running)
}

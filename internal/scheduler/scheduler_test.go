package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/vinstock/internal/domain/models"
)

type digestStub struct {
	err   error
	calls int
}

func (d *digestStub) GenerateDailyDigest(context.Context) (models.DailyDigest, error) {
	d.calls++
	return models.DailyDigest{DayRevenue: 50000}, d.err
}

type notifierStub struct {
	messages []string
}

func (n *notifierStub) Notify(_ context.Context, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

func format(d models.DailyDigest) string {
	return "bilan"
}

func TestRunDigestSendsMessage(t *testing.T) {
	notifier := &notifierStub{}
	digests := &digestStub{}
	s := NewScheduler("0 20 * * *", time.UTC, digests, format, notifier, nil)

	require.NoError(t, s.RunDigest(context.Background()))
	assert.Equal(t, 1, digests.calls)
	assert.Equal(t, []string{"bilan"}, notifier.messages)
}

func TestRunDigestWithoutNotifier(t *testing.T) {
	digests := &digestStub{}
	s := NewScheduler("0 20 * * *", time.UTC, digests, format, nil, nil)
	require.NoError(t, s.RunDigest(context.Background()))
	assert.Equal(t, 1, digests.calls)
}

func TestRunDigestGenerationFailure(t *testing.T) {
	notifier := &notifierStub{}
	s := NewScheduler("0 20 * * *", time.UTC, &digestStub{err: errors.New("boom")}, format, notifier, nil)
	assert.Error(t, s.RunDigest(context.Background()))
	assert.Empty(t, notifier.messages)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler("whenever", time.UTC, &digestStub{}, format, nil, nil)
	assert.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	s := NewScheduler("0 20 * * *", time.UTC, &digestStub{}, format, nil, nil)
	require.NoError(t, s.Start())
	s.Stop()
}

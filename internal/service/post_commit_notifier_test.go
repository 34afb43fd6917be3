package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"abstractdesk/internal/config"
	"abstractdesk/internal/domain"
	"abstractdesk/internal/service"
	"abstractdesk/mocks"
)

func TestPostCommitNotifier_Off(t *testing.T) {
	notifications := new(mocks.MockNotificationService)
	n := service.NewPostCommitNotifier(config.NotifyModeOff, notifications, nil)

	assert.Nil(t, n.Notify(context.Background(), []int64{1}, domain.StatusApproved, nil))
	notifications.AssertNotCalled(t, "NotifyAbstracts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostCommitNotifier_Await(t *testing.T) {
	notifications := new(mocks.MockNotificationService)
	n := service.NewPostCommitNotifier(config.NotifyModeAwait, notifications, nil)

	expected := &service.DispatchSummary{Sent: 1, Total: 1}
	notifications.On("NotifyAbstracts", mock.Anything, []int64{1}, domain.StatusApproved, (*string)(nil)).Return(expected, nil)

	assert.Equal(t, expected, n.Notify(context.Background(), []int64{1}, domain.StatusApproved, nil))
}

func TestPostCommitNotifier_Detach(t *testing.T) {
	notifications := new(mocks.MockNotificationService)
	runner := service.NewDispatchRunner(1, 4)
	n := service.NewPostCommitNotifier(config.NotifyModeDetach, notifications, runner)

	notifications.On("NotifyAbstracts", mock.Anything, []int64{4, 5}, domain.StatusRejected, (*string)(nil)).
		Return(&service.DispatchSummary{}, nil)

	assert.Nil(t, n.Notify(context.Background(), []int64{4, 5}, domain.StatusRejected, nil))
	runner.Close()
	notifications.AssertExpectations(t)
}

func TestPostCommitNotifier_DetachWithoutRunnerAwaits(t *testing.T) {
	n := service.NewPostCommitNotifier(config.NotifyModeDetach, nil, nil)
	assert.Equal(t, config.NotifyModeAwait, n.Mode())

	var nilNotifier *service.PostCommitNotifier
	assert.Equal(t, config.NotifyModeOff, nilNotifier.Mode())
}

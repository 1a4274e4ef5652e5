package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/pocket-doctor/internal/notify"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSender(t *testing.T) {
	log, buf := logger.GetTestLogger(t)
	s := notify.NewLogSender(log)

	receipt, err := s.Send(context.Background(), "5551234567", "Adherence report")

	require.NoError(t, err)
	assert.Equal(t, "log", receipt.Channel)
	assert.Equal(t, "5551234567", receipt.To)
	logger.AssertLogContains(t, buf, "no provider configured")
	assert.NotContains(t, buf.String(), "5551234567")
}

func TestLogSenderRequiresRecipient(t *testing.T) {
	_, err := notify.NewLogSender(nil).Send(context.Background(), "", "x")
	assert.True(t, errors.Is(err, notify.ErrNoRecipient))
}

package notify

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LBRJanssen/aondetaorole-sub000/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

func newTestService(t *testing.T) (*Service, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	svc := &Service{
		redis:    client,
		from:     "noreply@aondetaorole.com",
		fromName: "Aonde Tá O Rolê",
		smtpHost: "localhost",
		smtpPort: "1025",
	}
	return svc, mock
}

func TestQueue(t *testing.T) {
	svc, mock := newTestService(t)

	mock.Regexp().ExpectLPush("notifications", `.*ticket_receipt.*`).SetVal(1)

	err := svc.Queue(context.Background(), "ticket_receipt", "user@example.com", "João", "Ingresso confirmado", "corpo")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueue_RedisError(t *testing.T) {
	svc, mock := newTestService(t)

	mock.Regexp().ExpectLPush("notifications", `.*`).SetErr(assert.AnError)

	err := svc.Queue(context.Background(), "test", "user@example.com", "", "Subject", "body")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueTicketReceipt(t *testing.T) {
	svc, mock := newTestService(t)

	mock.Regexp().ExpectLPush("notifications", `.*Pedido: a1b2c3.*`).SetVal(1)

	err := svc.QueueTicketReceipt(context.Background(), "buyer@example.com", "a1b2c3", 2500)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueBoostReceipt(t *testing.T) {
	svc, mock := newTestService(t)

	mock.Regexp().ExpectLPush("notifications", `.*boost_receipt.*`).SetVal(1)

	err := svc.QueueBoostReceipt(context.Background(), "organizer@example.com", "24h", 320)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueWithdrawalDecision(t *testing.T) {
	t.Run("approved", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.Regexp().ExpectLPush("notifications", `.*Saque aprovado.*`).SetVal(1)

		err := svc.QueueWithdrawalDecision(context.Background(), "user@example.com", 5000, true)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejected", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.Regexp().ExpectLPush("notifications", `.*Saque recusado.*`).SetVal(1)

		err := svc.QueueWithdrawalDecision(context.Background(), "user@example.com", 5000, false)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQueueLength(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectLLen("notifications").SetVal(7)

	assert.Equal(t, int64(7), svc.QueueLength(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength_ErrorReturnsZero(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectLLen("notifications").SetErr(assert.AnError)

	assert.Equal(t, int64(0), svc.QueueLength(context.Background()))
}

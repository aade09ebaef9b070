package producers

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/shelfsim/internal/models"
)

const shelfMsg = `{"timestamp":1,"runId":"run-7","reason":"added"}`

func TestSaramaProducer_WriteMessage(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != shelfMsg {
			return errors.New("unexpected payload " + string(val))
		}
		return nil
	})
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewSaramaProducerFrom(mock)
	require.NoError(t, p.WriteMessage(models.TopicShelf, []byte(shelfMsg)))
	assert.ErrorIs(t, p.WriteMessage(models.TopicShelf, []byte(shelfMsg)), sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestSaramaProducer_Uninitialized(t *testing.T) {
	p := &SaramaProducer{}
	assert.Error(t, p.WriteMessage(models.TopicShelf, []byte(shelfMsg)))
	assert.NoError(t, p.Close())
}

func TestNewSaramaConfig(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.SessionTimeoutMs = 15000

	sc := NewSaramaConfig(cfg)
	assert.Equal(t, sarama.WaitForAll, sc.Producer.RequiredAcks)
	assert.True(t, sc.Producer.Return.Successes)
	assert.Equal(t, 5, sc.Producer.Retry.Max)
	assert.Equal(t, int64(15000), sc.Consumer.Group.Session.Timeout.Milliseconds())
	assert.NoError(t, sc.Validate())
}

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	published []published
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPProducer_WriteMessage(t *testing.T) {
	ch := &fakeChannel{}
	p := NewAMQPProducerFrom(ch, models.DefaultAMQPExchange)

	require.NoError(t, p.WriteMessage(models.TopicShelfSnapshot, []byte(shelfMsg)))
	require.Len(t, ch.published, 1)

	got := ch.published[0]
	assert.Equal(t, "kitchen_events", got.exchange)
	assert.Equal(t, models.TopicShelfSnapshot, got.key)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, "run-7", got.msg.CorrelationId)
	assert.Equal(t, shelfMsg, string(got.msg.Body))

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPProducer_PublishError(t *testing.T) {
	p := NewAMQPProducerFrom(&fakeChannel{err: amqp.ErrClosed}, "x")
	assert.ErrorIs(t, p.WriteMessage(models.TopicShelf, []byte(shelfMsg)), amqp.ErrClosed)
}

func TestRunIDOf(t *testing.T) {
	assert.Equal(t, "run-7", runIDOf([]byte(shelfMsg)))
	assert.Equal(t, "", runIDOf([]byte(`{}`)))
	assert.Equal(t, "", runIDOf([]byte(`nope`)))
}

package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/itohio/goforce/pkg/force"
	"github.com/itohio/goforce/pkg/gauge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() gauge.Snapshot {
	return gauge.Snapshot{
		Frame: force.ForceFrame{
			X:           12.5,
			Y:           3.25,
			Z:           0,
			Combined:    15.75,
			TimestampMs: 4200,
		},
		HighScore:  50,
		State:      force.Calibrated,
		Celebrated: false,
	}
}

type fakeToken struct {
	err     error
	timeout bool
}

func (t *fakeToken) Wait() bool                     { return !t.timeout }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.timeout }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic   string
	payload []byte
}

type fakeClient struct {
	mu           sync.Mutex
	msgs         []published
	token        *fakeToken
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, published{topic: topic, payload: payload.([]byte)})
	if c.token != nil {
		return c.token
	}
	return &fakeToken{}
}

func (c *fakeClient) Disconnect(quiesce uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnected = true
}

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func TestFormatLine(t *testing.T) {
	assert.Equal(t, "4200,12.50,3.25,0.00,15.75,50.00\n", FormatLine(testSnapshot()))
}

func TestNewPayload(t *testing.T) {
	data, err := json.Marshal(NewPayload(testSnapshot()))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"t_ms":4200,"fx":12.5,"fy":3.25,"fz":0,"combined":15.75,"high_score":50,"state":"calibrated","celebrated":false}`,
		string(data))
}

func TestMQTTPublisher_Send(t *testing.T) {
	client := &fakeClient{}
	p := newMQTTPublisher(client, "goforce/force")

	require.NoError(t, p.Send(testSnapshot()))
	require.Len(t, client.msgs, 1)
	assert.Equal(t, "goforce/force", client.msgs[0].topic)

	var got Payload
	require.NoError(t, json.Unmarshal(client.msgs[0].payload, &got))
	assert.Equal(t, float32(15.75), got.Combined)

	require.NoError(t, p.Close())
	assert.True(t, client.disconnected)
}

func TestMQTTPublisher_Errors(t *testing.T) {
	brokerErr := errors.New("not authorized")

	p := newMQTTPublisher(&fakeClient{token: &fakeToken{err: brokerErr}}, "t")
	assert.ErrorIs(t, p.Send(testSnapshot()), brokerErr)

	p = newMQTTPublisher(&fakeClient{token: &fakeToken{timeout: true}}, "t")
	assert.ErrorContains(t, p.Send(testSnapshot()), "timed out")
}

func TestSerialSink(t *testing.T) {
	buf := &bufferCloser{}
	s := newSerialSink(buf, "test")

	require.NoError(t, s.Send(testSnapshot()))
	require.NoError(t, s.Send(testSnapshot()))
	assert.Equal(t, FormatLine(testSnapshot())+FormatLine(testSnapshot()), buf.String())

	require.NoError(t, s.Close())
	assert.True(t, buf.closed)
}

// blockingSink holds every Send until released.
type blockingSink struct {
	release chan struct{}
	mu      sync.Mutex
	sent    int
	closed  bool
}

func (b *blockingSink) Send(gauge.Snapshot) error {
	<-b.release
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent++
	return nil
}

func (b *blockingSink) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func TestExporter_DeliversAndCloses(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	close(sink.release)
	e := NewExporter("test", sink, 4)

	for range 3 {
		e.Handle(testSnapshot())
	}
	require.NoError(t, e.Close())

	assert.Equal(t, 3, sink.sent)
	assert.True(t, sink.closed)
	assert.ErrorIs(t, e.Enqueue(testSnapshot()), ErrClosed)
	assert.NoError(t, e.Close())
}

func TestExporter_QueueFull(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	e := NewExporter("test", sink, 1)

	// The first snapshot may be picked up by the goroutine; fill until full
	var err error
	for range 3 {
		if err = e.Enqueue(testSnapshot()); err != nil {
			break
		}
	}
	assert.ErrorIs(t, err, ErrQueueFull)

	close(sink.release)
	done := make(chan struct{})
	go func() {
		_ = e.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Exporter did not close")
	}
	assert.True(t, sink.closed)
}

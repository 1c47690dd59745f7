package ingest

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/hydration"
)

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
	StateReceiving
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateReceiving:
		return "receiving"
	case StateFaulted:
		return "faulted"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

var (
	ErrConnect        = errors.New("ingest: connect to broker failed")
	ErrSubscribe      = errors.New("ingest: subscribe failed")
	ErrConnectionLost = errors.New("ingest: connection to broker lost")
	ErrLoopRunning    = errors.New("ingest: loop already running")
)

type LoopOpts struct {
	Topic string
	QoS   byte
	// Workers > 1 processes different devices concurrently. Messages of one
	// device always go to the same worker.
	Workers   int
	QueueSize int
	Reporter  Reporter
	Notifier  Notifier
	Now       func() time.Time
}

type inbound struct {
	id         string
	msg        Message
	receivedAt time.Time
	event      Event
	err        error
}

// Loop owns one transport connection for its running lifetime and hands every
// delivered message to the hydration core.
type Loop struct {
	accountant hydration.IAccountant
	dock       hydration.IDockTracker
	transport  Transport
	opts       LoopOpts
	reporter   Reporter
	stamper    *stamper

	state atomic.Int32

	mu     sync.RWMutex
	queues []chan inbound
	closed bool
	wg     sync.WaitGroup
}

func NewLoop(h *hydration.Hydration, transport Transport, opts LoopOpts) *Loop {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.QueueSize < 0 {
		opts.QueueSize = 0
	}
	if opts.Reporter == nil {
		opts.Reporter = NewLogReporter()
	}
	return &Loop{
		accountant: h.Accountant,
		dock:       h.Dock,
		transport:  transport,
		opts:       opts,
		reporter:   opts.Reporter,
		stamper:    newStamper(opts.Now),
	}
}

func (l *Loop) State() State {
	return State(l.state.Load())
}

func (l *Loop) setState(s State) {
	prev := State(l.state.Swap(int32(s)))
	if prev != s {
		common.GetLoggerWith(
			common.LoggerNameIngestLoop,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryTransport),
		).Info("Ingestion state changed", zap.Stringer("from", prev), zap.Stringer("to", s))
	}
}

// Stats returns the reporter counters when the reporter keeps any.
func (l *Loop) Stats() Stats {
	if counting, ok := l.reporter.(interface{ Stats() Stats }); ok {
		return counting.Stats()
	}
	return Stats{ByKind: map[Kind]uint64{}}
}

// Run connects, subscribes and processes messages until ctx is done or the
// connection drops. A connect or subscribe failure leaves the loop Faulted.
// On ctx cancellation queued messages are processed before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	logger := common.GetLoggerWith(
		common.LoggerNameIngestLoop,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryTransport),
	)

	current := l.State()
	if current != StateDisconnected && current != StateFaulted {
		return ErrLoopRunning
	}
	if !l.state.CompareAndSwap(int32(current), int32(StateConnecting)) {
		return ErrLoopRunning
	}

	logger.Info("Starting ingestion loop",
		zap.String("topic", l.opts.Topic),
		zap.Uint8("qos", l.opts.QoS),
		zap.Int("workers", l.opts.Workers),
	)

	if err := l.transport.Connect(ctx); err != nil {
		l.setState(StateFaulted)
		logger.Error("Failed to connect to broker", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}
	l.setState(StateSubscribed)

	// in-flight messages finish even when ctx is cancelled
	workCtx := context.WithoutCancel(ctx)
	l.startWorkers(workCtx)

	err := l.transport.Subscribe(ctx, l.opts.Topic, l.opts.QoS, func(msg Message) {
		l.enqueue(workCtx, msg)
	})
	if err != nil {
		l.stopWorkers()
		_ = l.transport.Close()
		l.setState(StateFaulted)
		logger.Error("Failed to subscribe", zap.String("topic", l.opts.Topic), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrSubscribe, err)
	}
	l.setState(StateReceiving)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Stopping ingestion loop")
	case err := <-l.transport.Done():
		runErr = fmt.Errorf("%w: %w", ErrConnectionLost, err)
		logger.Error("Ingestion loop lost its connection", zap.Error(err))
	}

	_ = l.transport.Close()
	l.stopWorkers()

	if runErr != nil {
		l.setState(StateFaulted)
		return runErr
	}
	l.setState(StateDisconnected)
	return nil
}

func (l *Loop) startWorkers(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = false
	l.queues = make([]chan inbound, l.opts.Workers)
	for i := range l.queues {
		queue := make(chan inbound, l.opts.QueueSize)
		l.queues[i] = queue
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			for in := range queue {
				l.process(ctx, in)
			}
		}()
	}
}

func (l *Loop) stopWorkers() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		for _, queue := range l.queues {
			close(queue)
		}
	}
	l.mu.Unlock()

	l.wg.Wait()
}

func (l *Loop) partition(deviceID string) int {
	if len(l.queues) == 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(deviceID))
	return int(h.Sum32() % uint32(len(l.queues)))
}

// receive stamps and decodes msg on the delivering goroutine so receipt order
// and timestamp order agree.
func (l *Loop) receive(msg Message) inbound {
	in := inbound{
		id:         uuid.NewString(),
		msg:        msg,
		receivedAt: l.stamper.Stamp(),
	}
	in.event, in.err = Decode(msg)
	return in
}

func (l *Loop) enqueue(ctx context.Context, msg Message) {
	in := l.receive(msg)
	if in.err != nil {
		l.process(ctx, in)
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		common.GetLoggerWith(
			common.LoggerNameIngestLoop,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryTransport),
		).Warn("Dropped message delivered after shutdown", zap.String("message_id", in.id), zap.String("topic", msg.Topic))
		return
	}
	l.queues[l.partition(in.event.Device())] <- in
}

// HandleMessage processes msg synchronously on the caller's goroutine.
func (l *Loop) HandleMessage(ctx context.Context, msg Message) Outcome {
	return l.process(ctx, l.receive(msg))
}

func (l *Loop) process(ctx context.Context, in inbound) Outcome {
	outcome := Outcome{
		MessageID:  in.id,
		Topic:      in.msg.Topic,
		Payload:    string(in.msg.Payload),
		Duplicate:  in.msg.Duplicate,
		ReceivedAt: in.receivedAt,
	}

	err := in.err
	if err == nil {
		outcome.DeviceID = in.event.Device()
		err = l.dispatch(ctx, in, &outcome)
	}

	outcome.Err = err
	outcome.Kind = Classify(err)
	outcome.Elapsed = time.Since(in.receivedAt)
	l.reporter.Report(outcome)

	if outcome.Kind == KindOK && outcome.Record != nil && l.opts.Notifier != nil {
		l.opts.Notifier.OnConsumption(ctx, outcome.Record)
	}

	return outcome
}

func (l *Loop) dispatch(ctx context.Context, in inbound, outcome *Outcome) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic while handling message: %v", hydration.ErrPersistence, r)
		}
	}()

	switch event := in.event.(type) {
	case WeightSample:
		outcome.DataType = DataTypeWeight
		outcome.Record, err = l.accountant.RecordWeight(ctx, event.DeviceID, event.RawWeight, in.receivedAt)
		return err
	case DockStatusChanged:
		outcome.DataType = DataTypeIsPickedUp
		return l.dock.ApplyDockStatus(ctx, event.DeviceID, event.IsPickedUp)
	default:
		return fmt.Errorf("%w: unsupported event %T", ErrUnknownDataType, in.event)
	}
}

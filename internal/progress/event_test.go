package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validEvent() Event {
	return Event{
		TS:          time.Now(),
		Stage:       StageSubjectDone,
		SubjectID:   "sub-1",
		SubjectName: "Acme",
		Dur:         2 * time.Second,
	}
}

func TestEventValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validEvent().Validate())

	evt := validEvent()
	evt.TS = time.Time{}
	require.Error(t, evt.Validate())

	evt = validEvent()
	evt.SubjectID = ""
	require.Error(t, evt.Validate())

	evt = Event{TS: time.Now(), Stage: StageBatchDone}
	require.Error(t, evt.Validate())
	evt.Batch = 1
	require.NoError(t, evt.Validate())

	evt = Event{TS: time.Now(), Stage: Stage("BOGUS")}
	require.Error(t, evt.Validate())

	evt = validEvent()
	evt.Dur = -time.Second
	require.Error(t, evt.Validate())
}

func TestSummaryAdd(t *testing.T) {
	t.Parallel()

	var total Summary
	total.Add(Summary{Total: 5, Successful: 4, Failed: 1})
	total.Add(Summary{Total: 3, Successful: 3})
	require.Equal(t, Summary{Total: 8, Successful: 7, Failed: 1}, total)
}

type countingSink struct {
	events []Event
}

func (c *countingSink) Consume(evt Event) {
	c.events = append(c.events, evt)
}

func TestFanoutDistributes(t *testing.T) {
	t.Parallel()

	a := &countingSink{}
	b := &countingSink{}
	f := NewFanout(zap.NewNop(), a, b)

	f.Emit(validEvent())
	require.Len(t, a.events, 1)
	require.Len(t, b.events, 1)
}

func TestFanoutDropsInvalidEvents(t *testing.T) {
	t.Parallel()

	sink := &countingSink{}
	f := NewFanout(zap.NewNop(), sink)

	f.Emit(Event{Stage: StageSubjectDone})
	require.Empty(t, sink.events)
}

func TestFanoutNilReceiver(t *testing.T) {
	t.Parallel()

	var f *Fanout
	f.Emit(validEvent())
}

package framework

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	assert.NoError(t, errs.Add(nil, nil).Aggregate())

	err1 := errors.New("first")
	assert.Equal(t, err1, errs.Add(err1, nil).Aggregate())

	err := errs.Add(errors.New("second")).Aggregate()
	require.Error(t, err)
	assert.Equal(t, "multiple errors:\nfirst\nsecond", err.Error())
}

func TestRunnerWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	failure := errors.New("failed")
	err := NewRunnerWith(ctx).Go(
		NamedRun("canceled", RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})),
		RunFunc(func(context.Context) error {
			cancel()
			return failure
		}),
	).Wait()
	assert.Equal(t, failure, err)
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

func TestRunWithContextCloser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	unblock := make(chan struct{})
	var closed int
	closer := closeFunc(func() error {
		closed++
		close(unblock)
		return nil
	})
	cancel()
	err := RunWithContextCloser(ctx, closer, func() error {
		<-unblock
		return errors.New("closed")
	})
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, 1, closed)

	closed = 0
	unblock = make(chan struct{})
	err = RunWithContextCloser(context.Background(), closer, func() error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, 1, closed)
}

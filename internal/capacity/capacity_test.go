package capacity

import (
	"context"
	"errors"
	"testing"

	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	capacity int
	err      error
}

func (s stubReader) LocationCapacity(_ context.Context, _ int64) (int, error) {
	return s.capacity, s.err
}

func TestAdmit(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		occupancy int
		wantErr   error
	}{
		{name: "empty venue", capacity: 2, occupancy: 0},
		{name: "one place left", capacity: 2, occupancy: 1},
		{name: "full", capacity: 2, occupancy: 2, wantErr: ErrCapacityExceeded},
		{name: "over full", capacity: 2, occupancy: 5, wantErr: ErrCapacityExceeded},
		{name: "zero capacity", capacity: 0, occupancy: 0, wantErr: ErrCapacityExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Admit(tt.capacity, tt.occupancy)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckLocationNotFound(t *testing.T) {
	err := Check(context.Background(), stubReader{err: repository.ErrNotFound}, 42, 0)
	require.ErrorIs(t, err, ErrLocationNotFound)
}

func TestCheckStoreError(t *testing.T) {
	boom := errors.New("connection reset")

	err := Check(context.Background(), stubReader{err: boom}, 1, 0)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrLocationNotFound)
}

func TestCheckAdmitsUntilCapacity(t *testing.T) {
	r := stubReader{capacity: 3}

	for occupancy := 0; occupancy < 3; occupancy++ {
		require.NoError(t, Check(context.Background(), r, 1, occupancy))
	}
	require.ErrorIs(t, Check(context.Background(), r, 1, 3), ErrCapacityExceeded)
}

func TestEvaluateCountsAfterCapacityRead(t *testing.T) {
	var order []string
	r := orderedReader{capacity: 1, order: &order}

	err := Evaluate(context.Background(), r, 1, func(context.Context) (int, error) {
		order = append(order, "count")
		return 0, nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"capacity", "count"}, order)
}

func TestEvaluateSkipsCountForMissingLocation(t *testing.T) {
	counted := false
	err := Evaluate(context.Background(), stubReader{err: repository.ErrNotFound}, 1, func(context.Context) (int, error) {
		counted = true
		return 0, nil
	})
	require.ErrorIs(t, err, ErrLocationNotFound)
	require.False(t, counted)
}

func TestEvaluateCountError(t *testing.T) {
	boom := errors.New("count failed")
	err := Evaluate(context.Background(), stubReader{capacity: 5}, 1, func(context.Context) (int, error) {
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
}

type orderedReader struct {
	capacity int
	order    *[]string
}

func (r orderedReader) LocationCapacity(_ context.Context, _ int64) (int, error) {
	*r.order = append(*r.order, "capacity")
	return r.capacity, nil
}

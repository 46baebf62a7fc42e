package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MDSAM05/orderflow/internal/apperr"
	"github.com/MDSAM05/orderflow/internal/events"
)

type fakeInventoryRepo struct {
	Repository
	reserveFunc  func(ctx context.Context, productID int64, quantity int) error
	reserveCalls int
}

func (f *fakeInventoryRepo) Reserve(ctx context.Context, productID int64, quantity int) error {
	f.reserveCalls++
	if f.reserveFunc != nil {
		return f.reserveFunc(ctx, productID, quantity)
	}
	return nil
}

type fakePublisher struct {
	published [][]byte
	err       error
}

func (f *fakePublisher) PublishJSON(ctx context.Context, v any) error {
	if f.err != nil {
		return f.err
	}
	body, _ := json.Marshal(v)
	f.published = append(f.published, body)
	return nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestServiceReserve_PublishesInventoryReserved(t *testing.T) {
	repo := &fakeInventoryRepo{}
	pub := &fakePublisher{}
	svc := NewService(repo, pub, testLogger())

	require.NoError(t, svc.Reserve(context.Background(), 42, 3))

	require.Len(t, pub.published, 1)
	var ev events.InventoryReserved
	require.NoError(t, json.Unmarshal(pub.published[0], &ev))
	assert.Equal(t, events.TypeInventoryReserved, ev.Type)
	assert.Equal(t, int64(42), ev.ProductID)
	assert.Equal(t, 3, ev.Quantity)
}

func TestServiceReserve_PublishFailureDoesNotFailReservation(t *testing.T) {
	repo := &fakeInventoryRepo{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewService(repo, pub, testLogger())

	assert.NoError(t, svc.Reserve(context.Background(), 42, 1))
	assert.Equal(t, 1, repo.reserveCalls)
}

func TestServiceReserve_RepoErrorSkipsPublish(t *testing.T) {
	repo := &fakeInventoryRepo{reserveFunc: func(context.Context, int64, int) error {
		return apperr.ErrConflict
	}}
	pub := &fakePublisher{}
	svc := NewService(repo, pub, testLogger())

	err := svc.Reserve(context.Background(), 42, 5)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Empty(t, pub.published, "no event for a failed reservation")
}

func TestServiceReserve_RejectsNonPositiveQuantity(t *testing.T) {
	repo := &fakeInventoryRepo{}
	svc := NewService(repo, &fakePublisher{}, testLogger())

	for _, q := range []int{0, -1} {
		err := svc.Reserve(context.Background(), 42, q)
		assert.True(t, errors.Is(err, apperr.ErrInvalid), "quantity %d", q)
	}
	assert.Zero(t, repo.reserveCalls, "invalid quantity must not reach the database")
}

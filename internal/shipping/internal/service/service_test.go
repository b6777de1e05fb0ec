// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"testing"

	"github.com/ecodeclub/emall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/emall/internal/shipping/internal/domain"
	"github.com/ecodeclub/emall/internal/shipping/internal/event"
	"github.com/ecodeclub/emall/internal/shipping/internal/repository"
	"github.com/gotomicro/ego/core/elog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	shippings map[string]*domain.Shipping
	nextID    int64
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{shippings: map[string]*domain.Shipping{}, nextID: 1}
}

func (m *memoryRepository) Create(_ context.Context, s domain.Shipping) (int64, error) {
	s.ID = m.nextID
	m.nextID++
	m.shippings[s.SN] = &s
	return s.ID, nil
}

func (m *memoryRepository) FindBySN(_ context.Context, sn string) (domain.Shipping, error) {
	s, ok := m.shippings[sn]
	if !ok {
		return domain.Shipping{}, repository.ErrShippingNotFound
	}
	return *s, nil
}

func (m *memoryRepository) FindByOrderSN(_ context.Context, orderSN string) (domain.Shipping, error) {
	for _, s := range m.shippings {
		if s.OrderSN == orderSN {
			return *s, nil
		}
	}
	return domain.Shipping{}, repository.ErrShippingNotFound
}

func (m *memoryRepository) Transition(_ context.Context, s domain.Shipping, from domain.Status) error {
	stored, ok := m.shippings[s.SN]
	if !ok {
		return repository.ErrShippingNotFound
	}
	if stored.Status != from {
		return repository.ErrShippingStateChanged
	}
	*stored = s
	return nil
}

type recordingProducer struct {
	events []event.ShippingEvent
}

func (r *recordingProducer) Produce(_ context.Context, evt event.ShippingEvent) error {
	r.events = append(r.events, evt)
	return nil
}

func newTestService(repo repository.ShippingRepository, producer event.ShippingEventProducer) *service {
	return &service{
		repo:     repo,
		producer: producer,
		snGen:    sequencenumber.NewGenerator("SHP"),
		nowFunc:  func() int64 { return 1000 },
		logger:   elog.DefaultLogger,
	}
}

func TestService_CreateShipping(t *testing.T) {
	t.Parallel()
	repo := newMemoryRepository()
	svc := newTestService(repo, &recordingProducer{})

	shp, err := svc.CreateShipping(context.Background(), domain.Shipping{
		OrderID: 1, OrderSN: "ORD123", UID: 7,
		Address: domain.Address{Recipient: "张三", City: "上海"},
	})
	require.NoError(t, err)
	assert.NotZero(t, shp.ID)
	assert.NotEmpty(t, shp.SN)
	assert.Equal(t, domain.StatusPending, shp.Status)
}

func TestService_Advance(t *testing.T) {
	t.Parallel()
	repo := newMemoryRepository()
	producer := &recordingProducer{}
	svc := newTestService(repo, producer)
	ctx := context.Background()

	shp, err := svc.CreateShipping(ctx, domain.Shipping{OrderSN: "ORD123", UID: 7})
	require.NoError(t, err)

	_, err = svc.Advance(ctx, shp.SN, domain.StatusProcessing, Meta{})
	require.NoError(t, err)
	got, err := svc.Advance(ctx, shp.SN, domain.StatusShipped, Meta{Carrier: "顺丰", TrackingNumber: "SF001"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, got.Status)
	assert.Equal(t, "顺丰", got.Carrier)
	assert.Equal(t, "SF001", got.TrackingNumber)
	assert.Equal(t, int64(1000), got.ShippedAt)

	// 每次成功流转广播一个事件
	require.Len(t, producer.events, 2)
	assert.Equal(t, "ORD123", producer.events[1].OrderSN)
	assert.Equal(t, domain.StatusShipped.ToUint8(), producer.events[1].Status)

	// 非法流转不落库不广播
	_, err = svc.Advance(ctx, shp.SN, domain.StatusPending, Meta{})
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Len(t, producer.events, 2)
}

func TestService_Cancel(t *testing.T) {
	t.Parallel()
	repo := newMemoryRepository()
	producer := &recordingProducer{}
	svc := newTestService(repo, producer)
	ctx := context.Background()

	t.Run("发货前可取消", func(t *testing.T) {
		shp, err := svc.CreateShipping(ctx, domain.Shipping{OrderSN: "ORD1", UID: 7})
		require.NoError(t, err)
		got, err := svc.Cancel(ctx, shp.SN)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, got.Status)
		assert.Equal(t, int64(1000), got.CancelledAt)
	})

	t.Run("发货后不可取消", func(t *testing.T) {
		shp, err := svc.CreateShipping(ctx, domain.Shipping{OrderSN: "ORD2", UID: 7})
		require.NoError(t, err)
		_, err = svc.Advance(ctx, shp.SN, domain.StatusProcessing, Meta{})
		require.NoError(t, err)
		_, err = svc.Advance(ctx, shp.SN, domain.StatusShipped, Meta{})
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, shp.SN)
		assert.ErrorIs(t, err, ErrIllegalTransition)
	})
}

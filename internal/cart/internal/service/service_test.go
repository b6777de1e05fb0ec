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
	"time"

	"github.com/ecodeclub/emall/internal/cart/internal/domain"
	"github.com/ecodeclub/emall/internal/cart/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepository 供单元测试使用的内存实现
type memoryRepository struct {
	carts  map[int64]domain.Cart
	nextID int64
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{carts: map[int64]domain.Cart{}, nextID: 1}
}

func (m *memoryRepository) FindByUID(_ context.Context, uid int64) (domain.Cart, error) {
	cart, ok := m.carts[uid]
	if !ok {
		return domain.Cart{}, repository.ErrCartNotFound
	}
	return cart, nil
}

func (m *memoryRepository) Save(_ context.Context, cart domain.Cart) (int64, error) {
	if cart.ID == 0 {
		cart.ID = m.nextID
		m.nextID++
	}
	m.carts[cart.UID] = cart
	return cart.ID, nil
}

func (m *memoryRepository) Delete(_ context.Context, cart domain.Cart) error {
	delete(m.carts, cart.UID)
	return nil
}

func (m *memoryRepository) DeleteBatch(_ context.Context, carts []domain.Cart) error {
	for _, c := range carts {
		delete(m.carts, c.UID)
	}
	return nil
}

func (m *memoryRepository) FindExpired(_ context.Context, offset, limit int, now int64) ([]domain.Cart, int64, error) {
	var res []domain.Cart
	for _, c := range m.carts {
		if c.IsExpired(now) {
			res = append(res, c)
		}
	}
	return res, int64(len(res)), nil
}

func newTestService(repo repository.CartRepository, now int64) *service {
	return &service{
		repo:    repo,
		ttl:     30 * 24 * time.Hour,
		nowFunc: func() int64 { return now },
	}
}

func TestService_AddItem_CreatesCart(t *testing.T) {
	t.Parallel()
	now := time.Now().UnixMilli()
	repo := newMemoryRepository()
	svc := newTestService(repo, now)

	cart, err := svc.AddItem(context.Background(), 123, domain.Item{
		Unit: domain.Unit{ProductID: 1}, Price: 999, Quantity: 2,
	})
	require.NoError(t, err)
	assert.NotZero(t, cart.ID)
	assert.Equal(t, int64(123), cart.UID)
	assert.Equal(t, int64(1998), cart.TotalAmount)
	// 过期时间在创建时一次性确定
	assert.Equal(t, now+(30*24*time.Hour).Milliseconds(), cart.ExpiresAt)
}

func TestService_AddItem_DoesNotExtendTTL(t *testing.T) {
	t.Parallel()
	now := time.Now().UnixMilli()
	repo := newMemoryRepository()
	svc := newTestService(repo, now)

	first, err := svc.AddItem(context.Background(), 123, domain.Item{
		Unit: domain.Unit{ProductID: 1}, Price: 999, Quantity: 1,
	})
	require.NoError(t, err)

	// 一天之后再次加购, 过期时间不变
	svc.nowFunc = func() int64 { return now + (24 * time.Hour).Milliseconds() }
	second, err := svc.AddItem(context.Background(), 123, domain.Item{
		Unit: domain.Unit{ProductID: 2}, Price: 500, Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ExpiresAt, second.ExpiresAt)
}

func TestService_AddItem_RebuildsExpiredCart(t *testing.T) {
	t.Parallel()
	now := time.Now().UnixMilli()
	repo := newMemoryRepository()
	svc := newTestService(repo, now)

	_, err := svc.AddItem(context.Background(), 123, domain.Item{
		Unit: domain.Unit{ProductID: 1}, Price: 999, Quantity: 5,
	})
	require.NoError(t, err)

	// TTL 之后加购, 旧车被销毁重建
	after := now + (31 * 24 * time.Hour).Milliseconds()
	svc.nowFunc = func() int64 { return after }
	cart, err := svc.AddItem(context.Background(), 123, domain.Item{
		Unit: domain.Unit{ProductID: 2}, Price: 500, Quantity: 1,
	})
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2), cart.Items[0].Unit.ProductID)
	assert.Equal(t, after+(30*24*time.Hour).Milliseconds(), cart.ExpiresAt)
}

func TestService_Merge(t *testing.T) {
	t.Parallel()
	now := time.Now().UnixMilli()
	repo := newMemoryRepository()
	svc := newTestService(repo, now)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, domain.Item{Unit: domain.Unit{ProductID: 10}, Price: 1000, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 2, domain.Item{Unit: domain.Unit{ProductID: 10}, Price: 1000, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 2, domain.Item{Unit: domain.Unit{ProductID: 20}, Price: 300, Quantity: 1})
	require.NoError(t, err)

	merged, err := svc.Merge(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, merged.Items, 2)
	assert.Equal(t, int64(4), merged.TotalItems)
	assert.Equal(t, int64(3300), merged.TotalAmount)

	// 源购物车已销毁
	_, err = svc.GetCart(ctx, 1)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestService_Merge_SourceAbsent(t *testing.T) {
	t.Parallel()
	now := time.Now().UnixMilli()
	repo := newMemoryRepository()
	svc := newTestService(repo, now)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 2, domain.Item{Unit: domain.Unit{ProductID: 10}, Price: 1000, Quantity: 1})
	require.NoError(t, err)

	merged, err := svc.Merge(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, merged.Items, 1)
}

func TestService_Destroy(t *testing.T) {
	t.Parallel()
	now := time.Now().UnixMilli()
	repo := newMemoryRepository()
	svc := newTestService(repo, now)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, domain.Item{Unit: domain.Unit{ProductID: 10}, Price: 1000, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Destroy(ctx, 1))
	_, err = svc.GetCart(ctx, 1)
	assert.ErrorIs(t, err, ErrCartNotFound)
	// 幂等
	require.NoError(t, svc.Destroy(ctx, 1))
}

func TestService_CloseExpiredCarts(t *testing.T) {
	t.Parallel()
	now := time.Now().UnixMilli()
	repo := newMemoryRepository()
	svc := newTestService(repo, now)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, domain.Item{Unit: domain.Unit{ProductID: 10}, Price: 1000, Quantity: 1})
	require.NoError(t, err)

	after := now + (31 * 24 * time.Hour).Milliseconds()
	carts, total, err := svc.FindExpiredCarts(ctx, 0, 100, after)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.NoError(t, svc.CloseExpiredCarts(ctx, carts))
	_, err = svc.GetCart(ctx, 1)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

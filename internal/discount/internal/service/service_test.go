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

	"github.com/ecodeclub/emall/internal/discount/internal/domain"
	"github.com/ecodeclub/emall/internal/discount/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	discounts    map[string]*domain.Discount
	coupons      map[int64]*domain.Coupon
	nextCouponID int64
}

func newMemoryRepository(ds ...*domain.Discount) *memoryRepository {
	m := &memoryRepository{
		discounts:    map[string]*domain.Discount{},
		coupons:      map[int64]*domain.Coupon{},
		nextCouponID: 1,
	}
	for _, d := range ds {
		m.discounts[d.Code] = d
	}
	return m
}

func (m *memoryRepository) Create(_ context.Context, d domain.Discount) (int64, error) {
	d.ID = int64(len(m.discounts) + 1)
	m.discounts[d.Code] = &d
	return d.ID, nil
}

func (m *memoryRepository) Update(_ context.Context, d domain.Discount) error { return nil }

func (m *memoryRepository) Deactivate(_ context.Context, id int64) error {
	for _, d := range m.discounts {
		if d.ID == id {
			d.Active = false
		}
	}
	return nil
}

func (m *memoryRepository) FindByID(_ context.Context, id int64) (domain.Discount, error) {
	for _, d := range m.discounts {
		if d.ID == id {
			return *d, nil
		}
	}
	return domain.Discount{}, repository.ErrDiscountNotFound
}

func (m *memoryRepository) FindByCode(_ context.Context, code string) (domain.Discount, error) {
	d, ok := m.discounts[code]
	if !ok {
		return domain.Discount{}, repository.ErrDiscountNotFound
	}
	return *d, nil
}

func (m *memoryRepository) List(_ context.Context, offset, limit int) ([]domain.Discount, error) {
	return nil, nil
}

func (m *memoryRepository) Redeem(_ context.Context, d domain.Discount, uid int64) (int64, error) {
	stored := m.discounts[d.Code]
	if !stored.Active || (stored.UsageLimit > 0 && stored.UsageCount >= stored.UsageLimit) {
		return 0, repository.ErrUsageExceeded
	}
	stored.UsageCount++
	id := m.nextCouponID
	m.nextCouponID++
	m.coupons[id] = &domain.Coupon{ID: id, DiscountID: stored.ID, UID: uid}
	return id, nil
}

func (m *memoryRepository) CancelRedemption(_ context.Context, couponID int64) error {
	c, ok := m.coupons[couponID]
	if !ok {
		return repository.ErrCouponNotFound
	}
	if c.IsUsed() {
		return repository.ErrCouponUsed
	}
	delete(m.coupons, couponID)
	for _, d := range m.discounts {
		if d.ID == c.DiscountID && d.UsageCount > 0 {
			d.UsageCount--
		}
	}
	return nil
}

func (m *memoryRepository) LinkCouponToOrder(_ context.Context, couponID, orderID int64) error {
	c, ok := m.coupons[couponID]
	if !ok {
		return repository.ErrCouponNotFound
	}
	if c.IsUsed() {
		return repository.ErrCouponUsed
	}
	c.OrderID = orderID
	return nil
}

func (m *memoryRepository) FindCouponByID(_ context.Context, couponID int64) (domain.Coupon, error) {
	c, ok := m.coupons[couponID]
	if !ok {
		return domain.Coupon{}, repository.ErrCouponNotFound
	}
	return *c, nil
}

func (m *memoryRepository) CountCouponsByUser(_ context.Context, discountID, uid int64) (int64, error) {
	var count int64
	for _, c := range m.coupons {
		if c.DiscountID == discountID && c.UID == uid {
			count++
		}
	}
	return count, nil
}

type fixedCodeGenerator struct{}

func (fixedCodeGenerator) Generate() string { return "GEN1234" }

func newTestService(repo repository.DiscountRepository, now int64) *service {
	return &service{
		repo:    repo,
		codeGen: fixedCodeGenerator{},
		nowFunc: func() int64 { return now },
	}
}

func testDiscount(now int64) *domain.Discount {
	return &domain.Discount{
		ID:                    1,
		Code:                  "SAVE20",
		Type:                  domain.TypePercentage,
		Value:                 20,
		MaximumDiscountAmount: 1000,
		StartDate:             now - 1000,
		UsageLimit:            1,
		Active:                true,
		Scope:                 domain.ScopeAll,
	}
}

func TestService_Evaluate(t *testing.T) {
	t.Parallel()
	now := time.Now().UnixMilli()
	repo := newMemoryRepository(testDiscount(now))
	svc := newTestService(repo, now)
	ctx := context.Background()

	res, err := svc.Evaluate(ctx, "SAVE20", 1, []domain.Line{{ProductID: 1, Amount: 10000}})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.Amount)
	assert.Zero(t, res.CouponID)

	// 预览不产生副作用
	d, err := svc.FindByCode(ctx, "SAVE20")
	require.NoError(t, err)
	assert.Zero(t, d.UsageCount)

	_, err = svc.Evaluate(ctx, "NOPE", 1, nil)
	assert.ErrorIs(t, err, ErrDiscountNotFound)
}

func TestService_Evaluate_ScopeFiltering(t *testing.T) {
	t.Parallel()
	now := time.Now().UnixMilli()
	d := testDiscount(now)
	d.Scope = domain.ScopeSpecificProducts
	d.ProductIDs = []int64{1}
	d.MinimumPurchaseAmount = 5000
	repo := newMemoryRepository(d)
	svc := newTestService(repo, now)

	// 只有商品1参与资格金额, 不足最低消费
	_, err := svc.Evaluate(context.Background(), "SAVE20", 1, []domain.Line{
		{ProductID: 1, Amount: 3000},
		{ProductID: 2, Amount: 9000},
	})
	assert.ErrorIs(t, err, domain.ErrMinimumPurchaseNotMet)

	res, err := svc.Evaluate(context.Background(), "SAVE20", 1, []domain.Line{
		{ProductID: 1, Amount: 6000},
		{ProductID: 2, Amount: 9000},
	})
	require.NoError(t, err)
	// 20% * 6000
	assert.Equal(t, int64(1000), res.Amount)
}

func TestService_Redeem(t *testing.T) {
	t.Parallel()
	now := time.Now().UnixMilli()
	repo := newMemoryRepository(testDiscount(now))
	svc := newTestService(repo, now)
	ctx := context.Background()

	res, err := svc.Redeem(ctx, "SAVE20", 1, []domain.Line{{ProductID: 1, Amount: 10000}})
	require.NoError(t, err)
	assert.NotZero(t, res.CouponID)
	assert.Equal(t, int64(1000), res.Amount)

	// 单次使用的码第二次兑换失败
	_, err = svc.Redeem(ctx, "SAVE20", 2, []domain.Line{{ProductID: 1, Amount: 10000}})
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestService_CancelRedemption(t *testing.T) {
	t.Parallel()
	now := time.Now().UnixMilli()
	repo := newMemoryRepository(testDiscount(now))
	svc := newTestService(repo, now)
	ctx := context.Background()

	res, err := svc.Redeem(ctx, "SAVE20", 1, []domain.Line{{ProductID: 1, Amount: 10000}})
	require.NoError(t, err)

	require.NoError(t, svc.CancelRedemption(ctx, res.CouponID))
	// 额度退回后可以再次兑换
	res2, err := svc.Redeem(ctx, "SAVE20", 1, []domain.Line{{ProductID: 1, Amount: 10000}})
	require.NoError(t, err)
	// 补偿幂等
	require.NoError(t, svc.CancelRedemption(ctx, res.CouponID))
	assert.NotEqual(t, res.CouponID, res2.CouponID)
}

func TestService_LinkCouponToOrder(t *testing.T) {
	t.Parallel()
	now := time.Now().UnixMilli()
	repo := newMemoryRepository(testDiscount(now))
	svc := newTestService(repo, now)
	ctx := context.Background()

	res, err := svc.Redeem(ctx, "SAVE20", 1, []domain.Line{{ProductID: 1, Amount: 10000}})
	require.NoError(t, err)

	require.NoError(t, svc.LinkCouponToOrder(ctx, res.CouponID, 888))
	// 已关联订单的兑换不能再次关联, 也不能撤销
	assert.ErrorIs(t, svc.LinkCouponToOrder(ctx, res.CouponID, 999), ErrCouponUsed)
	assert.ErrorIs(t, svc.CancelRedemption(ctx, res.CouponID), ErrCouponUsed)
}

func TestService_Create_GeneratesCode(t *testing.T) {
	t.Parallel()
	now := time.Now().UnixMilli()
	repo := newMemoryRepository()
	svc := newTestService(repo, now)

	_, err := svc.Create(context.Background(), domain.Discount{Type: domain.TypeFixedAmount, Value: 500})
	require.NoError(t, err)
	d, err := svc.FindByCode(context.Background(), "GEN1234")
	require.NoError(t, err)
	assert.Equal(t, int64(500), d.Value)
}

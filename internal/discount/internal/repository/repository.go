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

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ekit/sqlx"
	"github.com/ecodeclub/emall/internal/discount/internal/domain"
	"github.com/ecodeclub/emall/internal/discount/internal/repository/dao"
)

var (
	ErrDiscountNotFound = dao.ErrDiscountNotFound
	ErrCouponNotFound   = dao.ErrCouponNotFound
	ErrUsageExceeded    = dao.ErrUsageExceeded
	ErrCouponUsed       = dao.ErrCouponUsed
	ErrDuplicateCode    = dao.ErrDuplicateCode
)

type DiscountRepository interface {
	Create(ctx context.Context, d domain.Discount) (int64, error)
	Update(ctx context.Context, d domain.Discount) error
	Deactivate(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (domain.Discount, error)
	FindByCode(ctx context.Context, code string) (domain.Discount, error)
	List(ctx context.Context, offset, limit int) ([]domain.Discount, error)
	Redeem(ctx context.Context, d domain.Discount, uid int64) (int64, error)
	CancelRedemption(ctx context.Context, couponID int64) error
	LinkCouponToOrder(ctx context.Context, couponID, orderID int64) error
	FindCouponByID(ctx context.Context, couponID int64) (domain.Coupon, error)
	CountCouponsByUser(ctx context.Context, discountID, uid int64) (int64, error)
}

type discountRepository struct {
	dao dao.DiscountDAO
}

func NewDiscountRepository(d dao.DiscountDAO) DiscountRepository {
	return &discountRepository{dao: d}
}

func (r *discountRepository) Create(ctx context.Context, d domain.Discount) (int64, error) {
	return r.dao.Create(ctx, r.toEntity(d))
}

func (r *discountRepository) Update(ctx context.Context, d domain.Discount) error {
	return r.dao.Update(ctx, r.toEntity(d))
}

func (r *discountRepository) Deactivate(ctx context.Context, id int64) error {
	return r.dao.Deactivate(ctx, id)
}

func (r *discountRepository) FindByID(ctx context.Context, id int64) (domain.Discount, error) {
	d, err := r.dao.FindByID(ctx, id)
	return r.toDomain(d), err
}

func (r *discountRepository) FindByCode(ctx context.Context, code string) (domain.Discount, error) {
	d, err := r.dao.FindByCode(ctx, code)
	return r.toDomain(d), err
}

func (r *discountRepository) List(ctx context.Context, offset, limit int) ([]domain.Discount, error) {
	ds, err := r.dao.List(ctx, offset, limit)
	return slice.Map(ds, func(idx int, src dao.Discount) domain.Discount {
		return r.toDomain(src)
	}), err
}

func (r *discountRepository) Redeem(ctx context.Context, d domain.Discount, uid int64) (int64, error) {
	return r.dao.Redeem(ctx, d.ID, uid, d.UsageLimitPerUser)
}

func (r *discountRepository) CancelRedemption(ctx context.Context, couponID int64) error {
	return r.dao.CancelRedemption(ctx, couponID)
}

func (r *discountRepository) LinkCouponToOrder(ctx context.Context, couponID, orderID int64) error {
	return r.dao.LinkCouponToOrder(ctx, couponID, orderID)
}

func (r *discountRepository) FindCouponByID(ctx context.Context, couponID int64) (domain.Coupon, error) {
	c, err := r.dao.FindCouponByID(ctx, couponID)
	return domain.Coupon{
		ID:         c.Id,
		DiscountID: c.DiscountId,
		UID:        c.Uid,
		OrderID:    c.OrderId,
		Ctime:      c.Ctime,
		Utime:      c.Utime,
	}, err
}

func (r *discountRepository) CountCouponsByUser(ctx context.Context, discountID, uid int64) (int64, error) {
	return r.dao.CountCouponsByUser(ctx, discountID, uid)
}

func (r *discountRepository) toDomain(d dao.Discount) domain.Discount {
	return domain.Discount{
		ID:                    d.Id,
		Code:                  d.Code,
		Name:                  d.Name,
		Type:                  domain.Type(d.Type),
		Value:                 d.Value,
		MinimumPurchaseAmount: d.MinimumPurchaseAmount,
		MaximumDiscountAmount: d.MaximumDiscountAmount,
		StartDate:             d.StartDate,
		EndDate:               d.EndDate,
		UsageLimit:            d.UsageLimit,
		UsageLimitPerUser:     d.UsageLimitPerUser,
		UsageCount:            d.UsageCount,
		Active:                d.Active,
		Scope:                 domain.Scope(d.Scope),
		ProductIDs:            d.ProductIds.Val,
		CategoryIDs:           d.CategoryIds.Val,
		Ctime:                 d.Ctime,
		Utime:                 d.Utime,
	}
}

func (r *discountRepository) toEntity(d domain.Discount) dao.Discount {
	return dao.Discount{
		Id:                    d.ID,
		Code:                  d.Code,
		Name:                  d.Name,
		Type:                  d.Type.ToUint8(),
		Value:                 d.Value,
		MinimumPurchaseAmount: d.MinimumPurchaseAmount,
		MaximumDiscountAmount: d.MaximumDiscountAmount,
		StartDate:             d.StartDate,
		EndDate:               d.EndDate,
		UsageLimit:            d.UsageLimit,
		UsageLimitPerUser:     d.UsageLimitPerUser,
		UsageCount:            d.UsageCount,
		Active:                d.Active,
		Scope:                 d.Scope.ToUint8(),
		ProductIds:            sqlx.JsonColumn[[]int64]{Val: d.ProductIDs, Valid: len(d.ProductIDs) > 0},
		CategoryIds:           sqlx.JsonColumn[[]int64]{Val: d.CategoryIDs, Valid: len(d.CategoryIDs) > 0},
	}
}

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
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ekit/sqlx"
	"github.com/ecodeclub/emall/internal/order/internal/domain"
	"github.com/ecodeclub/emall/internal/order/internal/repository/dao"
)

var (
	ErrOrderNotFound     = dao.ErrOrderNotFound
	ErrOrderStateChanged = dao.ErrOrderStateChanged
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) (int64, error)
	FindBySN(ctx context.Context, sn string) (domain.Order, error)
	FindBySNAndUID(ctx context.Context, sn string, uid int64) (domain.Order, error)
	ListOrders(ctx context.Context, offset, limit int, uid int64) ([]domain.Order, error)
	TotalOrders(ctx context.Context, uid int64) (int64, error)
	Transition(ctx context.Context, order domain.Order, from domain.Status) error
	FindExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, error)
	TotalExpiredOrders(ctx context.Context, ctime int64) (int64, error)
}

type orderRepository struct {
	dao dao.OrderDAO
}

func NewOrderRepository(d dao.OrderDAO) OrderRepository {
	return &orderRepository{dao: d}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order domain.Order) (int64, error) {
	return r.dao.CreateOrder(ctx, r.toEntity(order), r.toItemEntities(order.Items))
}

func (r *orderRepository) FindBySN(ctx context.Context, sn string) (domain.Order, error) {
	o, err := r.dao.FindBySN(ctx, sn)
	if err != nil {
		return domain.Order{}, err
	}
	items, err := r.dao.FindOrderItemsByOrderID(ctx, o.Id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("查找订单项失败: %w", err)
	}
	return r.toDomain(o, items), nil
}

func (r *orderRepository) FindBySNAndUID(ctx context.Context, sn string, uid int64) (domain.Order, error) {
	o, err := r.dao.FindBySNAndUID(ctx, sn, uid)
	if err != nil {
		return domain.Order{}, err
	}
	items, err := r.dao.FindOrderItemsByOrderID(ctx, o.Id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("查找订单项失败: %w", err)
	}
	return r.toDomain(o, items), nil
}

func (r *orderRepository) ListOrders(ctx context.Context, offset, limit int, uid int64) ([]domain.Order, error) {
	os, err := r.dao.List(ctx, offset, limit, uid)
	if err != nil {
		return nil, err
	}
	res := make([]domain.Order, 0, len(os))
	for _, o := range os {
		items, er := r.dao.FindOrderItemsByOrderID(ctx, o.Id)
		if er != nil {
			return nil, fmt.Errorf("查找订单项失败: %w", er)
		}
		res = append(res, r.toDomain(o, items))
	}
	return res, nil
}

func (r *orderRepository) TotalOrders(ctx context.Context, uid int64) (int64, error) {
	return r.dao.Count(ctx, uid)
}

func (r *orderRepository) Transition(ctx context.Context, order domain.Order, from domain.Status) error {
	return r.dao.Transition(ctx, r.toEntity(order), from.ToUint8())
}

func (r *orderRepository) FindExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, error) {
	os, err := r.dao.FindExpiredOrders(ctx, offset, limit, ctime)
	if err != nil {
		return nil, err
	}
	return slice.Map(os, func(idx int, src dao.Order) domain.Order {
		return r.toDomain(src, nil)
	}), nil
}

func (r *orderRepository) TotalExpiredOrders(ctx context.Context, ctime int64) (int64, error) {
	return r.dao.CountExpiredOrders(ctx, ctime)
}

func (r *orderRepository) toEntity(order domain.Order) dao.Order {
	return dao.Order{
		Id:             order.ID,
		SN:             order.SN,
		Uid:            order.UID,
		CouponId:       order.CouponID,
		CouponCode:     order.CouponCode,
		Subtotal:       order.Subtotal,
		Tax:            order.Tax,
		ShippingFee:    order.ShippingFee,
		DiscountAmount: order.DiscountAmount,
		Total:          order.Total,
		ShippingAddress: sqlx.JsonColumn[dao.Address]{
			Val:   r.toAddressEntity(order.ShippingAddress),
			Valid: true,
		},
		BillingAddress: sqlx.JsonColumn[dao.Address]{
			Val:   r.toAddressEntity(order.BillingAddress),
			Valid: true,
		},
		Status:       order.Status.ToUint8(),
		CancelReason: order.CancelReason,
		RefundReason: order.RefundReason,
		PaidAt:       order.PaidAt,
		ShippedAt:    order.ShippedAt,
		DeliveredAt:  order.DeliveredAt,
		CancelledAt:  order.CancelledAt,
		RefundedAt:   order.RefundedAt,
		FailedAt:     order.FailedAt,
	}
}

func (r *orderRepository) toItemEntities(items []domain.Item) []dao.OrderItem {
	return slice.Map(items, func(idx int, src domain.Item) dao.OrderItem {
		return dao.OrderItem{
			ProductId:      src.ProductID,
			VariantId:      src.VariantID,
			SKU:            src.SKU,
			Name:           src.Name,
			Image:          src.Image,
			Price:          src.Price,
			DiscountAmount: src.DiscountAmount,
			Quantity:       src.Quantity,
		}
	})
}

func (r *orderRepository) toDomain(o dao.Order, items []dao.OrderItem) domain.Order {
	res := domain.Order{
		ID:              o.Id,
		SN:              o.SN,
		UID:             o.Uid,
		CouponID:        o.CouponId,
		CouponCode:      o.CouponCode,
		Subtotal:        o.Subtotal,
		Total:           o.Total,
		Tax:             o.Tax,
		ShippingFee:     o.ShippingFee,
		DiscountAmount:  o.DiscountAmount,
		ShippingAddress: r.toAddressDomain(o.ShippingAddress.Val),
		BillingAddress:  r.toAddressDomain(o.BillingAddress.Val),
		Status:          domain.Status(o.Status),
		CancelReason:    o.CancelReason,
		RefundReason:    o.RefundReason,
		PaidAt:          o.PaidAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		RefundedAt:      o.RefundedAt,
		FailedAt:        o.FailedAt,
		Ctime:           o.Ctime,
		Utime:           o.Utime,
		Items: slice.Map(items, func(idx int, src dao.OrderItem) domain.Item {
			return domain.Item{
				ProductID:      src.ProductId,
				VariantID:      src.VariantId,
				SKU:            src.SKU,
				Name:           src.Name,
				Image:          src.Image,
				Price:          src.Price,
				DiscountAmount: src.DiscountAmount,
				Quantity:       src.Quantity,
			}
		}),
	}
	// 没有带出订单项时保留落库的金额, 不能用空行重算
	if len(res.Items) > 0 {
		res.Recalculate()
	}
	return res
}

func (r *orderRepository) toAddressEntity(a domain.Address) dao.Address {
	return dao.Address{
		Recipient: a.Recipient,
		Phone:     a.Phone,
		Province:  a.Province,
		City:      a.City,
		Detail:    a.Detail,
		ZipCode:   a.ZipCode,
	}
}

func (r *orderRepository) toAddressDomain(a dao.Address) domain.Address {
	return domain.Address{
		Recipient: a.Recipient,
		Phone:     a.Phone,
		Province:  a.Province,
		City:      a.City,
		Detail:    a.Detail,
		ZipCode:   a.ZipCode,
	}
}

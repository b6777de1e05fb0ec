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

	"github.com/ecodeclub/emall/internal/shipping/internal/domain"
	"github.com/ecodeclub/emall/internal/shipping/internal/repository/dao"
)

var (
	ErrShippingNotFound     = dao.ErrShippingNotFound
	ErrShippingStateChanged = dao.ErrShippingStateChanged
)

type ShippingRepository interface {
	Create(ctx context.Context, s domain.Shipping) (int64, error)
	FindBySN(ctx context.Context, sn string) (domain.Shipping, error)
	FindByOrderSN(ctx context.Context, orderSN string) (domain.Shipping, error)
	Transition(ctx context.Context, s domain.Shipping, from domain.Status) error
}

type shippingRepository struct {
	dao dao.ShippingDAO
}

func NewShippingRepository(d dao.ShippingDAO) ShippingRepository {
	return &shippingRepository{dao: d}
}

func (r *shippingRepository) Create(ctx context.Context, s domain.Shipping) (int64, error) {
	return r.dao.Create(ctx, r.toEntity(s))
}

func (r *shippingRepository) FindBySN(ctx context.Context, sn string) (domain.Shipping, error) {
	s, err := r.dao.FindBySN(ctx, sn)
	return r.toDomain(s), err
}

func (r *shippingRepository) FindByOrderSN(ctx context.Context, orderSN string) (domain.Shipping, error) {
	s, err := r.dao.FindByOrderSN(ctx, orderSN)
	return r.toDomain(s), err
}

func (r *shippingRepository) Transition(ctx context.Context, s domain.Shipping, from domain.Status) error {
	return r.dao.Transition(ctx, r.toEntity(s), from.ToUint8())
}

func (r *shippingRepository) toDomain(s dao.Shipping) domain.Shipping {
	return domain.Shipping{
		ID:             s.Id,
		SN:             s.SN,
		OrderID:        s.OrderId,
		OrderSN:        s.OrderSN,
		UID:            s.Uid,
		Carrier:        s.Carrier,
		TrackingNumber: s.TrackingNumber,
		Address: domain.Address{
			Recipient: s.Recipient,
			Phone:     s.Phone,
			Province:  s.Province,
			City:      s.City,
			Detail:    s.Detail,
			ZipCode:   s.ZipCode,
		},
		Status:        domain.Status(s.Status),
		FailureReason: s.FailureReason,
		ShippedAt:     s.ShippedAt,
		DeliveredAt:   s.DeliveredAt,
		FailedAt:      s.FailedAt,
		ReturnedAt:    s.ReturnedAt,
		CancelledAt:   s.CancelledAt,
		Ctime:         s.Ctime,
		Utime:         s.Utime,
	}
}

func (r *shippingRepository) toEntity(s domain.Shipping) dao.Shipping {
	return dao.Shipping{
		Id:             s.ID,
		SN:             s.SN,
		OrderId:        s.OrderID,
		OrderSN:        s.OrderSN,
		Uid:            s.UID,
		Carrier:        s.Carrier,
		TrackingNumber: s.TrackingNumber,
		Recipient:      s.Address.Recipient,
		Phone:          s.Address.Phone,
		Province:       s.Address.Province,
		City:           s.Address.City,
		Detail:         s.Address.Detail,
		ZipCode:        s.Address.ZipCode,
		Status:         s.Status.ToUint8(),
		FailureReason:  s.FailureReason,
		ShippedAt:      s.ShippedAt,
		DeliveredAt:    s.DeliveredAt,
		FailedAt:       s.FailedAt,
		ReturnedAt:     s.ReturnedAt,
		CancelledAt:    s.CancelledAt,
	}
}

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

	"github.com/ecodeclub/emall/internal/payment/internal/domain"
	"github.com/ecodeclub/emall/internal/payment/internal/repository/dao"
)

var (
	ErrPaymentNotFound     = dao.ErrPaymentNotFound
	ErrPaymentStateChanged = dao.ErrPaymentStateChanged
)

type PaymentRepository interface {
	Create(ctx context.Context, p domain.Payment) (int64, error)
	FindBySN(ctx context.Context, sn string) (domain.Payment, error)
	FindByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error)
	Transition(ctx context.Context, p domain.Payment, from domain.Status) error
}

type paymentRepository struct {
	dao dao.PaymentDAO
}

func NewPaymentRepository(d dao.PaymentDAO) PaymentRepository {
	return &paymentRepository{dao: d}
}

func (r *paymentRepository) Create(ctx context.Context, p domain.Payment) (int64, error) {
	return r.dao.Create(ctx, r.toEntity(p))
}

func (r *paymentRepository) FindBySN(ctx context.Context, sn string) (domain.Payment, error) {
	p, err := r.dao.FindBySN(ctx, sn)
	return r.toDomain(p), err
}

func (r *paymentRepository) FindByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error) {
	p, err := r.dao.FindByOrderSN(ctx, orderSN)
	return r.toDomain(p), err
}

func (r *paymentRepository) Transition(ctx context.Context, p domain.Payment, from domain.Status) error {
	return r.dao.Transition(ctx, r.toEntity(p), from.ToUint8())
}

func (r *paymentRepository) toDomain(p dao.Payment) domain.Payment {
	return domain.Payment{
		ID:            p.Id,
		SN:            p.SN,
		OrderID:       p.OrderId,
		OrderSN:       p.OrderSN,
		UID:           p.Uid,
		Amount:        p.Amount,
		RefundAmount:  p.RefundAmount,
		Method:        p.Method,
		TransactionID: p.TransactionId,
		Status:        domain.Status(p.Status),
		FailureReason: p.FailureReason,
		PaidAt:        p.PaidAt,
		FailedAt:      p.FailedAt,
		CancelledAt:   p.CancelledAt,
		RefundedAt:    p.RefundedAt,
		Ctime:         p.Ctime,
		Utime:         p.Utime,
	}
}

func (r *paymentRepository) toEntity(p domain.Payment) dao.Payment {
	return dao.Payment{
		Id:            p.ID,
		SN:            p.SN,
		OrderId:       p.OrderID,
		OrderSN:       p.OrderSN,
		Uid:           p.UID,
		Amount:        p.Amount,
		RefundAmount:  p.RefundAmount,
		Method:        p.Method,
		TransactionId: p.TransactionID,
		Status:        p.Status.ToUint8(),
		FailureReason: p.FailureReason,
		PaidAt:        p.PaidAt,
		FailedAt:      p.FailedAt,
		CancelledAt:   p.CancelledAt,
		RefundedAt:    p.RefundedAt,
	}
}

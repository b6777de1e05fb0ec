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
	"time"

	"github.com/ecodeclub/emall/internal/payment/internal/domain"
	"github.com/ecodeclub/emall/internal/payment/internal/event"
	"github.com/ecodeclub/emall/internal/payment/internal/repository"
	"github.com/ecodeclub/emall/internal/pkg/sequencenumber"
	"github.com/gotomicro/ego/core/elog"
)

var (
	ErrPaymentNotFound   = repository.ErrPaymentNotFound
	ErrIllegalTransition = domain.ErrIllegalTransition
)

// Meta 一次流转携带的附加信息
type Meta struct {
	TransactionID string
	FailureReason string
}

//go:generate mockgen -source=./service.go -destination=../../mocks/payment.mock.go -package=paymentmocks Service
type Service interface {
	// CreatePayment 为订单创建待支付记录, SN 由内部生成
	CreatePayment(ctx context.Context, pmt domain.Payment) (domain.Payment, error)
	FindBySN(ctx context.Context, sn string) (domain.Payment, error)
	FindByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error)
	// Advance 执行状态流转并广播支付事件, 由支付网关回调处理方调用
	Advance(ctx context.Context, sn string, target domain.Status, meta Meta) (domain.Payment, error)
	// Refund 累加退款金额, 退满转为已退款
	Refund(ctx context.Context, sn string, amount int64) (domain.Payment, error)
}

type service struct {
	repo     repository.PaymentRepository
	producer event.PaymentEventProducer
	snGen    *sequencenumber.Generator
	nowFunc  func() int64
	logger   *elog.Component
}

func NewService(repo repository.PaymentRepository,
	producer event.PaymentEventProducer,
	snGen *sequencenumber.Generator) Service {
	return &service{
		repo:     repo,
		producer: producer,
		snGen:    snGen,
		nowFunc: func() int64 {
			return time.Now().UnixMilli()
		},
		logger: elog.DefaultLogger,
	}
}

func (s *service) CreatePayment(ctx context.Context, pmt domain.Payment) (domain.Payment, error) {
	sn, err := s.snGen.Generate(pmt.UID)
	if err != nil {
		return domain.Payment{}, err
	}
	pmt.SN = sn
	pmt.Status = domain.StatusPending
	id, err := s.repo.Create(ctx, pmt)
	if err != nil {
		return domain.Payment{}, err
	}
	pmt.ID = id
	return pmt, nil
}

func (s *service) FindBySN(ctx context.Context, sn string) (domain.Payment, error) {
	return s.repo.FindBySN(ctx, sn)
}

func (s *service) FindByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error) {
	return s.repo.FindByOrderSN(ctx, orderSN)
}

func (s *service) Advance(ctx context.Context, sn string, target domain.Status, meta Meta) (domain.Payment, error) {
	pmt, err := s.repo.FindBySN(ctx, sn)
	if err != nil {
		return domain.Payment{}, err
	}
	from := pmt.Status
	if err = pmt.Transition(target, s.nowFunc()); err != nil {
		return domain.Payment{}, err
	}
	if meta.TransactionID != "" {
		pmt.TransactionID = meta.TransactionID
	}
	if meta.FailureReason != "" {
		pmt.FailureReason = meta.FailureReason
	}
	if err = s.repo.Transition(ctx, pmt, from); err != nil {
		return domain.Payment{}, err
	}
	s.produce(ctx, pmt)
	return pmt, nil
}

func (s *service) Refund(ctx context.Context, sn string, amount int64) (domain.Payment, error) {
	pmt, err := s.repo.FindBySN(ctx, sn)
	if err != nil {
		return domain.Payment{}, err
	}
	from := pmt.Status
	if err = pmt.Refund(amount, s.nowFunc()); err != nil {
		return domain.Payment{}, err
	}
	if err = s.repo.Transition(ctx, pmt, from); err != nil {
		return domain.Payment{}, err
	}
	s.produce(ctx, pmt)
	return pmt, nil
}

// produce 发送失败只记录日志, 不影响已落库的状态流转
func (s *service) produce(ctx context.Context, pmt domain.Payment) {
	evt := event.PaymentEvent{
		OrderSN:   pmt.OrderSN,
		PaymentSN: pmt.SN,
		Status:    pmt.Status.ToUint8(),
	}
	if err := s.producer.Produce(ctx, evt); err != nil {
		s.logger.Error("发送支付事件失败",
			elog.FieldErr(err),
			elog.String("orderSN", evt.OrderSN),
			elog.Any("status", evt.Status))
	}
}

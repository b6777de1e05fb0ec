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

	"github.com/ecodeclub/emall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/emall/internal/shipping/internal/domain"
	"github.com/ecodeclub/emall/internal/shipping/internal/event"
	"github.com/ecodeclub/emall/internal/shipping/internal/repository"
	"github.com/gotomicro/ego/core/elog"
	"github.com/pkg/errors"
)

var (
	ErrShippingNotFound  = repository.ErrShippingNotFound
	ErrIllegalTransition = domain.ErrIllegalTransition
)

// Meta 一次流转携带的附加信息
type Meta struct {
	Carrier        string
	TrackingNumber string
	FailureReason  string
}

//go:generate mockgen -source=./service.go -destination=../../mocks/shipping.mock.go -package=shippingmocks Service
type Service interface {
	// CreateShipping 为订单创建待发货记录, SN 由内部生成
	CreateShipping(ctx context.Context, shp domain.Shipping) (domain.Shipping, error)
	FindBySN(ctx context.Context, sn string) (domain.Shipping, error)
	FindByOrderSN(ctx context.Context, orderSN string) (domain.Shipping, error)
	// Advance 执行状态流转并广播物流事件, 由承运商回调处理方调用
	Advance(ctx context.Context, sn string, target domain.Status, meta Meta) (domain.Shipping, error)
	// Cancel 仅在发货前允许取消
	Cancel(ctx context.Context, sn string) (domain.Shipping, error)
}

type service struct {
	repo     repository.ShippingRepository
	producer event.ShippingEventProducer
	snGen    *sequencenumber.Generator
	nowFunc  func() int64
	logger   *elog.Component
}

func NewService(repo repository.ShippingRepository,
	producer event.ShippingEventProducer,
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

func (s *service) CreateShipping(ctx context.Context, shp domain.Shipping) (domain.Shipping, error) {
	sn, err := s.snGen.Generate(shp.UID)
	if err != nil {
		return domain.Shipping{}, err
	}
	shp.SN = sn
	shp.Status = domain.StatusPending
	id, err := s.repo.Create(ctx, shp)
	if err != nil {
		return domain.Shipping{}, err
	}
	shp.ID = id
	return shp, nil
}

func (s *service) FindBySN(ctx context.Context, sn string) (domain.Shipping, error) {
	return s.repo.FindBySN(ctx, sn)
}

func (s *service) FindByOrderSN(ctx context.Context, orderSN string) (domain.Shipping, error) {
	return s.repo.FindByOrderSN(ctx, orderSN)
}

func (s *service) Advance(ctx context.Context, sn string, target domain.Status, meta Meta) (domain.Shipping, error) {
	shp, err := s.repo.FindBySN(ctx, sn)
	if err != nil {
		return domain.Shipping{}, err
	}
	from := shp.Status
	if err = shp.Transition(target, s.nowFunc()); err != nil {
		return domain.Shipping{}, err
	}
	if meta.Carrier != "" {
		shp.Carrier = meta.Carrier
	}
	if meta.TrackingNumber != "" {
		shp.TrackingNumber = meta.TrackingNumber
	}
	if meta.FailureReason != "" {
		shp.FailureReason = meta.FailureReason
	}
	if err = s.repo.Transition(ctx, shp, from); err != nil {
		return domain.Shipping{}, err
	}
	s.produce(ctx, shp)
	return shp, nil
}

func (s *service) Cancel(ctx context.Context, sn string) (domain.Shipping, error) {
	shp, err := s.repo.FindBySN(ctx, sn)
	if err != nil {
		return domain.Shipping{}, err
	}
	if !shp.CanBeCancelled() {
		return domain.Shipping{}, errors.Wrapf(domain.ErrIllegalTransition, "当前状态 %d 不可取消", shp.Status)
	}
	return s.Advance(ctx, sn, domain.StatusCancelled, Meta{})
}

// produce 发送失败只记录日志, 不影响已落库的状态流转
func (s *service) produce(ctx context.Context, shp domain.Shipping) {
	evt := event.ShippingEvent{
		OrderSN:    shp.OrderSN,
		ShippingSN: shp.SN,
		Status:     shp.Status.ToUint8(),
	}
	if err := s.producer.Produce(ctx, evt); err != nil {
		s.logger.Error("发送物流事件失败",
			elog.FieldErr(err),
			elog.String("orderSN", evt.OrderSN),
			elog.Any("status", evt.Status))
	}
}

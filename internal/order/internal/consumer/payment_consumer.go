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

package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecodeclub/emall/internal/order/internal/domain"
	"github.com/ecodeclub/emall/internal/order/internal/service"
	"github.com/ecodeclub/emall/internal/payment"
	"github.com/ecodeclub/mq-api"
	"github.com/gotomicro/ego/core/elog"
	"github.com/pkg/errors"
)

// PaymentEventConsumer 消费支付事件驱动订单状态机
type PaymentEventConsumer struct {
	svc      service.Service
	consumer mq.Consumer
	logger   *elog.Component
}

func NewPaymentEventConsumer(svc service.Service, q mq.MQ) (*PaymentEventConsumer, error) {
	const groupID = "order"
	consumer, err := q.Consumer(payment.PaymentEventName, groupID)
	if err != nil {
		return nil, err
	}
	return &PaymentEventConsumer{
		svc:      svc,
		consumer: consumer,
		logger:   elog.DefaultLogger,
	}, nil
}

func (c *PaymentEventConsumer) Start(ctx context.Context) {
	go func() {
		for {
			er := c.Consume(ctx)
			if er != nil {
				c.logger.Error("消费支付事件失败", elog.FieldErr(er))
			}
		}
	}()
}

func (c *PaymentEventConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}

	var evt payment.PaymentEvent
	if err = json.Unmarshal(msg.Value, &evt); err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}

	switch payment.Status(evt.Status) {
	case payment.StatusProcessing:
		_, err = c.svc.Advance(ctx, evt.OrderSN, domain.StatusProcessing, service.Meta{})
	case payment.StatusCompleted:
		err = c.markPaid(ctx, evt.OrderSN)
	case payment.StatusFailed:
		_, err = c.svc.Advance(ctx, evt.OrderSN, domain.StatusFailed, service.Meta{Reason: "支付失败"})
	case payment.StatusCancelled:
		_, err = c.svc.Cancel(ctx, evt.OrderSN, "支付已取消")
	default:
		// 退款状态由订单退款流程主动发起, 这里不重复处理
		return nil
	}
	// 消息重复投递时订单已经流转过, 不算失败
	if errors.Is(err, domain.ErrIllegalTransition) {
		c.logger.Warn("订单已流转, 忽略重复支付事件",
			elog.String("orderSN", evt.OrderSN),
			elog.Any("status", evt.Status))
		return nil
	}
	return err
}

// markPaid 支付完成时订单可能还停在待处理, 先补一步处理中
func (c *PaymentEventConsumer) markPaid(ctx context.Context, orderSN string) error {
	order, err := c.svc.FindBySN(ctx, orderSN)
	if err != nil {
		return fmt.Errorf("订单未找到: %w", err)
	}
	if order.Status == domain.StatusPending {
		if _, err = c.svc.Advance(ctx, orderSN, domain.StatusProcessing, service.Meta{}); err != nil {
			return err
		}
	}
	_, err = c.svc.Advance(ctx, orderSN, domain.StatusPaid, service.Meta{})
	return err
}

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
	"github.com/ecodeclub/emall/internal/shipping"
	"github.com/ecodeclub/mq-api"
	"github.com/gotomicro/ego/core/elog"
	"github.com/pkg/errors"
)

// ShippingEventConsumer 消费物流事件驱动订单状态机
type ShippingEventConsumer struct {
	svc      service.Service
	consumer mq.Consumer
	logger   *elog.Component
}

func NewShippingEventConsumer(svc service.Service, q mq.MQ) (*ShippingEventConsumer, error) {
	const groupID = "order"
	consumer, err := q.Consumer(shipping.ShippingEventName, groupID)
	if err != nil {
		return nil, err
	}
	return &ShippingEventConsumer{
		svc:      svc,
		consumer: consumer,
		logger:   elog.DefaultLogger,
	}, nil
}

func (c *ShippingEventConsumer) Start(ctx context.Context) {
	go func() {
		for {
			er := c.Consume(ctx)
			if er != nil {
				c.logger.Error("消费物流事件失败", elog.FieldErr(er))
			}
		}
	}()
}

func (c *ShippingEventConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}

	var evt shipping.ShippingEvent
	if err = json.Unmarshal(msg.Value, &evt); err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}

	switch shipping.Status(evt.Status) {
	case shipping.StatusShipped:
		_, err = c.svc.Advance(ctx, evt.OrderSN, domain.StatusShipped, service.Meta{})
	case shipping.StatusDelivered:
		_, err = c.svc.Advance(ctx, evt.OrderSN, domain.StatusDelivered, service.Meta{})
	case shipping.StatusFailed:
		c.logger.Warn("包裹投递失败",
			elog.String("orderSN", evt.OrderSN),
			elog.String("shippingSN", evt.ShippingSN))
		return nil
	default:
		// 中间运输节点不影响订单状态
		return nil
	}
	// 消息重复投递时订单已经流转过, 不算失败
	if errors.Is(err, domain.ErrIllegalTransition) {
		c.logger.Warn("订单已流转, 忽略重复物流事件",
			elog.String("orderSN", evt.OrderSN),
			elog.Any("status", evt.Status))
		return nil
	}
	return err
}

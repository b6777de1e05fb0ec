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

package job

import (
	"context"
	"fmt"
	"time"

	"github.com/ecodeclub/emall/internal/order/internal/service"
)

// CloseExpiredOrdersJob 定时关闭超时未支付的订单, 释放其预占的库存
type CloseExpiredOrdersJob struct {
	svc service.Service
	// paymentTimeout 下单后多久未进入支付流程算超时
	paymentTimeout time.Duration
	limit          int
	timeout        time.Duration
}

func NewCloseExpiredOrdersJob(svc service.Service, paymentTimeout time.Duration, limit int, timeout time.Duration) *CloseExpiredOrdersJob {
	return &CloseExpiredOrdersJob{svc: svc, paymentTimeout: paymentTimeout, limit: limit, timeout: timeout}
}

func (c *CloseExpiredOrdersJob) Name() string {
	return "CloseExpiredOrdersJob"
}

func (c *CloseExpiredOrdersJob) Run() error {
	ctx, cancelFunc := context.WithTimeout(context.Background(), c.timeout)
	defer cancelFunc()
	deadline := time.Now().Add(-c.paymentTimeout).UnixMilli()

	for {
		orders, total, err := c.svc.FindExpiredOrders(ctx, 0, c.limit, deadline)
		if err != nil {
			return fmt.Errorf("获取超时订单失败: %w", err)
		}

		err = c.svc.CloseExpiredOrders(ctx, orders)
		if err != nil {
			return fmt.Errorf("关闭超时订单失败: %w", err)
		}

		if len(orders) < c.limit {
			break
		}

		if int64(c.limit) >= total {
			break
		}
	}
	return nil
}

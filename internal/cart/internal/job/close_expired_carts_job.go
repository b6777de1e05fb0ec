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

	"github.com/ecodeclub/emall/internal/cart/internal/service"
)

// CloseExpiredCartsJob 定时回收过期购物车, 兜底被动过期检查
type CloseExpiredCartsJob struct {
	svc     service.Service
	limit   int
	timeout time.Duration
}

func NewCloseExpiredCartsJob(svc service.Service, limit int, timeout time.Duration) *CloseExpiredCartsJob {
	return &CloseExpiredCartsJob{svc: svc, limit: limit, timeout: timeout}
}

func (c *CloseExpiredCartsJob) Name() string {
	return "CloseExpiredCartsJob"
}

func (c *CloseExpiredCartsJob) Run() error {
	ctx, cancelFunc := context.WithTimeout(context.Background(), c.timeout)
	defer cancelFunc()
	now := time.Now().UnixMilli()

	for {
		carts, total, err := c.svc.FindExpiredCarts(ctx, 0, c.limit, now)
		if err != nil {
			return fmt.Errorf("获取过期购物车失败: %w", err)
		}

		err = c.svc.CloseExpiredCarts(ctx, carts)
		if err != nil {
			return fmt.Errorf("关闭过期购物车失败: %w", err)
		}

		if len(carts) < c.limit {
			break
		}

		if int64(c.limit) >= total {
			break
		}
	}
	return nil
}

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

package order

import (
	"github.com/ecodeclub/emall/internal/order/internal/consumer"
	"github.com/ecodeclub/emall/internal/order/internal/domain"
	"github.com/ecodeclub/emall/internal/order/internal/event"
	"github.com/ecodeclub/emall/internal/order/internal/job"
	"github.com/ecodeclub/emall/internal/order/internal/service"
)

type (
	Order         = domain.Order
	Item          = domain.Item
	Address       = domain.Address
	Status        = domain.Status
	Meta          = service.Meta
	PlaceOrderReq = service.PlaceOrderReq
	Config        = service.Config
	Service       = service.Service

	OrderEvent = event.OrderEvent

	PaymentEventConsumer  = consumer.PaymentEventConsumer
	ShippingEventConsumer = consumer.ShippingEventConsumer
	CloseExpiredOrdersJob = job.CloseExpiredOrdersJob
)

const (
	StatusPending    = domain.StatusPending
	StatusProcessing = domain.StatusProcessing
	StatusPaid       = domain.StatusPaid
	StatusShipped    = domain.StatusShipped
	StatusDelivered  = domain.StatusDelivered
	StatusCancelled  = domain.StatusCancelled
	StatusRefunded   = domain.StatusRefunded
	StatusFailed     = domain.StatusFailed

	OrderEventName = event.OrderEventName
)

var (
	ErrOrderNotFound     = service.ErrOrderNotFound
	ErrIllegalTransition = service.ErrIllegalTransition
	ErrEmptyCart         = service.ErrEmptyCart
	ErrProductOffShelf   = service.ErrProductOffShelf
)

type Module struct {
	Svc Service
	// 消费支付和物流事件, 由应用入口启动
	PaymentConsumer  *PaymentEventConsumer
	ShippingConsumer *ShippingEventConsumer
	CloseOrdersJob   *CloseExpiredOrdersJob
}

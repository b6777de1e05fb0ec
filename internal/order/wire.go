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

//go:build wireinject

package order

import (
	"sync"
	"time"

	"github.com/ecodeclub/emall/internal/cart"
	"github.com/ecodeclub/emall/internal/discount"
	"github.com/ecodeclub/emall/internal/inventory"
	"github.com/ecodeclub/emall/internal/order/internal/consumer"
	"github.com/ecodeclub/emall/internal/order/internal/event"
	"github.com/ecodeclub/emall/internal/order/internal/job"
	"github.com/ecodeclub/emall/internal/order/internal/repository"
	"github.com/ecodeclub/emall/internal/order/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/order/internal/service"
	"github.com/ecodeclub/emall/internal/payment"
	"github.com/ecodeclub/emall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/emall/internal/product"
	"github.com/ecodeclub/emall/internal/shipping"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
	"github.com/gotomicro/ego/core/econf"
)

func InitModule(db *egorm.Component, q mq.MQ,
	cartModule *cart.Module,
	productModule *product.Module,
	inventoryModule *inventory.Module,
	discountModule *discount.Module,
	paymentModule *payment.Module,
	shippingModule *shipping.Module) (*Module, error) {
	wire.Build(
		wire.Struct(new(Module), "*"),
		InitService,
		initPaymentConsumer,
		initShippingConsumer,
		initCloseExpiredOrdersJob,
	)
	return new(Module), nil
}

var (
	once = &sync.Once{}
	svc  service.Service
)

func InitService(db *egorm.Component, q mq.MQ,
	cartModule *cart.Module,
	productModule *product.Module,
	inventoryModule *inventory.Module,
	discountModule *discount.Module,
	paymentModule *payment.Module,
	shippingModule *shipping.Module) Service {
	once.Do(func() {
		_ = dao.InitTables(db)
		d := dao.NewGORMOrderDAO(db)
		r := repository.NewOrderRepository(d)
		p, err := q.Producer(OrderEventName)
		if err != nil {
			panic(err)
		}
		producer, err := event.NewOrderEventProducer(p)
		if err != nil {
			panic(err)
		}
		svc = service.NewService(r,
			cartModule.Svc,
			productModule.Svc,
			inventoryModule.Svc,
			discountModule.Svc,
			paymentModule.Svc,
			shippingModule.Svc,
			producer,
			sequencenumber.NewGenerator("ORD"),
			orderConfig())
	})
	return svc
}

func initPaymentConsumer(svc Service, q mq.MQ) *consumer.PaymentEventConsumer {
	c, err := consumer.NewPaymentEventConsumer(svc, q)
	if err != nil {
		panic(err)
	}
	return c
}

func initShippingConsumer(svc Service, q mq.MQ) *consumer.ShippingEventConsumer {
	c, err := consumer.NewShippingEventConsumer(svc, q)
	if err != nil {
		panic(err)
	}
	return c
}

func initCloseExpiredOrdersJob(svc Service) *CloseExpiredOrdersJob {
	type Config struct {
		PaymentTimeoutMinutes int64 `yaml:"paymentTimeoutMinutes"`
		Limit                 int   `yaml:"limit"`
		TimeoutSeconds        int64 `yaml:"timeoutSeconds"`
	}
	cfg := Config{PaymentTimeoutMinutes: 30, Limit: 100, TimeoutSeconds: 10}
	if err := econf.UnmarshalKey("job.closeOrders", &cfg); err != nil {
		panic(err)
	}
	return job.NewCloseExpiredOrdersJob(svc,
		time.Duration(cfg.PaymentTimeoutMinutes)*time.Minute,
		cfg.Limit,
		time.Duration(cfg.TimeoutSeconds)*time.Second)
}

func orderConfig() service.Config {
	cfg := service.Config{}
	if err := econf.UnmarshalKey("order", &cfg); err != nil {
		panic(err)
	}
	return cfg
}

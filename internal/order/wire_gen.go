// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package order

import (
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
	"github.com/gotomicro/ego/core/econf"
	"gorm.io/gorm"
	"sync"
	"time"
)

// Injectors from wire.go:

func InitModule(db *gorm.DB, q mq.MQ, cartModule *cart.Module, productModule *product.Module, inventoryModule *inventory.Module, discountModule *discount.Module, paymentModule *payment.Module, shippingModule *shipping.Module) (*Module, error) {
	service := InitService(db, q, cartModule, productModule, inventoryModule, discountModule, paymentModule, shippingModule)
	paymentEventConsumer := initPaymentConsumer(service, q)
	shippingEventConsumer := initShippingConsumer(service, q)
	closeExpiredOrdersJob := initCloseExpiredOrdersJob(service)
	module := &Module{
		Svc:              service,
		PaymentConsumer:  paymentEventConsumer,
		ShippingConsumer: shippingEventConsumer,
		CloseOrdersJob:   closeExpiredOrdersJob,
	}
	return module, nil
}

// wire.go:

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
			producer, sequencenumber.NewGenerator("ORD"), orderConfig())
	})
	return svc
}

func initPaymentConsumer(svc2 Service, q mq.MQ) *consumer.PaymentEventConsumer {
	c, err := consumer.NewPaymentEventConsumer(svc2, q)
	if err != nil {
		panic(err)
	}
	return c
}

func initShippingConsumer(svc2 Service, q mq.MQ) *consumer.ShippingEventConsumer {
	c, err := consumer.NewShippingEventConsumer(svc2, q)
	if err != nil {
		panic(err)
	}
	return c
}

func initCloseExpiredOrdersJob(svc2 Service) *CloseExpiredOrdersJob {
	type Config2 struct {
		PaymentTimeoutMinutes int64 `yaml:"paymentTimeoutMinutes"`
		Limit                 int   `yaml:"limit"`
		TimeoutSeconds        int64 `yaml:"timeoutSeconds"`
	}
	cfg := Config2{PaymentTimeoutMinutes: 30, Limit: 100, TimeoutSeconds: 10}
	if err := econf.UnmarshalKey("job.closeOrders", &cfg); err != nil {
		panic(err)
	}
	return job.NewCloseExpiredOrdersJob(svc2, time.Duration(cfg.PaymentTimeoutMinutes)*time.Minute, cfg.Limit, time.Duration(cfg.TimeoutSeconds)*time.Second)
}

func orderConfig() service.Config {
	cfg := service.Config{}
	if err := econf.UnmarshalKey("order", &cfg); err != nil {
		panic(err)
	}
	return cfg
}

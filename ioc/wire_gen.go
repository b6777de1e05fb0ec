// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package ioc

import (
	"github.com/ecodeclub/emall/internal/cart"
	"github.com/ecodeclub/emall/internal/discount"
	"github.com/ecodeclub/emall/internal/inventory"
	"github.com/ecodeclub/emall/internal/order"
	"github.com/ecodeclub/emall/internal/payment"
	"github.com/ecodeclub/emall/internal/product"
	"github.com/ecodeclub/emall/internal/shipping"
	"github.com/google/wire"
)

// Injectors from wire.go:

func InitApp() (*App, error) {
	db := InitDB()
	mq := InitMQ()
	cmdable := InitRedis()
	cache := InitCache(cmdable)
	module, err := cart.InitModule(db, cache)
	if err != nil {
		return nil, err
	}
	productModule, err := product.InitModule(db)
	if err != nil {
		return nil, err
	}
	inventoryModule, err := inventory.InitModule(db)
	if err != nil {
		return nil, err
	}
	discountModule, err := discount.InitModule(db)
	if err != nil {
		return nil, err
	}
	paymentModule, err := payment.InitModule(db, mq)
	if err != nil {
		return nil, err
	}
	shippingModule, err := shipping.InitModule(db, mq)
	if err != nil {
		return nil, err
	}
	orderModule, err := order.InitModule(db, mq, module, productModule, inventoryModule, discountModule, paymentModule, shippingModule)
	if err != nil {
		return nil, err
	}
	v := initMQConsumers(orderModule)
	closeExpiredOrdersJob := orderModule.CloseOrdersJob
	closeExpiredCartsJob := module.CloseCartsJob
	v2 := initCronJobs(closeExpiredOrdersJob, closeExpiredCartsJob)
	app := &App{
		Consumers: v,
		Crons:     v2,
	}
	return app, nil
}

// wire.go:

var BaseSet = wire.NewSet(InitDB, InitCache, InitRedis, InitMQ)

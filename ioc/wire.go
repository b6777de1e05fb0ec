//go:build wireinject

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

var BaseSet = wire.NewSet(InitDB, InitCache, InitRedis, InitMQ)

func InitApp() (*App, error) {
	wire.Build(wire.Struct(new(App), "*"),
		BaseSet,
		product.InitModule,
		inventory.InitModule,
		cart.InitModule,
		discount.InitModule,
		payment.InitModule,
		shipping.InitModule,
		order.InitModule,
		wire.FieldsOf(new(*cart.Module), "CloseCartsJob"),
		wire.FieldsOf(new(*order.Module), "CloseOrdersJob"),
		initMQConsumers,
		initCronJobs)
	return new(App), nil
}

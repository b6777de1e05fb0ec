// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package payment

import (
	"github.com/ecodeclub/emall/internal/payment/internal/event"
	"github.com/ecodeclub/emall/internal/payment/internal/repository"
	"github.com/ecodeclub/emall/internal/payment/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/payment/internal/service"
	"github.com/ecodeclub/emall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
	"sync"
)

// Injectors from wire.go:

func InitModule(db *gorm.DB, q mq.MQ) (*Module, error) {
	service := InitService(db, q)
	module := &Module{
		Svc: service,
	}
	return module, nil
}

// wire.go:

var (
	once = &sync.Once{}
	svc  service.Service
)

func InitService(db *egorm.Component, q mq.MQ) Service {
	once.Do(func() {
		_ = dao.InitTables(db)
		d := dao.NewGORMPaymentDAO(db)
		r := repository.NewPaymentRepository(d)
		p, err := q.Producer(PaymentEventName)
		if err != nil {
			panic(err)
		}
		producer, err := event.NewPaymentEventProducer(p)
		if err != nil {
			panic(err)
		}
		svc = service.NewService(r, producer, sequencenumber.NewGenerator("PAY"))
	})
	return svc
}

// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package shipping

import (
	"github.com/ecodeclub/emall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/emall/internal/shipping/internal/event"
	"github.com/ecodeclub/emall/internal/shipping/internal/repository"
	"github.com/ecodeclub/emall/internal/shipping/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/shipping/internal/service"
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
		d := dao.NewGORMShippingDAO(db)
		r := repository.NewShippingRepository(d)
		p, err := q.Producer(ShippingEventName)
		if err != nil {
			panic(err)
		}
		producer, err := event.NewShippingEventProducer(p)
		if err != nil {
			panic(err)
		}
		svc = service.NewService(r, producer, sequencenumber.NewGenerator("SHP"))
	})
	return svc
}

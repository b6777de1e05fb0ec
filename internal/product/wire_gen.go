// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package product

import (
	"github.com/ecodeclub/emall/internal/product/internal/repository"
	"github.com/ecodeclub/emall/internal/product/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/product/internal/service"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
	"sync"
)

// Injectors from wire.go:

func InitModule(db *gorm.DB) (*Module, error) {
	service := InitService(db)
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

func InitService(db *egorm.Component) Service {
	once.Do(func() {
		_ = dao.InitTables(db)
		d := dao.NewGORMProductDAO(db)
		r := repository.NewProductRepository(d)
		svc = service.NewService(r)
	})
	return svc
}

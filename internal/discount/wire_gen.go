// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package discount

import (
	"github.com/ecodeclub/emall/internal/discount/internal/repository"
	"github.com/ecodeclub/emall/internal/discount/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/discount/internal/service"
	"github.com/ecodeclub/emall/internal/pkg/snowflake"
	"github.com/ego-component/egorm"
	"github.com/gotomicro/ego/core/econf"
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
		d := dao.NewGORMDiscountDAO(db)
		r := repository.NewDiscountRepository(d)
		svc = service.NewService(r, initCodeGenerator())
	})
	return svc
}

func initCodeGenerator() service.CodeGenerator {
	type Config struct {
		NodeID int64 `yaml:"nodeID"`
	}
	var cfg Config
	if err := econf.UnmarshalKey("snowflake", &cfg); err != nil {
		panic(err)
	}
	gen, err := snowflake.NewCodeGenerator(cfg.NodeID)
	if err != nil {
		panic(err)
	}
	return gen
}

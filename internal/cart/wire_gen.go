// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package cart

import (
	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/emall/internal/cart/internal/job"
	"github.com/ecodeclub/emall/internal/cart/internal/repository"
	"github.com/ecodeclub/emall/internal/cart/internal/repository/cache"
	"github.com/ecodeclub/emall/internal/cart/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/cart/internal/service"
	"github.com/ego-component/egorm"
	"github.com/gotomicro/ego/core/econf"
	"gorm.io/gorm"
	"sync"
	"time"
)

// Injectors from wire.go:

func InitModule(db *gorm.DB, ec ecache.Cache) (*Module, error) {
	service := InitService(db, ec)
	closeExpiredCartsJob := initCloseExpiredCartsJob(service)
	module := &Module{
		Svc:           service,
		CloseCartsJob: closeExpiredCartsJob,
	}
	return module, nil
}

// wire.go:

var (
	once = &sync.Once{}
	svc  service.Service
)

func InitService(db *egorm.Component, ec ecache.Cache) Service {
	once.Do(func() {
		_ = dao.InitTables(db)
		d := dao.NewGORMCartDAO(db)
		c := cache.NewCartECache(ec)
		r := repository.NewCachedCartRepository(d, c)
		svc = service.NewService(r, cartTTL())
	})
	return svc
}

func initCloseExpiredCartsJob(svc2 Service) *CloseExpiredCartsJob {
	type Config struct {
		Limit          int   `yaml:"limit"`
		TimeoutSeconds int64 `yaml:"timeoutSeconds"`
	}
	cfg := Config{Limit: 100, TimeoutSeconds: 10}
	if err := econf.UnmarshalKey("job.closeCarts", &cfg); err != nil {
		panic(err)
	}
	return job.NewCloseExpiredCartsJob(svc2, cfg.Limit, time.Duration(cfg.TimeoutSeconds)*time.Second)
}

func cartTTL() time.Duration {
	type Config struct {
		TTLDays int `yaml:"ttlDays"`
	}
	cfg := Config{TTLDays: 30}
	if err := econf.UnmarshalKey("cart", &cfg); err != nil {
		panic(err)
	}
	return time.Duration(cfg.TTLDays) * 24 * time.Hour
}

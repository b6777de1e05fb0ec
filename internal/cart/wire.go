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

package cart

import (
	"sync"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/emall/internal/cart/internal/job"
	"github.com/ecodeclub/emall/internal/cart/internal/repository"
	"github.com/ecodeclub/emall/internal/cart/internal/repository/cache"
	"github.com/ecodeclub/emall/internal/cart/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/cart/internal/service"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
	"github.com/gotomicro/ego/core/econf"
)

func InitModule(db *egorm.Component, ec ecache.Cache) (*Module, error) {
	wire.Build(wire.Struct(new(Module), "*"), InitService, initCloseExpiredCartsJob)
	return new(Module), nil
}

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

func initCloseExpiredCartsJob(svc Service) *CloseExpiredCartsJob {
	type Config struct {
		Limit          int   `yaml:"limit"`
		TimeoutSeconds int64 `yaml:"timeoutSeconds"`
	}
	cfg := Config{Limit: 100, TimeoutSeconds: 10}
	if err := econf.UnmarshalKey("job.closeCarts", &cfg); err != nil {
		panic(err)
	}
	return job.NewCloseExpiredCartsJob(svc, cfg.Limit, time.Duration(cfg.TimeoutSeconds)*time.Second)
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

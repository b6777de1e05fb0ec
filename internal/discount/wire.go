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

package discount

import (
	"sync"

	"github.com/ecodeclub/emall/internal/discount/internal/repository"
	"github.com/ecodeclub/emall/internal/discount/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/discount/internal/service"
	"github.com/ecodeclub/emall/internal/pkg/snowflake"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
	"github.com/gotomicro/ego/core/econf"
)

func InitModule(db *egorm.Component) (*Module, error) {
	wire.Build(wire.Struct(new(Module), "*"), InitService)
	return new(Module), nil
}

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

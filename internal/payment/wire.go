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

package payment

import (
	"sync"

	"github.com/ecodeclub/emall/internal/payment/internal/event"
	"github.com/ecodeclub/emall/internal/payment/internal/repository"
	"github.com/ecodeclub/emall/internal/payment/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/payment/internal/service"
	"github.com/ecodeclub/emall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
)

func InitModule(db *egorm.Component, q mq.MQ) (*Module, error) {
	wire.Build(wire.Struct(new(Module), "*"), InitService)
	return new(Module), nil
}

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

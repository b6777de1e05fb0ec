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

//go:build e2e

package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ecodeclub/emall/internal/order/internal/domain"
	"github.com/ecodeclub/emall/internal/order/internal/repository/dao"
	testioc "github.com/ecodeclub/emall/internal/test/ioc"
	"github.com/ego-component/egorm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type OrderTestSuite struct {
	suite.Suite
	db  *egorm.Component
	dao dao.OrderDAO
}

func TestOrderModule(t *testing.T) {
	suite.Run(t, new(OrderTestSuite))
}

func (s *OrderTestSuite) SetupSuite() {
	s.db = testioc.InitDB()
	require.NoError(s.T(), dao.InitTables(s.db))
	s.dao = dao.NewGORMOrderDAO(s.db)
}

func (s *OrderTestSuite) TearDownTest() {
	s.NoError(s.db.Exec("TRUNCATE TABLE `orders`").Error)
	s.NoError(s.db.Exec("TRUNCATE TABLE `order_items`").Error)
}

// 同一订单被并发流转, 条件更新保证只有一个胜出者
func (s *OrderTestSuite) TestTransition_ConcurrentOneWinner() {
	t := s.T()
	ctx := context.Background()
	_, err := s.dao.CreateOrder(ctx, dao.Order{
		SN:     "E2E-ORD-1",
		Uid:    7,
		Status: domain.StatusPending.ToUint8(),
	}, nil)
	require.NoError(t, err)

	const concurrency = 10
	var (
		wg      sync.WaitGroup
		winners atomic.Int64
		losers  atomic.Int64
	)
	now := time.Now().UnixMilli()
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, er := s.dao.FindBySN(context.Background(), "E2E-ORD-1")
			if !assert.NoError(t, er) {
				return
			}
			o.Status = domain.StatusCancelled.ToUint8()
			o.CancelledAt = now
			er = s.dao.Transition(context.Background(), o, domain.StatusPending.ToUint8())
			if er == nil {
				winners.Add(1)
				return
			}
			if errors.Is(er, dao.ErrOrderStateChanged) {
				losers.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), winners.Load())
	assert.Equal(t, int64(concurrency-1), losers.Load())

	o, err := s.dao.FindBySN(ctx, "E2E-ORD-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled.ToUint8(), o.Status)
	assert.Equal(t, now, o.CancelledAt)
}

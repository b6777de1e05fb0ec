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

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ecodeclub/ekit/retry"
	"github.com/ecodeclub/emall/internal/inventory/internal/domain"
	"github.com/ecodeclub/emall/internal/inventory/internal/repository"
	"github.com/pkg/errors"
)

var (
	ErrInsufficientStock               = repository.ErrInsufficientStock
	ErrRecordNotFound                  = repository.ErrRecordNotFound
	ErrExceedTheMaximumNumberOfRetries = errors.New("超过最大重试次数")
)

const (
	defaultInitialInterval = 10 * time.Millisecond
	defaultMaxInterval     = 500 * time.Millisecond
	defaultMaxRetries      = 5
)

//go:generate mockgen -source=./service.go -destination=../../mocks/inventory.mock.go -package=invmocks Service
type Service interface {
	CreateRecord(ctx context.Context, record domain.Record) (int64, error)
	GetStock(ctx context.Context, unit domain.Unit) (domain.Record, error)
	FindLowStock(ctx context.Context, offset, limit int) ([]domain.Record, error)
	// Reserve 为一组囤货单元预占库存, 要么全部成功要么全部失败
	Reserve(ctx context.Context, items []domain.UnitQuantity) error
	Release(ctx context.Context, items []domain.UnitQuantity) error
	Commit(ctx context.Context, items []domain.UnitQuantity) error
	Restock(ctx context.Context, unit domain.Unit, qty int64) error
	SetQuantity(ctx context.Context, unit domain.Unit, qty int64) error
}

type service struct {
	repo            repository.InventoryRepository
	initialInterval time.Duration
	maxInterval     time.Duration
	maxRetries      int32
}

func NewService(repo repository.InventoryRepository) Service {
	return &service{
		repo:            repo,
		initialInterval: defaultInitialInterval,
		maxInterval:     defaultMaxInterval,
		maxRetries:      defaultMaxRetries,
	}
}

func (s *service) CreateRecord(ctx context.Context, record domain.Record) (int64, error) {
	return s.repo.Create(ctx, record)
}

func (s *service) GetStock(ctx context.Context, unit domain.Unit) (domain.Record, error) {
	return s.repo.GetByUnit(ctx, unit)
}

func (s *service) FindLowStock(ctx context.Context, offset, limit int) ([]domain.Record, error) {
	return s.repo.FindLowStock(ctx, offset, limit)
}

func (s *service) Reserve(ctx context.Context, items []domain.UnitQuantity) error {
	return s.withRetry(ctx, func() error {
		return s.repo.Reserve(ctx, items)
	})
}

func (s *service) Release(ctx context.Context, items []domain.UnitQuantity) error {
	return s.withRetry(ctx, func() error {
		return s.repo.Release(ctx, items)
	})
}

func (s *service) Commit(ctx context.Context, items []domain.UnitQuantity) error {
	return s.withRetry(ctx, func() error {
		return s.repo.Commit(ctx, items)
	})
}

func (s *service) Restock(ctx context.Context, unit domain.Unit, qty int64) error {
	return s.withRetry(ctx, func() error {
		return s.repo.Restock(ctx, unit, qty)
	})
}

func (s *service) SetQuantity(ctx context.Context, unit domain.Unit, qty int64) error {
	return s.withRetry(ctx, func() error {
		return s.repo.SetQuantity(ctx, unit, qty)
	})
}

// withRetry 乐观并发冲突时按指数退避重试, 其余错误直接返回
func (s *service) withRetry(ctx context.Context, op func() error) error {
	strategy, _ := retry.NewExponentialBackoffRetryStrategy(s.initialInterval, s.maxInterval, s.maxRetries)
	for {
		err := op()
		if !errors.Is(err, repository.ErrRecordChangedConcurrently) {
			return err
		}
		next, ok := strategy.Next()
		if !ok {
			return fmt.Errorf("库存操作重试失败: %w", ErrExceedTheMaximumNumberOfRetries)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(next):
		}
	}
}

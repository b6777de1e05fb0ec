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

	"github.com/ecodeclub/emall/internal/product/internal/domain"
	"github.com/ecodeclub/emall/internal/product/internal/repository"
)

//go:generate mockgen -source=./service.go -package=productmocks -destination=../../mocks/product.mock.go Service
type Service interface {
	FindBySN(ctx context.Context, sn string) (domain.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	Save(ctx context.Context, p domain.Product) (int64, error)
}

func NewService(repo repository.ProductRepository) Service {
	return &service{repo: repo}
}

type service struct {
	repo repository.ProductRepository
}

func (s *service) FindBySN(ctx context.Context, sn string) (domain.Product, error) {
	return s.repo.FindBySN(ctx, sn)
}

func (s *service) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	return s.repo.FindByIDs(ctx, ids)
}

func (s *service) Save(ctx context.Context, p domain.Product) (int64, error) {
	return s.repo.Save(ctx, p)
}

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

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/emall/internal/product/internal/domain"
	"github.com/ecodeclub/emall/internal/product/internal/repository/dao"
)

var ErrProductNotFound = dao.ErrRecordNotFound

type ProductRepository interface {
	FindBySN(ctx context.Context, sn string) (domain.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	Save(ctx context.Context, p domain.Product) (int64, error)
}

type productRepository struct {
	dao dao.ProductDAO
}

func NewProductRepository(d dao.ProductDAO) ProductRepository {
	return &productRepository{dao: d}
}

func (r *productRepository) FindBySN(ctx context.Context, sn string) (domain.Product, error) {
	p, err := r.dao.FindBySN(ctx, sn)
	if err != nil {
		return domain.Product{}, err
	}
	return r.toDomain(p), nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	ps, err := r.dao.FindByIDs(ctx, ids)
	return slice.Map(ps, func(idx int, src dao.Product) domain.Product {
		return r.toDomain(src)
	}), err
}

func (r *productRepository) Save(ctx context.Context, p domain.Product) (int64, error) {
	return r.dao.Save(ctx, r.toEntity(p))
}

func (r *productRepository) toDomain(p dao.Product) domain.Product {
	return domain.Product{
		ID:          p.Id,
		SN:          p.SN,
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		Price:       p.Price,
		CategoryID:  p.CategoryId,
		BrandID:     p.BrandId,
		Status:      domain.Status(p.Status),
		Ctime:       p.Ctime,
		Utime:       p.Utime,
	}
}

func (r *productRepository) toEntity(p domain.Product) dao.Product {
	return dao.Product{
		Id:          p.ID,
		SN:          p.SN,
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		Price:       p.Price,
		CategoryId:  p.CategoryID,
		BrandId:     p.BrandID,
		Status:      p.Status.ToUint8(),
	}
}

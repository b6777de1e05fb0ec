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
	"github.com/ecodeclub/emall/internal/cart/internal/domain"
	"github.com/ecodeclub/emall/internal/cart/internal/repository/cache"
	"github.com/ecodeclub/emall/internal/cart/internal/repository/dao"
)

var ErrCartNotFound = dao.ErrCartNotFound

type CartRepository interface {
	FindByUID(ctx context.Context, uid int64) (domain.Cart, error)
	// Save 全量保存聚合并失效缓存
	Save(ctx context.Context, cart domain.Cart) (int64, error)
	Delete(ctx context.Context, cart domain.Cart) error
	DeleteBatch(ctx context.Context, carts []domain.Cart) error
	FindExpired(ctx context.Context, offset, limit int, now int64) ([]domain.Cart, int64, error)
}

// CachedCartRepository 使用了缓存的 repository 实现
type CachedCartRepository struct {
	dao   dao.CartDAO
	cache cache.CartCache
}

func NewCachedCartRepository(d dao.CartDAO, c cache.CartCache) CartRepository {
	return &CachedCartRepository{dao: d, cache: c}
}

func (r *CachedCartRepository) FindByUID(ctx context.Context, uid int64) (domain.Cart, error) {
	cart, err := r.cache.Get(ctx, uid)
	if err == nil {
		return cart, nil
	}
	c, items, err := r.dao.FindByUID(ctx, uid)
	if err != nil {
		return domain.Cart{}, err
	}
	cart = r.toDomain(c, items)
	// 忽略掉这里的错误
	_ = r.cache.Set(ctx, cart)
	return cart, nil
}

func (r *CachedCartRepository) Save(ctx context.Context, cart domain.Cart) (int64, error) {
	id, err := r.dao.Save(ctx, r.toEntity(cart), r.toItemEntities(cart))
	if err != nil {
		return 0, err
	}
	return id, r.cache.Delete(ctx, cart.UID)
}

func (r *CachedCartRepository) Delete(ctx context.Context, cart domain.Cart) error {
	if err := r.dao.Delete(ctx, cart.ID); err != nil {
		return err
	}
	return r.cache.Delete(ctx, cart.UID)
}

func (r *CachedCartRepository) DeleteBatch(ctx context.Context, carts []domain.Cart) error {
	ids := slice.Map(carts, func(idx int, src domain.Cart) int64 {
		return src.ID
	})
	if err := r.dao.DeleteBatch(ctx, ids); err != nil {
		return err
	}
	for _, c := range carts {
		_ = r.cache.Delete(ctx, c.UID)
	}
	return nil
}

func (r *CachedCartRepository) FindExpired(ctx context.Context, offset, limit int, now int64) ([]domain.Cart, int64, error) {
	carts, total, err := r.dao.FindExpired(ctx, offset, limit, now)
	return slice.Map(carts, func(idx int, src dao.Cart) domain.Cart {
		return r.toDomain(src, nil)
	}), total, err
}

func (r *CachedCartRepository) toDomain(c dao.Cart, items []dao.CartItem) domain.Cart {
	cart := domain.Cart{
		ID:             c.Id,
		UID:            c.Uid,
		CouponCode:     c.CouponCode,
		DiscountAmount: c.DiscountAmount,
		ExpiresAt:      c.ExpiresAt,
		Ctime:          c.Ctime,
		Utime:          c.Utime,
		Items: slice.Map(items, func(idx int, src dao.CartItem) domain.Item {
			return domain.Item{
				Unit:           domain.Unit{ProductID: src.ProductId, VariantID: src.VariantId},
				SKU:            src.Sku,
				Name:           src.Name,
				Image:          src.Image,
				Price:          src.Price,
				Quantity:       src.Quantity,
				DiscountAmount: src.DiscountAmount,
			}
		}),
	}
	cart.Recalculate()
	return cart
}

func (r *CachedCartRepository) toEntity(cart domain.Cart) dao.Cart {
	return dao.Cart{
		Id:             cart.ID,
		Uid:            cart.UID,
		CouponCode:     cart.CouponCode,
		DiscountAmount: cart.DiscountAmount,
		ExpiresAt:      cart.ExpiresAt,
	}
}

func (r *CachedCartRepository) toItemEntities(cart domain.Cart) []dao.CartItem {
	return slice.Map(cart.Items, func(idx int, src domain.Item) dao.CartItem {
		return dao.CartItem{
			ProductId:      src.Unit.ProductID,
			VariantId:      src.Unit.VariantID,
			Sku:            src.SKU,
			Name:           src.Name,
			Image:          src.Image,
			Price:          src.Price,
			Quantity:       src.Quantity,
			DiscountAmount: src.DiscountAmount,
		}
	})
}

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
	"time"

	"github.com/ecodeclub/emall/internal/cart/internal/domain"
	"github.com/ecodeclub/emall/internal/cart/internal/repository"
	"github.com/pkg/errors"
)

var ErrCartNotFound = repository.ErrCartNotFound

//go:generate mockgen -source=./service.go -destination=../../mocks/cart.mock.go -package=cartmocks Service
type Service interface {
	// GetCart 返回用户当前购物车, 不存在时返回 ErrCartNotFound
	GetCart(ctx context.Context, uid int64) (domain.Cart, error)
	// AddItem 购物车不存在时隐式创建, 已过期时重建
	AddItem(ctx context.Context, uid int64, item domain.Item) (domain.Cart, error)
	RemoveItem(ctx context.Context, uid int64, unit domain.Unit) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, uid int64, unit domain.Unit, qty int64) (domain.Cart, error)
	ApplyCoupon(ctx context.Context, uid int64, code string, amount int64) (domain.Cart, error)
	RemoveCoupon(ctx context.Context, uid int64) (domain.Cart, error)
	// Merge 把源用户(匿名会话)的购物车合并进目标用户的购物车并销毁源购物车
	Merge(ctx context.Context, fromUID, toUID int64) (domain.Cart, error)
	Clear(ctx context.Context, uid int64) error
	// Destroy 结算成功后销毁购物车
	Destroy(ctx context.Context, uid int64) error
	FindExpiredCarts(ctx context.Context, offset, limit int, now int64) ([]domain.Cart, int64, error)
	CloseExpiredCarts(ctx context.Context, carts []domain.Cart) error
}

type service struct {
	repo repository.CartRepository
	// ttl 购物车生存期, 只在创建时生效, 后续操作不续期
	ttl     time.Duration
	nowFunc func() int64
}

func NewService(repo repository.CartRepository, ttl time.Duration) Service {
	return &service{
		repo: repo,
		ttl:  ttl,
		nowFunc: func() int64 {
			return time.Now().UnixMilli()
		},
	}
}

func (s *service) GetCart(ctx context.Context, uid int64) (domain.Cart, error) {
	return s.repo.FindByUID(ctx, uid)
}

func (s *service) AddItem(ctx context.Context, uid int64, item domain.Item) (domain.Cart, error) {
	cart, err := s.getOrCreate(ctx, uid)
	if err != nil {
		return domain.Cart{}, err
	}
	if err = cart.AddItem(item); err != nil {
		return domain.Cart{}, err
	}
	return s.save(ctx, cart)
}

func (s *service) RemoveItem(ctx context.Context, uid int64, unit domain.Unit) (domain.Cart, error) {
	cart, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		return domain.Cart{}, err
	}
	cart.RemoveItem(unit)
	return s.save(ctx, cart)
}

func (s *service) UpdateQuantity(ctx context.Context, uid int64, unit domain.Unit, qty int64) (domain.Cart, error) {
	cart, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		return domain.Cart{}, err
	}
	cart.UpdateQuantity(unit, qty)
	return s.save(ctx, cart)
}

func (s *service) ApplyCoupon(ctx context.Context, uid int64, code string, amount int64) (domain.Cart, error) {
	cart, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		return domain.Cart{}, err
	}
	if err = cart.ApplyCoupon(code, amount); err != nil {
		return domain.Cart{}, err
	}
	return s.save(ctx, cart)
}

func (s *service) RemoveCoupon(ctx context.Context, uid int64) (domain.Cart, error) {
	cart, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		return domain.Cart{}, err
	}
	cart.RemoveCoupon()
	return s.save(ctx, cart)
}

func (s *service) Merge(ctx context.Context, fromUID, toUID int64) (domain.Cart, error) {
	src, err := s.repo.FindByUID(ctx, fromUID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return s.repo.FindByUID(ctx, toUID)
		}
		return domain.Cart{}, err
	}
	dst, err := s.getOrCreate(ctx, toUID)
	if err != nil {
		return domain.Cart{}, err
	}
	dst.Merge(src)
	merged, err := s.save(ctx, dst)
	if err != nil {
		return domain.Cart{}, err
	}
	return merged, s.repo.Delete(ctx, src)
}

func (s *service) Clear(ctx context.Context, uid int64) error {
	cart, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil
		}
		return err
	}
	cart.Clear()
	_, err = s.save(ctx, cart)
	return err
}

func (s *service) Destroy(ctx context.Context, uid int64) error {
	cart, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil
		}
		return err
	}
	return s.repo.Delete(ctx, cart)
}

func (s *service) FindExpiredCarts(ctx context.Context, offset, limit int, now int64) ([]domain.Cart, int64, error) {
	return s.repo.FindExpired(ctx, offset, limit, now)
}

func (s *service) CloseExpiredCarts(ctx context.Context, carts []domain.Cart) error {
	return s.repo.DeleteBatch(ctx, carts)
}

func (s *service) getOrCreate(ctx context.Context, uid int64) (domain.Cart, error) {
	cart, err := s.repo.FindByUID(ctx, uid)
	now := s.nowFunc()
	switch {
	case err == nil:
		if !cart.IsExpired(now) {
			return cart, nil
		}
		// 过期购物车重建, 原聚合整体删除
		if err = s.repo.Delete(ctx, cart); err != nil {
			return domain.Cart{}, err
		}
	case errors.Is(err, repository.ErrCartNotFound):
	default:
		return domain.Cart{}, err
	}
	return domain.Cart{
		UID:       uid,
		ExpiresAt: now + s.ttl.Milliseconds(),
	}, nil
}

func (s *service) save(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	id, err := s.repo.Save(ctx, cart)
	if err != nil {
		return domain.Cart{}, err
	}
	cart.ID = id
	return cart, nil
}

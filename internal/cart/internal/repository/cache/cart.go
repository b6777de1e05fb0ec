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

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/emall/internal/cart/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ErrKeyNotExist 目前只有 redis 一个实现, 用别名即可
var ErrKeyNotExist = redis.Nil

type CartCache interface {
	Get(ctx context.Context, uid int64) (domain.Cart, error)
	Set(ctx context.Context, cart domain.Cart) error
	Delete(ctx context.Context, uid int64) error
}

type CartECache struct {
	cache      ecache.Cache
	expiration time.Duration
}

func NewCartECache(c ecache.Cache) CartCache {
	return &CartECache{
		cache: &ecache.NamespaceCache{
			Namespace: "cart:",
			C:         c,
		},
		expiration: time.Minute * 15,
	}
}

func (c *CartECache) Get(ctx context.Context, uid int64) (domain.Cart, error) {
	var cart domain.Cart
	err := c.cache.Get(ctx, c.key(uid)).JSONScan(&cart)
	return cart, err
}

func (c *CartECache) Set(ctx context.Context, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, c.key(cart.UID), data, c.expiration)
}

func (c *CartECache) Delete(ctx context.Context, uid int64) error {
	_, err := c.cache.Delete(ctx, c.key(uid))
	return err
}

func (c *CartECache) key(uid int64) string {
	return fmt.Sprintf("uid:%d", uid)
}

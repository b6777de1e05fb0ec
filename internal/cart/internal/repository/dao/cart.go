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

package dao

import (
	"context"
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

var ErrCartNotFound = gorm.ErrRecordNotFound

type CartDAO interface {
	FindByUID(ctx context.Context, uid int64) (Cart, []CartItem, error)
	// Save 整体保存购物车聚合, 商品行全量替换
	Save(ctx context.Context, cart Cart, items []CartItem) (int64, error)
	// Delete 删除聚合根及其全部商品行
	Delete(ctx context.Context, id int64) error
	DeleteBatch(ctx context.Context, ids []int64) error
	FindExpired(ctx context.Context, offset, limit int, now int64) ([]Cart, int64, error)
}

type Cart struct {
	Id         int64  `gorm:"primaryKey;autoIncrement;comment:购物车自增ID"`
	Uid        int64  `gorm:"not null;uniqueIndex:uniq_cart_uid;comment:用户ID"`
	CouponCode string `gorm:"type:varchar(255);not null;default:'';comment:已应用的优惠码"`
	// 单位为分, 999表示9.99元
	DiscountAmount int64 `gorm:"not null;default:0;comment:车级优惠金额"`
	ExpiresAt      int64 `gorm:"not null;index:idx_cart_expires_at;comment:过期时间"`
	Ctime          int64
	Utime          int64
}

type CartItem struct {
	Id        int64  `gorm:"primaryKey;autoIncrement;comment:购物车商品行自增ID"`
	CartId    int64  `gorm:"not null;uniqueIndex:uniq_cart_unit;comment:购物车自增ID"`
	ProductId int64  `gorm:"not null;uniqueIndex:uniq_cart_unit;comment:商品ID"`
	VariantId int64  `gorm:"not null;default:0;uniqueIndex:uniq_cart_unit;comment:规格ID, 0表示无规格"`
	Sku       string `gorm:"type:varchar(255);not null;default:'';comment:SKU编码"`
	Name      string `gorm:"type:varchar(255);not null;comment:商品名称快照"`
	Image     string `gorm:"type:varchar(512);not null;default:'';comment:商品图片快照"`
	// 单位为分, 999表示9.99元
	Price          int64 `gorm:"not null;comment:加购时单价快照"`
	Quantity       int64 `gorm:"not null;comment:数量"`
	DiscountAmount int64 `gorm:"not null;default:0;comment:行级优惠金额"`
	Ctime          int64
	Utime          int64
}

type gormCartDAO struct {
	db *egorm.Component
}

func NewGORMCartDAO(db *egorm.Component) CartDAO {
	return &gormCartDAO{db: db}
}

func (g *gormCartDAO) FindByUID(ctx context.Context, uid int64) (Cart, []CartItem, error) {
	var c Cart
	if err := g.db.WithContext(ctx).First(&c, "uid = ?", uid).Error; err != nil {
		return Cart{}, nil, err
	}
	var items []CartItem
	err := g.db.WithContext(ctx).Order("id ASC").Find(&items, "cart_id = ?", c.Id).Error
	return c, items, err
}

func (g *gormCartDAO) Save(ctx context.Context, cart Cart, items []CartItem) (int64, error) {
	now := time.Now().UnixMilli()
	err := g.db.WithContext(ctx).Transaction(func(tx *egorm.Component) error {
		cart.Utime = now
		if cart.Id == 0 {
			cart.Ctime = now
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Model(&Cart{}).Where("id = ?", cart.Id).
				Updates(map[string]any{
					"coupon_code":     cart.CouponCode,
					"discount_amount": cart.DiscountAmount,
					"expires_at":      cart.ExpiresAt,
					"utime":           cart.Utime,
				}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("cart_id = ?", cart.Id).Delete(&CartItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].Id = 0
			items[i].CartId = cart.Id
			items[i].Ctime, items[i].Utime = now, now
		}
		return tx.Create(&items).Error
	})
	return cart.Id, err
}

func (g *gormCartDAO) Delete(ctx context.Context, id int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *egorm.Component) error {
		if err := tx.Where("cart_id = ?", id).Delete(&CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Cart{}).Error
	})
}

func (g *gormCartDAO) DeleteBatch(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return g.db.WithContext(ctx).Transaction(func(tx *egorm.Component) error {
		if err := tx.Where("cart_id IN ?", ids).Delete(&CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&Cart{}).Error
	})
}

func (g *gormCartDAO) FindExpired(ctx context.Context, offset, limit int, now int64) ([]Cart, int64, error) {
	var (
		res   []Cart
		total int64
	)
	query := g.db.WithContext(ctx).Model(&Cart{}).
		Where("expires_at > 0 AND expires_at < ?", now)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&res).Error
	return res, total, err
}

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

	"github.com/ecodeclub/ekit/sqlx"
	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrDiscountNotFound = gorm.ErrRecordNotFound
	ErrCouponNotFound   = gorm.ErrRecordNotFound
	// ErrUsageExceeded 条件更新没有命中, 说明总次数已用尽或优惠已停用
	ErrUsageExceeded = errors.New("优惠使用次数已达上限")
	ErrCouponUsed    = errors.New("兑换记录已关联订单")
	ErrDuplicateCode = errors.New("优惠码已存在")
)

type DiscountDAO interface {
	Create(ctx context.Context, d Discount) (int64, error)
	Update(ctx context.Context, d Discount) error
	Deactivate(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (Discount, error)
	FindByCode(ctx context.Context, code string) (Discount, error)
	List(ctx context.Context, offset, limit int) ([]Discount, error)
	// Redeem 原子占用一次使用额度并创建兑换记录, 并发场景下只有一个胜出者
	Redeem(ctx context.Context, discountID, uid int64, perUserLimit int64) (int64, error)
	// CancelRedemption 补偿动作, 删除未关联订单的兑换记录并退回使用额度
	CancelRedemption(ctx context.Context, couponID int64) error
	LinkCouponToOrder(ctx context.Context, couponID, orderID int64) error
	FindCouponByID(ctx context.Context, couponID int64) (Coupon, error)
	CountCouponsByUser(ctx context.Context, discountID, uid int64) (int64, error)
}

type Discount struct {
	Id   int64  `gorm:"primaryKey;autoIncrement;comment:优惠规则自增ID"`
	Code string `gorm:"type:varchar(64);not null;uniqueIndex:uniq_discount_code;comment:优惠码"`
	Name string `gorm:"type:varchar(255);not null;comment:优惠名称"`
	Type uint8  `gorm:"type:tinyint unsigned;not null;comment:优惠类型 1=百分比 2=固定金额"`
	// 百分比类型为百分数, 固定金额类型单位为分
	Value                 int64                    `gorm:"not null;comment:优惠力度"`
	MinimumPurchaseAmount int64                    `gorm:"not null;default:0;comment:最低消费金额, 单位为分"`
	MaximumDiscountAmount int64                    `gorm:"not null;default:0;comment:最高优惠金额, 单位为分, 0表示不封顶"`
	StartDate             int64                    `gorm:"not null;comment:生效时间"`
	EndDate               int64                    `gorm:"not null;default:0;comment:失效时间, 0表示长期有效"`
	UsageLimit            int64                    `gorm:"not null;default:0;comment:总使用次数上限, 0表示不限"`
	UsageLimitPerUser     int64                    `gorm:"not null;default:0;comment:单用户使用次数上限, 0表示不限"`
	UsageCount            int64                    `gorm:"not null;default:0;comment:已使用次数"`
	Active                bool                     `gorm:"not null;default:true;comment:是否启用"`
	Scope                 uint8                    `gorm:"type:tinyint unsigned;not null;default:1;comment:适用范围 1=全场 2=指定商品 3=指定类目"`
	ProductIds            sqlx.JsonColumn[[]int64] `gorm:"type:varchar(2048);comment:适用商品ID列表,JSON格式"`
	CategoryIds           sqlx.JsonColumn[[]int64] `gorm:"type:varchar(2048);comment:适用类目ID列表,JSON格式"`
	Ctime                 int64
	Utime                 int64
}

type Coupon struct {
	Id         int64 `gorm:"primaryKey;autoIncrement;comment:兑换记录自增ID"`
	DiscountId int64 `gorm:"not null;index:idx_coupon_discount_id;comment:优惠规则自增ID"`
	Uid        int64 `gorm:"not null;index:idx_coupon_uid;comment:用户ID"`
	OrderId    int64 `gorm:"not null;default:0;comment:消费该兑换的订单ID, 0表示未使用"`
	Ctime      int64
	Utime      int64
}

type gormDiscountDAO struct {
	db *egorm.Component
}

func NewGORMDiscountDAO(db *egorm.Component) DiscountDAO {
	return &gormDiscountDAO{db: db}
}

func (g *gormDiscountDAO) Create(ctx context.Context, d Discount) (int64, error) {
	now := time.Now().UnixMilli()
	d.Ctime, d.Utime = now, now
	err := g.db.WithContext(ctx).Create(&d).Error
	if g.isMySQLUniqueIndexError(err) {
		return 0, errors.Wrapf(ErrDuplicateCode, "code: %s", d.Code)
	}
	return d.Id, err
}

func (g *gormDiscountDAO) isMySQLUniqueIndexError(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		const uniqueIndexErrNo uint16 = 1062
		if me.Number == uniqueIndexErrNo {
			return true
		}
	}
	return false
}

func (g *gormDiscountDAO) Update(ctx context.Context, d Discount) error {
	return g.db.WithContext(ctx).Model(&Discount{}).Where("id = ?", d.Id).
		Updates(map[string]any{
			"name":                    d.Name,
			"type":                    d.Type,
			"value":                   d.Value,
			"minimum_purchase_amount": d.MinimumPurchaseAmount,
			"maximum_discount_amount": d.MaximumDiscountAmount,
			"start_date":              d.StartDate,
			"end_date":                d.EndDate,
			"usage_limit":             d.UsageLimit,
			"usage_limit_per_user":    d.UsageLimitPerUser,
			"active":                  d.Active,
			"scope":                   d.Scope,
			"product_ids":             d.ProductIds,
			"category_ids":            d.CategoryIds,
			"utime":                   time.Now().UnixMilli(),
		}).Error
}

func (g *gormDiscountDAO) Deactivate(ctx context.Context, id int64) error {
	return g.db.WithContext(ctx).Model(&Discount{}).Where("id = ?", id).
		Updates(map[string]any{
			"active": false,
			"utime":  time.Now().UnixMilli(),
		}).Error
}

func (g *gormDiscountDAO) FindByID(ctx context.Context, id int64) (Discount, error) {
	var res Discount
	err := g.db.WithContext(ctx).First(&res, "id = ?", id).Error
	return res, err
}

func (g *gormDiscountDAO) FindByCode(ctx context.Context, code string) (Discount, error) {
	var res Discount
	err := g.db.WithContext(ctx).First(&res, "code = ?", code).Error
	return res, err
}

func (g *gormDiscountDAO) List(ctx context.Context, offset, limit int) ([]Discount, error) {
	var res []Discount
	err := g.db.WithContext(ctx).Model(&Discount{}).Order("id DESC").
		Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (g *gormDiscountDAO) Redeem(ctx context.Context, discountID, uid int64, perUserLimit int64) (int64, error) {
	now := time.Now().UnixMilli()
	var couponID int64
	err := g.db.WithContext(ctx).Transaction(func(tx *egorm.Component) error {
		res := tx.Model(&Discount{}).
			Where("id = ? AND active = ? AND (usage_limit = 0 OR usage_count < usage_limit)", discountID, true).
			Updates(map[string]any{
				"usage_count": gorm.Expr("usage_count + 1"),
				"utime":       now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUsageExceeded
		}
		if perUserLimit > 0 {
			// 上限校验和插入在同一条语句里完成, 子查询对已有兑换记录加锁,
			// 同一用户并发兑换时复查不会同时通过
			res := tx.Exec(
				"INSERT INTO `coupons` (`discount_id`, `uid`, `order_id`, `ctime`, `utime`) "+
					"SELECT ?, ?, 0, ?, ? FROM DUAL "+
					"WHERE (SELECT COUNT(*) FROM `coupons` WHERE `discount_id` = ? AND `uid` = ?) < ?",
				discountID, uid, now, now, discountID, uid, perUserLimit)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrUsageExceeded
			}
			var c Coupon
			if err := tx.Where("discount_id = ? AND uid = ?", discountID, uid).
				Order("id DESC").First(&c).Error; err != nil {
				return err
			}
			couponID = c.Id
			return nil
		}
		c := Coupon{
			DiscountId: discountID,
			Uid:        uid,
			Ctime:      now,
			Utime:      now,
		}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		couponID = c.Id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return couponID, nil
}

func (g *gormDiscountDAO) CancelRedemption(ctx context.Context, couponID int64) error {
	now := time.Now().UnixMilli()
	return g.db.WithContext(ctx).Transaction(func(tx *egorm.Component) error {
		var c Coupon
		if err := tx.First(&c, "id = ?", couponID).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND order_id = 0", couponID).Delete(&Coupon{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCouponUsed
		}
		return tx.Model(&Discount{}).
			Where("id = ? AND usage_count > 0", c.DiscountId).
			Updates(map[string]any{
				"usage_count": gorm.Expr("usage_count - 1"),
				"utime":       now,
			}).Error
	})
}

func (g *gormDiscountDAO) LinkCouponToOrder(ctx context.Context, couponID, orderID int64) error {
	res := g.db.WithContext(ctx).Model(&Coupon{}).
		Where("id = ? AND order_id = 0", couponID).
		Updates(map[string]any{
			"order_id": orderID,
			"utime":    time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCouponUsed
	}
	return nil
}

func (g *gormDiscountDAO) FindCouponByID(ctx context.Context, couponID int64) (Coupon, error) {
	var res Coupon
	err := g.db.WithContext(ctx).First(&res, "id = ?", couponID).Error
	return res, err
}

func (g *gormDiscountDAO) CountCouponsByUser(ctx context.Context, discountID, uid int64) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&Coupon{}).
		Where("discount_id = ? AND uid = ?", discountID, uid).
		Select("COUNT(id)").Count(&count).Error
	return count, err
}

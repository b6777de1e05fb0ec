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
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound = gorm.ErrRecordNotFound
	// ErrOrderStateChanged 条件更新落空, 订单状态已被并发修改
	ErrOrderStateChanged = errors.New("订单状态已被并发修改")
)

// Address 以 JSON 形式嵌入订单表, 下单时刻的地址快照
type Address struct {
	Recipient string `json:"recipient"`
	Phone     string `json:"phone"`
	Province  string `json:"province"`
	City      string `json:"city"`
	Detail    string `json:"detail"`
	ZipCode   string `json:"zipCode"`
}

type OrderDAO interface {
	// CreateOrder 在同一事务内写入订单和订单项
	CreateOrder(ctx context.Context, o Order, items []OrderItem) (int64, error)
	FindBySN(ctx context.Context, sn string) (Order, error)
	FindBySNAndUID(ctx context.Context, sn string, uid int64) (Order, error)
	FindOrderItemsByOrderID(ctx context.Context, oid int64) ([]OrderItem, error)
	List(ctx context.Context, offset, limit int, uid int64) ([]Order, error)
	Count(ctx context.Context, uid int64) (int64, error)
	// Transition 以旧状态作为条件更新, 并发流转只有一个胜出者
	Transition(ctx context.Context, o Order, fromStatus uint8) error
	// FindExpiredOrders 查找在截止时间之前创建且仍未进入支付流程的订单
	FindExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]Order, error)
	CountExpiredOrders(ctx context.Context, ctime int64) (int64, error)
}

type Order struct {
	Id         int64  `gorm:"primaryKey;autoIncrement;comment:订单自增ID"`
	SN         string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_order_sn;comment:订单序列号"`
	Uid        int64  `gorm:"not null;index:idx_order_uid;comment:用户ID"`
	CouponId   int64  `gorm:"not null;default:0;comment:兑换记录自增ID, 0表示未使用优惠"`
	CouponCode string `gorm:"type:varchar(64);not null;default:'';comment:优惠码"`
	// 金额单位均为分, 999表示9.99元
	Subtotal        int64                    `gorm:"not null;comment:商品小计"`
	Tax             int64                    `gorm:"not null;default:0;comment:税费"`
	ShippingFee     int64                    `gorm:"not null;default:0;comment:运费"`
	DiscountAmount  int64                    `gorm:"not null;default:0;comment:优惠金额"`
	Total           int64                    `gorm:"not null;comment:实付总价"`
	ShippingAddress sqlx.JsonColumn[Address] `gorm:"type:varchar(2048);comment:收货地址快照,JSON格式"`
	BillingAddress  sqlx.JsonColumn[Address] `gorm:"type:varchar(2048);comment:账单地址快照,JSON格式"`
	Status          uint8                    `gorm:"type:tinyint unsigned;not null;default:1;index:idx_order_status;comment:订单状态 1=待处理 2=处理中 3=已支付 4=已发货 5=已签收 6=已取消 7=已退款 8=已失败"`
	CancelReason    string                   `gorm:"type:varchar(512);not null;default:'';comment:取消原因"`
	RefundReason    string                   `gorm:"type:varchar(512);not null;default:'';comment:退款原因"`
	PaidAt          int64                    `gorm:"not null;default:0;comment:支付时间"`
	ShippedAt       int64                    `gorm:"not null;default:0;comment:发货时间"`
	DeliveredAt     int64                    `gorm:"not null;default:0;comment:签收时间"`
	CancelledAt     int64                    `gorm:"not null;default:0;comment:取消时间"`
	RefundedAt      int64                    `gorm:"not null;default:0;comment:退款时间"`
	FailedAt        int64                    `gorm:"not null;default:0;comment:失败时间"`
	Ctime           int64
	Utime           int64
}

type OrderItem struct {
	Id        int64  `gorm:"primaryKey;autoIncrement;comment:订单项自增ID"`
	OrderId   int64  `gorm:"not null;index:idx_order_item_order_id;comment:订单自增ID"`
	ProductId int64  `gorm:"not null;comment:商品ID"`
	VariantId int64  `gorm:"not null;default:0;comment:变体ID, 0表示无变体"`
	SKU       string `gorm:"type:varchar(255);not null;comment:SKU编码快照"`
	Name      string `gorm:"type:varchar(255);not null;comment:商品名称快照"`
	Image     string `gorm:"type:varchar(512);not null;default:'';comment:商品图片快照"`
	// 单位为分, 999表示9.99元
	Price          int64 `gorm:"not null;comment:下单时单价快照"`
	DiscountAmount int64 `gorm:"not null;default:0;comment:行级优惠金额"`
	Quantity       int64 `gorm:"not null;comment:购买数量"`
	Ctime          int64
	Utime          int64
}

type gormOrderDAO struct {
	db *egorm.Component
}

func NewGORMOrderDAO(db *egorm.Component) OrderDAO {
	return &gormOrderDAO{db: db}
}

func (g *gormOrderDAO) CreateOrder(ctx context.Context, o Order, items []OrderItem) (int64, error) {
	now := time.Now().UnixMilli()
	o.Ctime, o.Utime = now, now
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderId = o.Id
			items[i].Ctime, items[i].Utime = now, now
		}
		return tx.Create(&items).Error
	})
	return o.Id, err
}

func (g *gormOrderDAO) FindBySN(ctx context.Context, sn string) (Order, error) {
	var res Order
	err := g.db.WithContext(ctx).First(&res, "sn = ?", sn).Error
	return res, err
}

func (g *gormOrderDAO) FindBySNAndUID(ctx context.Context, sn string, uid int64) (Order, error) {
	var res Order
	err := g.db.WithContext(ctx).First(&res, "sn = ? AND uid = ?", sn, uid).Error
	return res, err
}

func (g *gormOrderDAO) FindOrderItemsByOrderID(ctx context.Context, oid int64) ([]OrderItem, error) {
	var res []OrderItem
	err := g.db.WithContext(ctx).Find(&res, "order_id = ?", oid).Error
	return res, err
}

func (g *gormOrderDAO) List(ctx context.Context, offset, limit int, uid int64) ([]Order, error) {
	var res []Order
	err := g.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (g *gormOrderDAO) Count(ctx context.Context, uid int64) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&Order{}).
		Where("uid = ?", uid).
		Count(&count).Error
	return count, err
}

func (g *gormOrderDAO) Transition(ctx context.Context, o Order, fromStatus uint8) error {
	res := g.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND status = ?", o.Id, fromStatus).
		Updates(map[string]any{
			"status":          o.Status,
			"tax":             o.Tax,
			"shipping_fee":    o.ShippingFee,
			"discount_amount": o.DiscountAmount,
			"total":           o.Total,
			"cancel_reason":   o.CancelReason,
			"refund_reason":   o.RefundReason,
			"paid_at":         o.PaidAt,
			"shipped_at":      o.ShippedAt,
			"delivered_at":    o.DeliveredAt,
			"cancelled_at":    o.CancelledAt,
			"refunded_at":     o.RefundedAt,
			"failed_at":       o.FailedAt,
			"utime":           time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderStateChanged
	}
	return nil
}

func (g *gormOrderDAO) FindExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]Order, error) {
	var res []Order
	err := g.db.WithContext(ctx).
		Where("status = ? AND ctime < ?", 1, ctime).
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (g *gormOrderDAO) CountExpiredOrders(ctx context.Context, ctime int64) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&Order{}).
		Where("status = ? AND ctime < ?", 1, ctime).
		Count(&count).Error
	return count, err
}

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
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrShippingNotFound = gorm.ErrRecordNotFound
	// ErrShippingStateChanged 条件更新落空, 物流状态已被并发修改
	ErrShippingStateChanged = errors.New("物流状态已被并发修改")
)

type ShippingDAO interface {
	Create(ctx context.Context, s Shipping) (int64, error)
	FindBySN(ctx context.Context, sn string) (Shipping, error)
	FindByOrderSN(ctx context.Context, orderSN string) (Shipping, error)
	// Transition 以旧状态作为条件更新, 并发流转只有一个胜出者
	Transition(ctx context.Context, s Shipping, fromStatus uint8) error
}

type Shipping struct {
	Id      int64  `gorm:"primaryKey;autoIncrement;comment:物流自增ID"`
	SN      string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_shipping_sn;comment:物流序列号"`
	OrderId int64  `gorm:"not null;index:idx_shipping_order_id;comment:订单自增ID"`
	OrderSN string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_shipping_order_sn;comment:订单序列号"`
	Uid     int64  `gorm:"not null;index:idx_shipping_uid;comment:用户ID"`
	Carrier string `gorm:"type:varchar(64);not null;default:'';comment:承运商"`
	// 发货后才会有值
	TrackingNumber string `gorm:"type:varchar(255);not null;default:'';comment:承运商运单号"`
	Recipient      string `gorm:"type:varchar(128);not null;default:'';comment:收件人"`
	Phone          string `gorm:"type:varchar(32);not null;default:'';comment:收件人电话"`
	Province       string `gorm:"type:varchar(64);not null;default:'';comment:省份"`
	City           string `gorm:"type:varchar(64);not null;default:'';comment:城市"`
	Detail         string `gorm:"type:varchar(512);not null;default:'';comment:详细地址"`
	ZipCode        string `gorm:"type:varchar(16);not null;default:'';comment:邮编"`
	Status         uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:物流状态 1=待发货 2=处理中 3=已发货 4=运输中 5=派送中 6=已签收 7=已失败 8=已退回 9=已取消"`
	FailureReason  string `gorm:"type:varchar(512);not null;default:'';comment:失败原因"`
	ShippedAt      int64  `gorm:"not null;default:0;comment:发货时间"`
	DeliveredAt    int64  `gorm:"not null;default:0;comment:签收时间"`
	FailedAt       int64  `gorm:"not null;default:0;comment:失败时间"`
	ReturnedAt     int64  `gorm:"not null;default:0;comment:退回时间"`
	CancelledAt    int64  `gorm:"not null;default:0;comment:取消时间"`
	Ctime          int64
	Utime          int64
}

type gormShippingDAO struct {
	db *egorm.Component
}

func NewGORMShippingDAO(db *egorm.Component) ShippingDAO {
	return &gormShippingDAO{db: db}
}

func (g *gormShippingDAO) Create(ctx context.Context, s Shipping) (int64, error) {
	now := time.Now().UnixMilli()
	s.Ctime, s.Utime = now, now
	err := g.db.WithContext(ctx).Create(&s).Error
	return s.Id, err
}

func (g *gormShippingDAO) FindBySN(ctx context.Context, sn string) (Shipping, error) {
	var res Shipping
	err := g.db.WithContext(ctx).First(&res, "sn = ?", sn).Error
	return res, err
}

func (g *gormShippingDAO) FindByOrderSN(ctx context.Context, orderSN string) (Shipping, error) {
	var res Shipping
	err := g.db.WithContext(ctx).First(&res, "order_sn = ?", orderSN).Error
	return res, err
}

func (g *gormShippingDAO) Transition(ctx context.Context, s Shipping, fromStatus uint8) error {
	res := g.db.WithContext(ctx).Model(&Shipping{}).
		Where("id = ? AND status = ?", s.Id, fromStatus).
		Updates(map[string]any{
			"status":          s.Status,
			"carrier":         s.Carrier,
			"tracking_number": s.TrackingNumber,
			"failure_reason":  s.FailureReason,
			"shipped_at":      s.ShippedAt,
			"delivered_at":    s.DeliveredAt,
			"failed_at":       s.FailedAt,
			"returned_at":     s.ReturnedAt,
			"cancelled_at":    s.CancelledAt,
			"utime":           time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrShippingStateChanged
	}
	return nil
}

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
	ErrPaymentNotFound = gorm.ErrRecordNotFound
	// ErrPaymentStateChanged 条件更新落空, 支付状态已被并发修改
	ErrPaymentStateChanged = errors.New("支付状态已被并发修改")
)

type PaymentDAO interface {
	Create(ctx context.Context, p Payment) (int64, error)
	FindBySN(ctx context.Context, sn string) (Payment, error)
	FindByOrderSN(ctx context.Context, orderSN string) (Payment, error)
	// Transition 以旧状态作为条件更新, 并发流转只有一个胜出者
	Transition(ctx context.Context, p Payment, fromStatus uint8) error
}

type Payment struct {
	Id      int64  `gorm:"primaryKey;autoIncrement;comment:支付自增ID"`
	SN      string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_payment_sn;comment:支付序列号"`
	OrderId int64  `gorm:"not null;index:idx_payment_order_id;comment:订单自增ID"`
	OrderSN string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_payment_order_sn;comment:订单序列号"`
	Uid     int64  `gorm:"not null;index:idx_payment_uid;comment:用户ID"`
	// 单位为分, 999表示9.99元
	Amount        int64  `gorm:"not null;comment:支付金额"`
	RefundAmount  int64  `gorm:"not null;default:0;comment:累计退款金额"`
	Method        string `gorm:"type:varchar(64);not null;default:'';comment:支付方式"`
	TransactionId string `gorm:"type:varchar(255);not null;default:'';comment:第三方支付流水号"`
	Status        uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:支付状态 1=待支付 2=处理中 3=已完成 4=已失败 5=已取消 6=已退款 7=部分退款"`
	FailureReason string `gorm:"type:varchar(512);not null;default:'';comment:失败原因"`
	PaidAt        int64  `gorm:"not null;default:0;comment:支付完成时间"`
	FailedAt      int64  `gorm:"not null;default:0;comment:支付失败时间"`
	CancelledAt   int64  `gorm:"not null;default:0;comment:支付取消时间"`
	RefundedAt    int64  `gorm:"not null;default:0;comment:首次退款时间"`
	Ctime         int64
	Utime         int64
}

type gormPaymentDAO struct {
	db *egorm.Component
}

func NewGORMPaymentDAO(db *egorm.Component) PaymentDAO {
	return &gormPaymentDAO{db: db}
}

func (g *gormPaymentDAO) Create(ctx context.Context, p Payment) (int64, error) {
	now := time.Now().UnixMilli()
	p.Ctime, p.Utime = now, now
	err := g.db.WithContext(ctx).Create(&p).Error
	return p.Id, err
}

func (g *gormPaymentDAO) FindBySN(ctx context.Context, sn string) (Payment, error) {
	var res Payment
	err := g.db.WithContext(ctx).First(&res, "sn = ?", sn).Error
	return res, err
}

func (g *gormPaymentDAO) FindByOrderSN(ctx context.Context, orderSN string) (Payment, error) {
	var res Payment
	err := g.db.WithContext(ctx).First(&res, "order_sn = ?", orderSN).Error
	return res, err
}

func (g *gormPaymentDAO) Transition(ctx context.Context, p Payment, fromStatus uint8) error {
	res := g.db.WithContext(ctx).Model(&Payment{}).
		Where("id = ? AND status = ?", p.Id, fromStatus).
		Updates(map[string]any{
			"status":         p.Status,
			"refund_amount":  p.RefundAmount,
			"transaction_id": p.TransactionId,
			"failure_reason": p.FailureReason,
			"paid_at":        p.PaidAt,
			"failed_at":      p.FailedAt,
			"cancelled_at":   p.CancelledAt,
			"refunded_at":    p.RefundedAt,
			"utime":          time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPaymentStateChanged
	}
	return nil
}

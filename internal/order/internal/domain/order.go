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

package domain

import (
	"github.com/pkg/errors"
)

var (
	ErrIllegalTransition     = errors.New("非法的订单状态流转")
	ErrInvariantViolation    = errors.New("订单不变量被破坏")
	ErrAmountLockedAfterPaid = errors.New("支付后订单金额不可变更")
)

type Status uint8

func (s Status) ToUint8() uint8 {
	return uint8(s)
}

const (
	StatusPending    Status = 1
	StatusProcessing Status = 2
	StatusPaid       Status = 3
	StatusShipped    Status = 4
	StatusDelivered  Status = 5
	StatusCancelled  Status = 6
	StatusRefunded   Status = 7
	StatusFailed     Status = 8
)

// transitions 订单状态机的合法流转表,
// 取消只限支付前, 退款只限支付后, 支付失败是支付前的终态出口
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled, StatusFailed},
	StatusProcessing: {StatusPaid, StatusCancelled, StatusFailed},
	StatusPaid:       {StatusShipped, StatusRefunded},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusRefunded},
}

type Address struct {
	Recipient string
	Phone     string
	Province  string
	City      string
	Detail    string
	ZipCode   string
}

// Item 下单时刻的商品快照, 后续商品编辑不影响已生成的订单
type Item struct {
	ProductID int64
	VariantID int64
	SKU       string
	Name      string
	Image     string
	// Price 下单时的单价快照, 单位为分
	Price    int64
	Quantity int64
	// DiscountAmount 行级优惠金额, 单位为分
	DiscountAmount int64
}

// TotalPrice 行小计 = 单价*数量 - 行级优惠
func (i Item) TotalPrice() int64 {
	return i.Price*i.Quantity - i.DiscountAmount
}

type Order struct {
	ID         int64
	SN         string
	UID        int64
	Items      []Item
	CouponID   int64
	CouponCode string

	ShippingAddress Address
	BillingAddress  Address

	// 金额单位均为分, Subtotal 和 Total 是派生字段,
	// 只能由 recalc 计算, 不允许外部直接设置
	Subtotal       int64
	Tax            int64
	ShippingFee    int64
	DiscountAmount int64
	Total          int64

	Status       Status
	CancelReason string
	RefundReason string

	// 以下时间戳只在第一次进入对应状态时盖章, 重复流转不覆盖
	PaidAt      int64
	ShippedAt   int64
	DeliveredAt int64
	CancelledAt int64
	RefundedAt  int64
	FailedAt    int64
	Ctime       int64
	Utime       int64
}

// Recalculate 从当前商品行和各金额分量重新计算派生字段,
// 从存储加载后以及任一金额分量变更后都必须调用
func (o *Order) Recalculate() {
	o.recalc()
}

// SetDiscountAmount 支付前可以调整优惠金额, 总价随之重算
func (o *Order) SetDiscountAmount(amount int64) error {
	if amount < 0 {
		return errors.Wrapf(ErrInvariantViolation, "优惠金额 %d 为负", amount)
	}
	if !o.prePaid() {
		return ErrAmountLockedAfterPaid
	}
	o.DiscountAmount = amount
	o.recalc()
	return nil
}

// SetTax 支付前可以调整税费, 总价随之重算
func (o *Order) SetTax(amount int64) error {
	if amount < 0 {
		return errors.Wrapf(ErrInvariantViolation, "税费 %d 为负", amount)
	}
	if !o.prePaid() {
		return ErrAmountLockedAfterPaid
	}
	o.Tax = amount
	o.recalc()
	return nil
}

// SetShippingFee 支付前可以调整运费, 总价随之重算
func (o *Order) SetShippingFee(amount int64) error {
	if amount < 0 {
		return errors.Wrapf(ErrInvariantViolation, "运费 %d 为负", amount)
	}
	if !o.prePaid() {
		return ErrAmountLockedAfterPaid
	}
	o.ShippingFee = amount
	o.recalc()
	return nil
}

// Transition 执行一次状态流转并盖章对应时间戳
func (o *Order) Transition(target Status, now int64) error {
	if !o.canTransition(target) {
		return errors.Wrapf(ErrIllegalTransition, "%d -> %d", o.Status, target)
	}
	o.Status = target
	o.stamp(target, now)
	return nil
}

// CanBeCancelled 仅在支付前允许取消
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}

// CanBeRefunded 已支付或已签收的订单允许退款
func (o *Order) CanBeRefunded() bool {
	return o.Status == StatusPaid || o.Status == StatusDelivered
}

func (o *Order) Cancel(reason string, now int64) error {
	if err := o.Transition(StatusCancelled, now); err != nil {
		return err
	}
	o.CancelReason = reason
	return nil
}

func (o *Order) MarkRefunded(reason string, now int64) error {
	if err := o.Transition(StatusRefunded, now); err != nil {
		return err
	}
	o.RefundReason = reason
	return nil
}

func (o *Order) prePaid() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}

func (o *Order) canTransition(target Status) bool {
	for _, next := range transitions[o.Status] {
		if next == target {
			return true
		}
	}
	return false
}

// recalc total = subtotal + tax + shipping - discount
func (o *Order) recalc() {
	var subtotal int64
	for _, it := range o.Items {
		subtotal += it.TotalPrice()
	}
	o.Subtotal = subtotal
	o.Total = o.Subtotal + o.Tax + o.ShippingFee - o.DiscountAmount
}

func (o *Order) stamp(target Status, now int64) {
	switch target {
	case StatusPaid:
		if o.PaidAt == 0 {
			o.PaidAt = now
		}
	case StatusShipped:
		if o.ShippedAt == 0 {
			o.ShippedAt = now
		}
	case StatusDelivered:
		if o.DeliveredAt == 0 {
			o.DeliveredAt = now
		}
	case StatusCancelled:
		if o.CancelledAt == 0 {
			o.CancelledAt = now
		}
	case StatusRefunded:
		if o.RefundedAt == 0 {
			o.RefundedAt = now
		}
	case StatusFailed:
		if o.FailedAt == 0 {
			o.FailedAt = now
		}
	}
}

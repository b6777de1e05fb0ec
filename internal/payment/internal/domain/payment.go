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
	ErrIllegalTransition   = errors.New("非法的支付状态流转")
	ErrInvalidRefundAmount = errors.New("非法的退款金额")
)

type Status uint8

func (s Status) ToUint8() uint8 {
	return uint8(s)
}

const (
	StatusPending           Status = 1
	StatusProcessing        Status = 2
	StatusCompleted         Status = 3
	StatusFailed            Status = 4
	StatusCancelled         Status = 5
	StatusRefunded          Status = 6
	StatusPartiallyRefunded Status = 7
)

// transitions 支付状态机的合法流转表
var transitions = map[Status][]Status{
	StatusPending:           {StatusProcessing, StatusFailed, StatusCancelled},
	StatusProcessing:        {StatusCompleted, StatusFailed, StatusCancelled},
	StatusCompleted:         {StatusRefunded, StatusPartiallyRefunded},
	StatusPartiallyRefunded: {StatusRefunded, StatusPartiallyRefunded},
}

type Payment struct {
	ID      int64
	SN      string
	OrderID int64
	OrderSN string
	UID     int64
	// Amount 单位为分, 999表示9.99元
	Amount int64
	// RefundAmount 累计退款金额, 单位为分
	RefundAmount int64
	Method       string
	// TransactionID 第三方支付流水号
	TransactionID string
	Status        Status
	FailureReason string
	// 以下时间戳只在第一次进入对应状态时盖章, 重复流转不覆盖
	PaidAt      int64
	FailedAt    int64
	CancelledAt int64
	RefundedAt  int64
	Ctime       int64
	Utime       int64
}

// Transition 执行一次状态流转并盖章对应时间戳
func (p *Payment) Transition(target Status, now int64) error {
	if !p.canTransition(target) {
		return errors.Wrapf(ErrIllegalTransition, "%d -> %d", p.Status, target)
	}
	p.Status = target
	p.stamp(target, now)
	return nil
}

// CanBeRefunded 已完成且累计退款金额未达支付金额
func (p *Payment) CanBeRefunded() bool {
	return (p.Status == StatusCompleted || p.Status == StatusPartiallyRefunded) &&
		p.RefundAmount < p.Amount
}

// RemainingRefundable 剩余可退金额
func (p *Payment) RemainingRefundable() int64 {
	return p.Amount - p.RefundAmount
}

// Refund 累加退款金额并流转状态, 退满转 REFUNDED, 否则 PARTIALLY_REFUNDED
func (p *Payment) Refund(amount, now int64) error {
	if amount <= 0 || amount > p.RemainingRefundable() {
		return ErrInvalidRefundAmount
	}
	if !p.CanBeRefunded() {
		return errors.Wrapf(ErrIllegalTransition, "当前状态 %d 不可退款", p.Status)
	}
	target := StatusPartiallyRefunded
	if p.RefundAmount+amount == p.Amount {
		target = StatusRefunded
	}
	if err := p.Transition(target, now); err != nil {
		return err
	}
	p.RefundAmount += amount
	return nil
}

func (p *Payment) canTransition(target Status) bool {
	for _, next := range transitions[p.Status] {
		if next == target {
			return true
		}
	}
	return false
}

func (p *Payment) stamp(target Status, now int64) {
	switch target {
	case StatusCompleted:
		if p.PaidAt == 0 {
			p.PaidAt = now
		}
	case StatusFailed:
		if p.FailedAt == 0 {
			p.FailedAt = now
		}
	case StatusCancelled:
		if p.CancelledAt == 0 {
			p.CancelledAt = now
		}
	case StatusRefunded, StatusPartiallyRefunded:
		if p.RefundedAt == 0 {
			p.RefundedAt = now
		}
	}
}

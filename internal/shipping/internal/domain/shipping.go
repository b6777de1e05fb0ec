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

var ErrIllegalTransition = errors.New("非法的物流状态流转")

type Status uint8

func (s Status) ToUint8() uint8 {
	return uint8(s)
}

const (
	StatusPending        Status = 1
	StatusProcessing     Status = 2
	StatusShipped        Status = 3
	StatusInTransit      Status = 4
	StatusOutForDelivery Status = 5
	StatusDelivered      Status = 6
	StatusFailed         Status = 7
	StatusReturned       Status = 8
	StatusCancelled      Status = 9
)

// transitions 物流状态机的合法流转表, 发货后不可取消, 只能投递失败或退回
var transitions = map[Status][]Status{
	StatusPending:        {StatusProcessing, StatusCancelled},
	StatusProcessing:     {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusInTransit, StatusFailed},
	StatusInTransit:      {StatusOutForDelivery, StatusFailed},
	StatusOutForDelivery: {StatusDelivered, StatusFailed},
	StatusDelivered:      {StatusReturned},
	StatusFailed:         {StatusReturned},
}

type Address struct {
	Recipient string
	Phone     string
	Province  string
	City      string
	Detail    string
	ZipCode   string
}

type Shipping struct {
	ID      int64
	SN      string
	OrderID int64
	OrderSN string
	UID     int64
	Carrier string
	// TrackingNumber 承运商运单号, 发货后才会有值
	TrackingNumber string
	Address        Address
	Status         Status
	FailureReason  string
	// 以下时间戳只在第一次进入对应状态时盖章, 重复流转不覆盖
	ShippedAt   int64
	DeliveredAt int64
	FailedAt    int64
	ReturnedAt  int64
	CancelledAt int64
	Ctime       int64
	Utime       int64
}

// Transition 执行一次状态流转并盖章对应时间戳
func (s *Shipping) Transition(target Status, now int64) error {
	if !s.canTransition(target) {
		return errors.Wrapf(ErrIllegalTransition, "%d -> %d", s.Status, target)
	}
	s.Status = target
	s.stamp(target, now)
	return nil
}

// CanBeCancelled 仅在发货前允许取消
func (s *Shipping) CanBeCancelled() bool {
	return s.Status == StatusPending || s.Status == StatusProcessing
}

// IsInTransit 包裹已离仓且尚未签收
func (s *Shipping) IsInTransit() bool {
	return s.Status == StatusShipped ||
		s.Status == StatusInTransit ||
		s.Status == StatusOutForDelivery
}

func (s *Shipping) canTransition(target Status) bool {
	for _, next := range transitions[s.Status] {
		if next == target {
			return true
		}
	}
	return false
}

func (s *Shipping) stamp(target Status, now int64) {
	switch target {
	case StatusShipped:
		if s.ShippedAt == 0 {
			s.ShippedAt = now
		}
	case StatusDelivered:
		if s.DeliveredAt == 0 {
			s.DeliveredAt = now
		}
	case StatusFailed:
		if s.FailedAt == 0 {
			s.FailedAt = now
		}
	case StatusReturned:
		if s.ReturnedAt == 0 {
			s.ReturnedAt = now
		}
	case StatusCancelled:
		if s.CancelledAt == 0 {
			s.CancelledAt = now
		}
	}
}

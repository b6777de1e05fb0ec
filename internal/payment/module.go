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

package payment

import (
	"github.com/ecodeclub/emall/internal/payment/internal/domain"
	"github.com/ecodeclub/emall/internal/payment/internal/event"
	"github.com/ecodeclub/emall/internal/payment/internal/service"
)

type (
	Payment = domain.Payment
	Status  = domain.Status
	Meta    = service.Meta
	Service = service.Service

	PaymentEvent = event.PaymentEvent
)

const (
	StatusPending           = domain.StatusPending
	StatusProcessing        = domain.StatusProcessing
	StatusCompleted         = domain.StatusCompleted
	StatusFailed            = domain.StatusFailed
	StatusCancelled         = domain.StatusCancelled
	StatusRefunded          = domain.StatusRefunded
	StatusPartiallyRefunded = domain.StatusPartiallyRefunded

	PaymentEventName = event.PaymentEventName
)

var (
	ErrPaymentNotFound   = service.ErrPaymentNotFound
	ErrIllegalTransition = service.ErrIllegalTransition
)

type Module struct {
	Svc Service
}

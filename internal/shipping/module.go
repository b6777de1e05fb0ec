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

package shipping

import (
	"github.com/ecodeclub/emall/internal/shipping/internal/domain"
	"github.com/ecodeclub/emall/internal/shipping/internal/event"
	"github.com/ecodeclub/emall/internal/shipping/internal/service"
)

type (
	Shipping = domain.Shipping
	Address  = domain.Address
	Status   = domain.Status
	Meta     = service.Meta
	Service  = service.Service

	ShippingEvent = event.ShippingEvent
)

const (
	StatusPending        = domain.StatusPending
	StatusProcessing     = domain.StatusProcessing
	StatusShipped        = domain.StatusShipped
	StatusInTransit      = domain.StatusInTransit
	StatusOutForDelivery = domain.StatusOutForDelivery
	StatusDelivered      = domain.StatusDelivered
	StatusFailed         = domain.StatusFailed
	StatusReturned       = domain.StatusReturned
	StatusCancelled      = domain.StatusCancelled

	ShippingEventName = event.ShippingEventName
)

var (
	ErrShippingNotFound  = service.ErrShippingNotFound
	ErrIllegalTransition = service.ErrIllegalTransition
)

type Module struct {
	Svc Service
}

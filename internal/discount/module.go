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

package discount

import (
	"github.com/ecodeclub/emall/internal/discount/internal/domain"
	"github.com/ecodeclub/emall/internal/discount/internal/service"
)

type (
	Discount = domain.Discount
	Coupon   = domain.Coupon
	Line     = domain.Line
	Type     = domain.Type
	Scope    = domain.Scope
	Result   = service.Result
	Service  = service.Service
)

const (
	TypePercentage  = domain.TypePercentage
	TypeFixedAmount = domain.TypeFixedAmount

	ScopeAll                = domain.ScopeAll
	ScopeSpecificProducts   = domain.ScopeSpecificProducts
	ScopeSpecificCategories = domain.ScopeSpecificCategories
)

var (
	ErrInvalidDiscount  = service.ErrInvalidDiscount
	ErrDiscountNotFound = service.ErrDiscountNotFound
	ErrCouponUsed       = service.ErrCouponUsed
	ErrDuplicateCode    = service.ErrDuplicateCode
)

type Module struct {
	Svc Service
}

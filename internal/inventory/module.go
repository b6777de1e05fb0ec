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

package inventory

import (
	"github.com/ecodeclub/emall/internal/inventory/internal/domain"
	"github.com/ecodeclub/emall/internal/inventory/internal/service"
)

type (
	Record       = domain.Record
	Unit         = domain.Unit
	UnitQuantity = domain.UnitQuantity
	StockStatus  = domain.StockStatus
	Service      = service.Service
)

const (
	StockStatusInStock      = domain.StockStatusInStock
	StockStatusLowStock     = domain.StockStatusLowStock
	StockStatusOutOfStock   = domain.StockStatusOutOfStock
	StockStatusBackorder    = domain.StockStatusBackorder
	StockStatusDiscontinued = domain.StockStatusDiscontinued
)

var (
	ErrInsufficientStock = service.ErrInsufficientStock
	ErrRecordNotFound    = service.ErrRecordNotFound
)

type Module struct {
	Svc Service
}

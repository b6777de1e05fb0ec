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
	"gorm.io/gorm"
)

var ErrRecordNotFound = gorm.ErrRecordNotFound

type ProductDAO interface {
	FindBySN(ctx context.Context, sn string) (Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Product, error)
	Save(ctx context.Context, p Product) (int64, error)
}

type gormProductDAO struct {
	db *egorm.Component
}

func NewGORMProductDAO(db *egorm.Component) ProductDAO {
	return &gormProductDAO{db: db}
}

func (g *gormProductDAO) FindBySN(ctx context.Context, sn string) (Product, error) {
	var res Product
	err := g.db.WithContext(ctx).First(&res, "sn = ?", sn).Error
	return res, err
}

func (g *gormProductDAO) FindByIDs(ctx context.Context, ids []int64) ([]Product, error) {
	var res []Product
	err := g.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
	return res, err
}

func (g *gormProductDAO) Save(ctx context.Context, p Product) (int64, error) {
	now := time.Now().UnixMilli()
	p.Utime = now
	if p.Id == 0 {
		p.Ctime = now
		err := g.db.WithContext(ctx).Create(&p).Error
		return p.Id, err
	}
	err := g.db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", p.Id).Updates(&p).Error
	return p.Id, err
}

type Product struct {
	Id          int64  `gorm:"primaryKey;autoIncrement;comment:商品自增ID"`
	SN          string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_product_sn;comment:商品SKU编码"`
	Name        string `gorm:"type:varchar(255);not null;comment:商品名称"`
	Description string `gorm:"not null;comment:商品描述"`
	Image       string `gorm:"type:varchar(512);comment:商品主图URL"`
	Price       int64  `gorm:"not null;comment:商品单价;单位为分, 999表示9.99元"`
	CategoryId  int64  `gorm:"index:idx_category_id,comment:分类ID"`
	BrandId     int64  `gorm:"index:idx_brand_id,comment:品牌ID"`
	Status      uint8  `gorm:"type:tinyint unsigned;not null;default:2;comment:商品状态 1=下架 2=上架"`
	Ctime       int64
	Utime       int64
}

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

package service

import (
	"context"
	"time"

	"github.com/ecodeclub/emall/internal/discount/internal/domain"
	"github.com/ecodeclub/emall/internal/discount/internal/repository"
	"github.com/pkg/errors"
)

var (
	ErrInvalidDiscount  = domain.ErrInvalidDiscount
	ErrDiscountNotFound = repository.ErrDiscountNotFound
	ErrCouponUsed       = repository.ErrCouponUsed
	ErrDuplicateCode    = repository.ErrDuplicateCode
)

// CodeGenerator 生成优惠码
type CodeGenerator interface {
	Generate() string
}

// Result 一次评估或兑换的结果, 金额单位为分
type Result struct {
	Discount domain.Discount
	// CouponID 只有兑换时才有值
	CouponID int64
	Amount   int64
}

//go:generate mockgen -source=./service.go -destination=../../mocks/discount.mock.go -package=discountmocks Service
type Service interface {
	Create(ctx context.Context, d domain.Discount) (int64, error)
	Update(ctx context.Context, d domain.Discount) error
	Deactivate(ctx context.Context, id int64) error
	FindByCode(ctx context.Context, code string) (domain.Discount, error)
	List(ctx context.Context, offset, limit int) ([]domain.Discount, error)
	// Evaluate 报价预览, 无任何副作用
	Evaluate(ctx context.Context, code string, uid int64, lines []domain.Line) (Result, error)
	// Redeem 占用一次使用额度并创建兑换记录, 必须和下单动作配对,
	// 下单失败时调用 CancelRedemption 补偿
	Redeem(ctx context.Context, code string, uid int64, lines []domain.Line) (Result, error)
	LinkCouponToOrder(ctx context.Context, couponID, orderID int64) error
	CancelRedemption(ctx context.Context, couponID int64) error
}

type service struct {
	repo    repository.DiscountRepository
	codeGen CodeGenerator
	nowFunc func() int64
}

func NewService(repo repository.DiscountRepository, codeGen CodeGenerator) Service {
	return &service{
		repo:    repo,
		codeGen: codeGen,
		nowFunc: func() int64 {
			return time.Now().UnixMilli()
		},
	}
}

func (s *service) Create(ctx context.Context, d domain.Discount) (int64, error) {
	if d.Code == "" {
		d.Code = s.codeGen.Generate()
	}
	return s.repo.Create(ctx, d)
}

func (s *service) Update(ctx context.Context, d domain.Discount) error {
	return s.repo.Update(ctx, d)
}

func (s *service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *service) FindByCode(ctx context.Context, code string) (domain.Discount, error) {
	return s.repo.FindByCode(ctx, code)
}

func (s *service) List(ctx context.Context, offset, limit int) ([]domain.Discount, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *service) Evaluate(ctx context.Context, code string, uid int64, lines []domain.Line) (Result, error) {
	return s.evaluate(ctx, code, uid, lines)
}

func (s *service) Redeem(ctx context.Context, code string, uid int64, lines []domain.Line) (Result, error) {
	res, err := s.evaluate(ctx, code, uid, lines)
	if err != nil {
		return Result{}, err
	}
	couponID, err := s.repo.Redeem(ctx, res.Discount, uid)
	if err != nil {
		// 条件更新落败说明额度被并发请求抢走
		if errors.Is(err, repository.ErrUsageExceeded) {
			return Result{}, domain.ErrUsageLimitExceeded
		}
		return Result{}, err
	}
	res.CouponID = couponID
	return res, nil
}

func (s *service) LinkCouponToOrder(ctx context.Context, couponID, orderID int64) error {
	return s.repo.LinkCouponToOrder(ctx, couponID, orderID)
}

func (s *service) CancelRedemption(ctx context.Context, couponID int64) error {
	err := s.repo.CancelRedemption(ctx, couponID)
	if errors.Is(err, repository.ErrCouponNotFound) {
		// 补偿重复执行视为成功
		return nil
	}
	return err
}

func (s *service) evaluate(ctx context.Context, code string, uid int64, lines []domain.Line) (Result, error) {
	d, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return Result{}, err
	}
	userUsageCount, err := s.repo.CountCouponsByUser(ctx, d.ID, uid)
	if err != nil {
		return Result{}, err
	}
	eligible := d.EligibleAmount(lines)
	if err = d.Validate(s.nowFunc(), userUsageCount, eligible); err != nil {
		return Result{}, err
	}
	return Result{
		Discount: d,
		Amount:   d.CalculateDiscount(eligible),
	}, nil
}

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

package snowflake

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
)

var ErrExceedNode = errors.New("node超出限制")

const maxNode int64 = 1023

// CodeGenerator 基于雪花算法生成全局唯一的营销码, 比如优惠码
// 同一毫秒内并发生成也不会重复, 结果趋势递增, 便于按发放时间排查
type CodeGenerator struct {
	node *snowflake.Node
}

func NewCodeGenerator(nodeID int64) (*CodeGenerator, error) {
	if nodeID < 0 || nodeID > maxNode {
		return nil, errors.Wrapf(ErrExceedNode, "nodeID = %d", nodeID)
	}
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &CodeGenerator{node: n}, nil
}

// Generate 生成一个大写36进制编码
func (c *CodeGenerator) Generate() string {
	id := c.node.Generate()
	return strings.ToUpper(strconv.FormatInt(id.Int64(), 36))
}

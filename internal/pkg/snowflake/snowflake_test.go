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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeGenerator(t *testing.T) {
	testCases := []struct {
		name      string
		nodeID    int64
		assertErr assert.ErrorAssertionFunc
	}{
		{
			name:      "合法node",
			nodeID:    1,
			assertErr: assert.NoError,
		},
		{
			name:      "node为负数",
			nodeID:    -1,
			assertErr: assert.Error,
		},
		{
			name:      "node超出上限",
			nodeID:    1024,
			assertErr: assert.Error,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCodeGenerator(tc.nodeID)
			tc.assertErr(t, err)
		})
	}
}

func TestCodeGenerator_Generate(t *testing.T) {
	g, err := NewCodeGenerator(1)
	require.NoError(t, err)

	const count = 1000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		code := g.Generate()
		assert.NotEmpty(t, code)
		_, ok := seen[code]
		assert.False(t, ok, "生成了重复编码: %s", code)
		seen[code] = struct{}{}
	}
}

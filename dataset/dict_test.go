// Copyright 2025 booklore Project Authors
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

package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreqDict(t *testing.T) {
	d := NewFreqDict[string]()
	assert.Equal(t, 0, d.Add("a"))
	assert.Equal(t, 1, d.Add("b"))
	assert.Equal(t, 0, d.Add("a"))
	assert.Equal(t, 2, d.Count())

	assert.Equal(t, 2, d.Freq(0))
	assert.Equal(t, 1, d.Freq(1))
	assert.Equal(t, 0, d.Freq(2))

	assert.Equal(t, 0, d.Id("a"))
	assert.Equal(t, -1, d.Id("c"))

	k, ok := d.Key(1)
	assert.True(t, ok)
	assert.Equal(t, "b", k)
	_, ok = d.Key(2)
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "b"}, d.Keys())
}

func TestFreqDictInt(t *testing.T) {
	d := NewFreqDict[int]()
	assert.Equal(t, 0, d.Add(278418))
	assert.Equal(t, 1, d.Add(11676))
	assert.Equal(t, 0, d.Add(278418))
	assert.Equal(t, 2, d.Freq(0))
}

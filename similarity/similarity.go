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

package similarity

import (
	"go.uber.org/zap"

	"github.com/booklore-io/booklore/base/log"
	"github.com/booklore-io/booklore/floats"
)

// Matrix is a square symmetric similarity matrix. It is never mutated after
// Compute: when the interaction matrix changes it is rebuilt wholesale.
type Matrix struct {
	Values [][]float32
}

// Cosine computes the cosine similarity between two vectors. If either
// vector is all-zero the similarity is 0 instead of dividing by zero.
func Cosine(a, b []float32) float32 {
	normA := floats.Norm(a)
	normB := floats.Norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(a, b) / (normA * normB)
}

// Compute materializes pairwise cosine similarity between every pair of row
// vectors. The result is symmetric by construction and a pure function of
// the input. The diagonal is defined as exactly 1 for non-zero rows rather
// than computed, since Cosine(v, v) drifts off 1 in float32, and
// off-diagonal values are clamped so rounding never pushes them outside
// [-1, 1].
func Compute(values [][]float32) *Matrix {
	n := len(values)
	m := &Matrix{Values: make([][]float32, n)}
	for i := range m.Values {
		m.Values[i] = make([]float32, n)
	}
	for i := 0; i < n; i++ {
		if floats.Norm(values[i]) > 0 {
			m.Values[i][i] = 1
		}
		for j := i + 1; j < n; j++ {
			sim := clamp(Cosine(values[i], values[j]), -1, 1)
			m.Values[i][j] = sim
			m.Values[j][i] = sim
		}
	}
	log.Logger().Info("computed similarity matrix", zap.Int("dimension", n))
	return m
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Dim returns the dimension of the matrix.
func (m *Matrix) Dim() int {
	return len(m.Values)
}

// Row returns the similarity row of index i.
func (m *Matrix) Row(i int) []float32 {
	return m.Values[i]
}

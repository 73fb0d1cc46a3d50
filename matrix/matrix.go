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

package matrix

import (
	"go.uber.org/zap"

	"github.com/booklore-io/booklore/base/log"
	"github.com/booklore-io/booklore/config"
	"github.com/booklore-io/booklore/dataset"
)

// InteractionMatrix is the dense title-by-user rating matrix. Row and column
// indices are first-seen order over the filtered events and never change
// after Build, so they double as positions into the similarity matrix.
// An unrated cell holds 0, which is indistinguishable from a true rating of
// zero. This is a known limitation of the source data.
type InteractionMatrix struct {
	Titles *dataset.FreqDict[string]
	Users  *dataset.FreqDict[int]
	Values [][]float32
}

// Build filters events by activity thresholds and pivots them. The filters
// run in order: first users with at least MinUserRatings events, then, among
// the survivors, titles with at least MinBookRatings events. The second count
// is conditioned on the first pass.
//
// A duplicate (title, user) pair keeps the last rating seen.
func Build(events []dataset.RatingEvent, cfg config.MatrixConfig) *InteractionMatrix {
	// Pass 1: active users.
	userCounts := make(map[int]int)
	for _, event := range events {
		userCounts[event.UserId]++
	}
	activeEvents := make([]dataset.RatingEvent, 0, len(events))
	for _, event := range events {
		if userCounts[event.UserId] >= cfg.MinUserRatings {
			activeEvents = append(activeEvents, event)
		}
	}
	// Pass 2: popular titles among the survivors.
	titleCounts := make(map[string]int)
	for _, event := range activeEvents {
		titleCounts[event.Title]++
	}
	filtered := make([]dataset.RatingEvent, 0, len(activeEvents))
	for _, event := range activeEvents {
		if titleCounts[event.Title] >= cfg.MinBookRatings {
			filtered = append(filtered, event)
		}
	}
	// Pivot.
	m := &InteractionMatrix{
		Titles: dataset.NewFreqDict[string](),
		Users:  dataset.NewFreqDict[int](),
	}
	for _, event := range filtered {
		m.Titles.Add(event.Title)
		m.Users.Add(event.UserId)
	}
	m.Values = make([][]float32, m.Titles.Count())
	for i := range m.Values {
		m.Values[i] = make([]float32, m.Users.Count())
	}
	for _, event := range filtered {
		i := m.Titles.Id(event.Title)
		j := m.Users.Id(event.UserId)
		m.Values[i][j] = float32(event.Rating)
	}
	log.Logger().Info("built interaction matrix",
		zap.Int("events", len(events)),
		zap.Int("filtered_events", len(filtered)),
		zap.Int("titles", m.Titles.Count()),
		zap.Int("users", m.Users.Count()))
	return m
}

// NumTitles returns the number of rows.
func (m *InteractionMatrix) NumTitles() int {
	return m.Titles.Count()
}

// NumUsers returns the number of columns.
func (m *InteractionMatrix) NumUsers() int {
	return m.Users.Count()
}

// TitleVector returns the rating vector of row i over all users.
func (m *InteractionMatrix) TitleVector(i int) []float32 {
	return m.Values[i]
}

// UserValues returns the transposed matrix: one row per user over all titles.
func (m *InteractionMatrix) UserValues() [][]float32 {
	transposed := make([][]float32, m.Users.Count())
	for j := range transposed {
		transposed[j] = make([]float32, m.Titles.Count())
		for i := range m.Values {
			transposed[j][i] = m.Values[i][j]
		}
	}
	return transposed
}

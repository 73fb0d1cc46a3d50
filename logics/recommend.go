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

package logics

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/booklore-io/booklore/base/log"
	"github.com/booklore-io/booklore/config"
	"github.com/booklore-io/booklore/dataset"
	"github.com/booklore-io/booklore/matrix"
	"github.com/booklore-io/booklore/similarity"
)

// Recommendation is one ranked result. The caller only sees display
// metadata, never indices or scores.
type Recommendation struct {
	Title    string
	Author   string
	ImageRef string
}

// Result is a tagged query outcome: either a ranked list or a reason why
// there is none. A lookup miss is a normal outcome, not an error.
type Result struct {
	Found  bool
	Reason string
	Items  []Recommendation
}

func Found(items []Recommendation) Result {
	return Result{Found: true, Items: items}
}

func NotFound(reason string) Result {
	return Result{Reason: reason}
}

// Recommender serves top-N queries against an immutable snapshot of the
// interaction matrix, the similarity matrices and the catalog. It owns none
// of them and never mutates them, so concurrent queries need no locking.
type Recommender struct {
	cfg      config.RecommendConfig
	matrix   *matrix.InteractionMatrix
	titleSim *similarity.Matrix
	userSim  *similarity.Matrix
	catalog  map[string]dataset.CatalogEntry
}

func NewRecommender(m *matrix.InteractionMatrix, titleSim, userSim *similarity.Matrix,
	catalog []dataset.CatalogEntry, cfg config.RecommendConfig) *Recommender {
	index := make(map[string]dataset.CatalogEntry, len(catalog))
	for _, entry := range catalog {
		if _, exist := index[entry.Title]; !exist {
			index[entry.Title] = entry
		}
	}
	return &Recommender{
		cfg:      cfg,
		matrix:   m,
		titleSim: titleSim,
		userSim:  userSim,
		catalog:  index,
	}
}

// BuildCatalog extracts display metadata from the filtered events, keeping
// the first row seen per title.
func BuildCatalog(events []dataset.RatingEvent) []dataset.CatalogEntry {
	seen := mapset.NewSet[string]()
	var catalog []dataset.CatalogEntry
	for _, event := range events {
		if seen.Add(event.Title) {
			catalog = append(catalog, dataset.CatalogEntry{
				Title:    event.Title,
				Author:   event.Author,
				ImageRef: event.ImageRef,
			})
		}
	}
	return catalog
}

type scored struct {
	index int
	score float32
}

// sortScored orders by descending score with ties broken by ascending index,
// which keeps results deterministic.
func sortScored(candidates []scored) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].index < candidates[j].index
	})
}

func (r *Recommender) resolve(candidates []scored) ([]Recommendation, error) {
	items := make([]Recommendation, 0, len(candidates))
	for _, candidate := range candidates {
		title, _ := r.matrix.Titles.Key(candidate.index)
		entry, exist := r.catalog[title]
		if !exist {
			// The similarity matrix and the catalog were built from
			// different snapshots. Refuse to answer from stale artifacts.
			return nil, errors.Errorf("title %q missing from catalog", title)
		}
		items = append(items, Recommendation{
			Title:    entry.Title,
			Author:   entry.Author,
			ImageRef: entry.ImageRef,
		})
	}
	return items, nil
}

// RecommendByTitle ranks the topN books most similar to the query title.
// A title absent from the filtered matrix yields a NotFound result.
func (r *Recommender) RecommendByTitle(title string, topN int) (Result, error) {
	self := r.matrix.Titles.Id(title)
	if self < 0 || self >= r.titleSim.Dim() {
		return NotFound("book not found in dataset"), nil
	}
	row := r.titleSim.Row(self)
	candidates := make([]scored, 0, len(row))
	for i, score := range row {
		// Skip the query itself by index, not by sort position: another
		// book with identical ratings also scores 1.0 and must survive.
		if i == self {
			continue
		}
		candidates = append(candidates, scored{index: i, score: score})
	}
	sortScored(candidates)
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	items, err := r.resolve(candidates)
	if err != nil {
		return Result{}, errors.Trace(err)
	}
	log.Logger().Debug("recommended by title",
		zap.String("title", title), zap.Int("count", len(items)))
	return Found(items), nil
}

// RecommendByUser recommends books rated by the most similar users that the
// query user has not rated yet. The item score is the plain sum of neighbor
// ratings, not weighted by similarity. The result is truncated to the
// neighbor count rather than the requested topN, mirroring the behavior the
// serving layer has always had.
func (r *Recommender) RecommendByUser(userId int) (Result, error) {
	self := r.matrix.Users.Id(userId)
	if self < 0 || self >= r.userSim.Dim() {
		return NotFound("user not found in dataset"), nil
	}
	// Top similar users, excluding self.
	row := r.userSim.Row(self)
	neighbors := make([]scored, 0, len(row))
	for j, score := range row {
		if j == self {
			continue
		}
		neighbors = append(neighbors, scored{index: j, score: score})
	}
	sortScored(neighbors)
	if len(neighbors) > r.cfg.NumNeighbors {
		neighbors = neighbors[:r.cfg.NumNeighbors]
	}
	// Books the query user already rated are excluded.
	rated := mapset.NewSet[int]()
	for i := 0; i < r.matrix.NumTitles(); i++ {
		if r.matrix.Values[i][self] > 0 {
			rated.Add(i)
		}
	}
	// Accumulate neighbor ratings per unseen book.
	scores := make(map[int]float32)
	for _, neighbor := range neighbors {
		for i := 0; i < r.matrix.NumTitles(); i++ {
			rating := r.matrix.Values[i][neighbor.index]
			if rating > 0 && !rated.Contains(i) {
				scores[i] += rating
			}
		}
	}
	candidates := lo.MapToSlice(scores, func(index int, score float32) scored {
		return scored{index: index, score: score}
	})
	sortScored(candidates)
	if len(candidates) > r.cfg.NumNeighbors {
		candidates = candidates[:r.cfg.NumNeighbors]
	}
	items, err := r.resolve(candidates)
	if err != nil {
		return Result{}, errors.Trace(err)
	}
	log.Logger().Debug("recommended by user",
		zap.Int("user_id", userId), zap.Int("count", len(items)))
	return Found(items), nil
}

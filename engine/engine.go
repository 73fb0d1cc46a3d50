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

// Package engine assembles the pipeline stages into a serving snapshot and
// moves snapshots in and out of the artifact store. A snapshot is immutable
// once built; rebuilding the pipeline replaces it wholesale.
package engine

import (
	"github.com/juju/errors"

	"github.com/booklore-io/booklore/config"
	"github.com/booklore-io/booklore/dataset"
	"github.com/booklore-io/booklore/logics"
	"github.com/booklore-io/booklore/matrix"
	"github.com/booklore-io/booklore/similarity"
	"github.com/booklore-io/booklore/storage/blob"
)

// Artifact keys. The pipeline writes them, the query path reads them; both
// sides must agree or the integrity check in the recommender fires.
const (
	CleanedEventsKey = "cleaned_events.gob"
	MatrixKey        = "interaction_matrix.gob"
	TitleScoresKey   = "similarity_scores.gob"
	UserScoresKey    = "user_similarity_scores.gob"
	CatalogKey       = "catalog.gob"
	TopBooksKey      = "top_books.gob"
)

// Snapshot holds everything the serving path needs, all derived from one
// cleaned event set.
type Snapshot struct {
	Matrix   *matrix.InteractionMatrix
	TitleSim *similarity.Matrix
	UserSim  *similarity.Matrix
	Catalog  []dataset.CatalogEntry
	TopBooks []logics.TopBook
}

// Build derives a snapshot from cleaned events: activity filtering, pivot,
// both similarity matrices, the catalog and the leaderboard.
func Build(events []dataset.RatingEvent, conf *config.Config) *Snapshot {
	m := matrix.Build(events, conf.Matrix)
	return &Snapshot{
		Matrix:   m,
		TitleSim: similarity.Compute(m.Values),
		UserSim:  similarity.Compute(m.UserValues()),
		Catalog:  logics.BuildCatalog(events),
		TopBooks: logics.TopBooks(events, conf.Recommend.NumTopBooks),
	}
}

// Save persists every snapshot artifact under its key.
func (s *Snapshot) Save(store *blob.POSIX) error {
	if err := blob.SaveObject(store, MatrixKey, s.Matrix); err != nil {
		return errors.Trace(err)
	}
	if err := blob.SaveObject(store, TitleScoresKey, s.TitleSim); err != nil {
		return errors.Trace(err)
	}
	if err := blob.SaveObject(store, UserScoresKey, s.UserSim); err != nil {
		return errors.Trace(err)
	}
	if err := blob.SaveObject(store, CatalogKey, s.Catalog); err != nil {
		return errors.Trace(err)
	}
	if err := blob.SaveObject(store, TopBooksKey, s.TopBooks); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// Load reconstructs a snapshot from the artifact store.
func Load(store *blob.POSIX) (*Snapshot, error) {
	s := &Snapshot{}
	if err := blob.LoadObject(store, MatrixKey, &s.Matrix); err != nil {
		return nil, errors.Trace(err)
	}
	if err := blob.LoadObject(store, TitleScoresKey, &s.TitleSim); err != nil {
		return nil, errors.Trace(err)
	}
	if err := blob.LoadObject(store, UserScoresKey, &s.UserSim); err != nil {
		return nil, errors.Trace(err)
	}
	if err := blob.LoadObject(store, CatalogKey, &s.Catalog); err != nil {
		return nil, errors.Trace(err)
	}
	if err := blob.LoadObject(store, TopBooksKey, &s.TopBooks); err != nil {
		return nil, errors.Trace(err)
	}
	return s, nil
}

// Recommender builds the query-time view over the snapshot.
func (s *Snapshot) Recommender(cfg config.RecommendConfig) *logics.Recommender {
	return logics.NewRecommender(s.Matrix, s.TitleSim, s.UserSim, s.Catalog, cfg)
}

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

	"github.com/booklore-io/booklore/dataset"
)

// TopBook is one entry of the curated leaderboard.
type TopBook struct {
	Title      string
	Author     string
	ImageRef   string
	NumRatings int
	MeanRating float32
}

// TopBooks builds the non-personalized leaderboard: the n most-rated books,
// ties broken by higher mean rating, then first-seen order. Only positive
// ratings contribute to the mean since a zero is indistinguishable from an
// implicit interaction.
func TopBooks(events []dataset.RatingEvent, n int) []TopBook {
	titles := dataset.NewFreqDict[string]()
	var books []TopBook
	sums := make([]float32, 0)
	counts := make([]int, 0)
	for _, event := range events {
		index := titles.Add(event.Title)
		if index == len(books) {
			books = append(books, TopBook{
				Title:    event.Title,
				Author:   event.Author,
				ImageRef: event.ImageRef,
			})
			sums = append(sums, 0)
			counts = append(counts, 0)
		}
		books[index].NumRatings++
		if event.Rating > 0 {
			sums[index] += float32(event.Rating)
			counts[index]++
		}
	}
	for i := range books {
		if counts[i] > 0 {
			books[i].MeanRating = sums[i] / float32(counts[i])
		}
	}
	order := make([]int, len(books))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		x, y := books[order[a]], books[order[b]]
		if x.NumRatings != y.NumRatings {
			return x.NumRatings > y.NumRatings
		}
		if x.MeanRating != y.MeanRating {
			return x.MeanRating > y.MeanRating
		}
		return order[a] < order[b]
	})
	if len(order) > n {
		order = order[:n]
	}
	top := make([]TopBook, 0, len(order))
	for _, index := range order {
		top = append(top, books[index])
	}
	return top
}

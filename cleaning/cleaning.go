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

// Package cleaning turns raw book, rating and user records into a unified
// rating-event table. Every function returns a new snapshot and never mutates
// its input, so stages compose and test in isolation.
package cleaning

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/booklore-io/booklore/base/log"
	"github.com/booklore-io/booklore/dataset"
)

const (
	minPubYear = 1800
	maxPubYear = 2025
	minAge     = 5
	maxAge     = 100
)

// CleanedBook is a book record after year coercion.
type CleanedBook struct {
	ISBN     string
	Title    string
	Author   string
	PubYear  int
	ImageRef string
}

// CleanedUser is a user record after location splitting.
type CleanedUser struct {
	UserId  int
	City    string
	State   string
	Country string
	Age     float32
}

// SplitLocation splits a free-text "city, state, country" string. Two parts
// become (city, "", country), one part becomes (city, "", ""). A state of
// "n/a" is normalized to empty.
func SplitLocation(location string) (city, state, country string) {
	parts := strings.Split(location, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	switch len(parts) {
	case 1:
		city = parts[0]
	case 2:
		city, country = parts[0], parts[1]
	case 3:
		city, state, country = parts[0], parts[1], parts[2]
	default:
		// 4+ parts are unparseable, all fields stay empty
	}
	if strings.EqualFold(state, "n/a") {
		state = ""
	}
	return
}

// CleanUsers splits the location field of every user record.
func CleanUsers(users []dataset.User) []CleanedUser {
	cleaned := make([]CleanedUser, 0, len(users))
	for _, user := range users {
		city, state, country := SplitLocation(user.Location)
		cleaned = append(cleaned, CleanedUser{
			UserId:  user.UserId,
			City:    city,
			State:   state,
			Country: country,
			Age:     user.Age,
		})
	}
	return cleaned
}

// CleanBooks coerces publication years to numbers. Years outside
// [1800, 2025] count as missing and are filled with the median of the valid
// years. Missing textual fields stay empty strings, which is the blanket
// fill policy for the tiny number of null entries in the source.
func CleanBooks(books []dataset.Book) []CleanedBook {
	years := make([]float64, len(books))
	valid := make([]float64, 0, len(books))
	for i, book := range books {
		year, err := strconv.ParseFloat(strings.TrimSpace(book.Year), 64)
		if err != nil || year < minPubYear || year > maxPubYear {
			years[i] = math.NaN()
			continue
		}
		years[i] = year
		valid = append(valid, year)
	}
	medianYear := median(valid)
	cleaned := make([]CleanedBook, 0, len(books))
	for i, book := range books {
		year := years[i]
		if math.IsNaN(year) {
			year = medianYear
		}
		cleaned = append(cleaned, CleanedBook{
			ISBN:     book.ISBN,
			Title:    book.Title,
			Author:   book.Author,
			PubYear:  int(year),
			ImageRef: book.ImageURL,
		})
	}
	return cleaned
}

// Merge inner-joins ratings with books on ISBN, then with users on user id.
// Rows without a match on either join are dropped, not errored.
func Merge(books []CleanedBook, ratings []dataset.Rating, users []CleanedUser) []dataset.RatingEvent {
	bookIndex := make(map[string]CleanedBook, len(books))
	for _, book := range books {
		if _, exist := bookIndex[book.ISBN]; !exist {
			bookIndex[book.ISBN] = book
		}
	}
	userIndex := make(map[int]CleanedUser, len(users))
	for _, user := range users {
		if _, exist := userIndex[user.UserId]; !exist {
			userIndex[user.UserId] = user
		}
	}
	events := make([]dataset.RatingEvent, 0, len(ratings))
	for _, rating := range ratings {
		book, exist := bookIndex[rating.ISBN]
		if !exist {
			continue
		}
		user, exist := userIndex[rating.UserId]
		if !exist {
			continue
		}
		events = append(events, dataset.RatingEvent{
			UserId:   rating.UserId,
			ISBN:     rating.ISBN,
			Title:    book.Title,
			Author:   book.Author,
			Rating:   rating.Rating,
			ImageRef: book.ImageRef,
			PubYear:  book.PubYear,
			Age:      user.Age,
			City:     user.City,
			State:    user.State,
			Country:  user.Country,
		})
	}
	log.Logger().Info("merged datasets",
		zap.Int("ratings", len(ratings)),
		zap.Int("events", len(events)))
	return events
}

// ImputeAges treats ages outside [5, 100] as missing and fills them by the
// median age of the row's rating group, then the row's publication-year
// group, then the global median. A final pass fills anything still missing
// with the global median, covering groups that have no valid age at all.
func ImputeAges(events []dataset.RatingEvent) []dataset.RatingEvent {
	imputed := make([]dataset.RatingEvent, len(events))
	copy(imputed, events)
	for i := range imputed {
		if age := imputed[i].Age; !math32.IsNaN(age) && (age < minAge || age > maxAge) {
			imputed[i].Age = math32.NaN()
		}
	}
	ratingAges := make(map[int][]float64)
	yearAges := make(map[int][]float64)
	var allAges []float64
	for _, event := range imputed {
		if math32.IsNaN(event.Age) {
			continue
		}
		age := float64(event.Age)
		ratingAges[event.Rating] = append(ratingAges[event.Rating], age)
		yearAges[event.PubYear] = append(yearAges[event.PubYear], age)
		allAges = append(allAges, age)
	}
	ratingMedians := make(map[int]float64, len(ratingAges))
	for rating, ages := range ratingAges {
		ratingMedians[rating] = median(ages)
	}
	yearMedians := make(map[int]float64, len(yearAges))
	for year, ages := range yearAges {
		yearMedians[year] = median(ages)
	}
	globalMedian := median(allAges)
	for i := range imputed {
		if !math32.IsNaN(imputed[i].Age) {
			continue
		}
		if m, exist := ratingMedians[imputed[i].Rating]; exist && !math.IsNaN(m) {
			imputed[i].Age = float32(m)
		} else if m, exist := yearMedians[imputed[i].PubYear]; exist && !math.IsNaN(m) {
			imputed[i].Age = float32(m)
		} else {
			imputed[i].Age = float32(globalMedian)
		}
	}
	// Final pass: the global median itself may be undefined when no row
	// carries a valid age.
	for i := range imputed {
		if math32.IsNaN(imputed[i].Age) {
			imputed[i].Age = float32(globalMedian)
		}
	}
	return imputed
}

// Clean runs the whole cleaning stage and returns the unified rating-event
// table.
func Clean(books []dataset.Book, ratings []dataset.Rating, users []dataset.User) []dataset.RatingEvent {
	cleanedBooks := CleanBooks(books)
	cleanedUsers := CleanUsers(users)
	events := Merge(cleanedBooks, ratings, cleanedUsers)
	return ImputeAges(events)
}

// median of xs, NaN for an empty slice. The result is invariant to the input
// order.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

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

package cleaning

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booklore-io/booklore/dataset"
)

func TestSplitLocation(t *testing.T) {
	cases := []struct {
		location string
		city     string
		state    string
		country  string
	}{
		{"nyc, new york, usa", "nyc", "new york", "usa"},
		{"stockholm, sweden", "stockholm", "", "sweden"},
		{"timbuktu", "timbuktu", "", ""},
		{"porto, n/a, portugal", "porto", "", "portugal"},
		{"porto, N/A, portugal", "porto", "", "portugal"},
		{"", "", "", ""},
		{" madrid ,  madrid ,  spain ", "madrid", "madrid", "spain"},
		// more than three parts is unparseable, every field stays empty
		{"brooklyn, new york, ny, usa", "", "", ""},
		{"a, b, c, d, e", "", "", ""},
	}
	for _, c := range cases {
		city, state, country := SplitLocation(c.location)
		assert.Equal(t, c.city, city, c.location)
		assert.Equal(t, c.state, state, c.location)
		assert.Equal(t, c.country, country, c.location)
	}
}

func TestCleanBooks(t *testing.T) {
	books := []dataset.Book{
		{ISBN: "1", Title: "A", Year: "1990"},
		{ISBN: "2", Title: "B", Year: "2000"},
		{ISBN: "3", Title: "C", Year: "2010"},
		{ISBN: "4", Title: "D", Year: "0"},         // out of range
		{ISBN: "5", Title: "E", Year: "3000"},      // out of range
		{ISBN: "6", Title: "F", Year: "not a year"},
	}
	cleaned := CleanBooks(books)
	require.Len(t, cleaned, 6)
	assert.Equal(t, 1990, cleaned[0].PubYear)
	// median of {1990, 2000, 2010} fills the invalid entries
	assert.Equal(t, 2000, cleaned[3].PubYear)
	assert.Equal(t, 2000, cleaned[4].PubYear)
	assert.Equal(t, 2000, cleaned[5].PubYear)
}

func TestCleanBooks_MedianOrderInvariant(t *testing.T) {
	forward := []dataset.Book{
		{ISBN: "1", Year: "1990"}, {ISBN: "2", Year: "2010"}, {ISBN: "3", Year: "9999"},
	}
	backward := []dataset.Book{
		{ISBN: "3", Year: "9999"}, {ISBN: "2", Year: "2010"}, {ISBN: "1", Year: "1990"},
	}
	// median of {1990, 2010} is 2000 either way
	assert.Equal(t, 2000, CleanBooks(forward)[2].PubYear)
	assert.Equal(t, 2000, CleanBooks(backward)[0].PubYear)
}

func TestMerge(t *testing.T) {
	books := []CleanedBook{
		{ISBN: "1", Title: "A", Author: "AA", PubYear: 1990, ImageRef: "http://a"},
	}
	users := []CleanedUser{
		{UserId: 10, City: "nyc", Country: "usa", Age: 30},
	}
	ratings := []dataset.Rating{
		{UserId: 10, ISBN: "1", Rating: 8},
		{UserId: 10, ISBN: "2", Rating: 9}, // unknown ISBN, dropped
		{UserId: 11, ISBN: "1", Rating: 7}, // unknown user, dropped
	}
	events := Merge(books, ratings, users)
	require.Len(t, events, 1)
	assert.Equal(t, dataset.RatingEvent{
		UserId:   10,
		ISBN:     "1",
		Title:    "A",
		Author:   "AA",
		Rating:   8,
		ImageRef: "http://a",
		PubYear:  1990,
		Age:      30,
		City:     "nyc",
		Country:  "usa",
	}, events[0])
}

func TestImputeAges_RatingGroupFirst(t *testing.T) {
	events := []dataset.RatingEvent{
		{Rating: 9, PubYear: 1990, Age: 30},
		{Rating: 9, PubYear: 1990, Age: 34},
		{Rating: 9, PubYear: 1990, Age: 38},
		{Rating: 5, PubYear: 1990, Age: 50},
		{Rating: 9, PubYear: 2000, Age: 999}, // out of range, imputed
	}
	imputed := ImputeAges(events)
	// rating=9 group median is 34, preferred over the year group
	assert.Equal(t, float32(34), imputed[4].Age)
	// the input snapshot is untouched
	assert.Equal(t, float32(999), events[4].Age)
}

func TestImputeAges_YearGroupFallback(t *testing.T) {
	events := []dataset.RatingEvent{
		{Rating: 9, PubYear: 1990, Age: 40},
		{Rating: 9, PubYear: 1990, Age: 44},
		{Rating: 3, PubYear: 1990, Age: 2}, // no valid age in rating=3 group
	}
	imputed := ImputeAges(events)
	// falls back to the 1990 year-group median
	assert.Equal(t, float32(42), imputed[2].Age)
}

func TestImputeAges_GlobalFallback(t *testing.T) {
	events := []dataset.RatingEvent{
		{Rating: 9, PubYear: 1990, Age: 20},
		{Rating: 9, PubYear: 1990, Age: 30},
		{Rating: 3, PubYear: 2000, Age: 200}, // neither group has a valid age
	}
	imputed := ImputeAges(events)
	assert.Equal(t, float32(25), imputed[2].Age)
}

func TestImputeAges_NoValidAges(t *testing.T) {
	events := []dataset.RatingEvent{
		{Rating: 9, PubYear: 1990, Age: 1},
		{Rating: 3, PubYear: 2000, Age: 200},
	}
	imputed := ImputeAges(events)
	// no age anywhere: stays undefined rather than inventing a value
	assert.True(t, math32.IsNaN(imputed[0].Age))
	assert.True(t, math32.IsNaN(imputed[1].Age))
}

func TestClean(t *testing.T) {
	books := []dataset.Book{
		{ISBN: "1", Title: "A", Author: "AA", Year: "1995", ImageURL: "http://a"},
	}
	ratings := []dataset.Rating{
		{UserId: 10, ISBN: "1", Rating: 8},
	}
	users := []dataset.User{
		{UserId: 10, Location: "nyc, new york, usa", Age: 35},
	}
	events := Clean(books, ratings, users)
	require.Len(t, events, 1)
	assert.Equal(t, "A", events[0].Title)
	assert.Equal(t, "new york", events[0].State)
	assert.Equal(t, float32(35), events[0].Age)
}

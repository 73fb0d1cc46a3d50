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

// Book is a raw record from the books source. Year is kept as the raw string
// since coercion and range checks happen during cleaning.
type Book struct {
	ISBN     string
	Title    string
	Author   string
	Year     string
	ImageURL string
}

// Rating is a raw record from the ratings source.
type Rating struct {
	UserId int
	ISBN   string
	Rating int
}

// User is a raw record from the users source. A missing age is NaN.
type User struct {
	UserId   int
	Location string
	Age      float32
}

// RatingEvent is one (user, book) rating after cleaning and merging.
// A missing age is NaN until imputation fills it.
type RatingEvent struct {
	UserId   int
	ISBN     string
	Title    string
	Author   string
	Rating   int
	ImageRef string
	PubYear  int
	Age      float32
	City     string
	State    string
	Country  string
}

// CatalogEntry carries the display metadata attached to ranked results.
type CatalogEntry struct {
	Title    string
	Author   string
	ImageRef string
}

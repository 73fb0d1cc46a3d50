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
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestLoadBooks(t *testing.T) {
	// 0xE9 is "é" in ISO-8859-1
	content := []byte("ISBN,Book-Title,Book-Author,Year-Of-Publication,Image-URL-M\n" +
		"0001,Les Mis\xe9rables,Victor Hugo,1862,http://images/0001.jpg\n" +
		"0002,Dune,Frank Herbert,1965,http://images/0002.jpg\n")
	path := writeTempCSV(t, "books.csv", content)
	books, err := LoadBooks(path)
	assert.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, Book{
		ISBN:     "0001",
		Title:    "Les Misérables",
		Author:   "Victor Hugo",
		Year:     "1862",
		ImageURL: "http://images/0001.jpg",
	}, books[0])
}

func TestLoadBooks_MissingColumn(t *testing.T) {
	path := writeTempCSV(t, "books.csv", []byte("ISBN,Book-Title\n0001,Dune\n"))
	_, err := LoadBooks(path)
	assert.Error(t, err)
}

func TestLoadBooks_MissingFile(t *testing.T) {
	_, err := LoadBooks(filepath.Join(t.TempDir(), "no_such.csv"))
	assert.Error(t, err)
}

func TestLoadRatings(t *testing.T) {
	path := writeTempCSV(t, "ratings.csv", []byte("User-ID,ISBN,Book-Rating\n276725,0001,5\n276726,0002,0\n"))
	ratings, err := LoadRatings(path)
	assert.NoError(t, err)
	assert.Equal(t, []Rating{
		{UserId: 276725, ISBN: "0001", Rating: 5},
		{UserId: 276726, ISBN: "0002", Rating: 0},
	}, ratings)
}

func TestLoadRatings_MalformedRating(t *testing.T) {
	path := writeTempCSV(t, "ratings.csv", []byte("User-ID,ISBN,Book-Rating\n276725,0001,five\n"))
	_, err := LoadRatings(path)
	assert.Error(t, err)
}

func TestLoadUsers(t *testing.T) {
	path := writeTempCSV(t, "users.csv", []byte("User-ID,Location,Age\n"+
		"1,\"nyc, new york, usa\",35\n"+
		"2,\"stockton, california, usa\",\n"))
	users, err := LoadUsers(path)
	assert.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, float32(35), users[0].Age)
	assert.True(t, math32.IsNaN(users[1].Age))
	assert.Equal(t, "nyc, new york, usa", users[0].Location)
}

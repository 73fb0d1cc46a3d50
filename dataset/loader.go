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
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/booklore-io/booklore/base/log"
)

// The raw sources are legacy single-byte encoded. Decoding through the
// charmap keeps byte fidelity for titles and author names.
func openCSV(path string) (*os.File, *csv.Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Annotatef(err, "failed to open %s", path)
	}
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(file))
	reader.LazyQuotes = true
	return file, reader, nil
}

func readHeader(reader *csv.Reader, path string, columns ...string) ([]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Annotatef(err, "failed to read header of %s", path)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	positions := make([]int, len(columns))
	for i, name := range columns {
		pos, exist := index[name]
		if !exist {
			return nil, errors.Errorf("column %q not found in %s", name, path)
		}
		positions[i] = pos
	}
	return positions, nil
}

// LoadBooks reads the books source. Loading is all-or-nothing: any unreadable
// row fails the whole file.
func LoadBooks(path string) ([]Book, error) {
	file, reader, err := openCSV(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	pos, err := readHeader(reader, path, "ISBN", "Book-Title", "Book-Author", "Year-Of-Publication", "Image-URL-M")
	if err != nil {
		return nil, errors.Trace(err)
	}
	var books []Book
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errors.Annotatef(err, "failed to read %s", path)
		}
		books = append(books, Book{
			ISBN:     row[pos[0]],
			Title:    row[pos[1]],
			Author:   row[pos[2]],
			Year:     row[pos[3]],
			ImageURL: row[pos[4]],
		})
	}
	log.Logger().Info("loaded books", zap.String("path", path), zap.Int("count", len(books)))
	return books, nil
}

// LoadRatings reads the ratings source.
func LoadRatings(path string) ([]Rating, error) {
	file, reader, err := openCSV(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	pos, err := readHeader(reader, path, "User-ID", "ISBN", "Book-Rating")
	if err != nil {
		return nil, errors.Trace(err)
	}
	var ratings []Rating
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errors.Annotatef(err, "failed to read %s", path)
		}
		userId, err := strconv.Atoi(row[pos[0]])
		if err != nil {
			return nil, errors.Annotatef(err, "malformed user id in %s", path)
		}
		rating, err := strconv.Atoi(row[pos[2]])
		if err != nil {
			return nil, errors.Annotatef(err, "malformed rating in %s", path)
		}
		ratings = append(ratings, Rating{
			UserId: userId,
			ISBN:   row[pos[1]],
			Rating: rating,
		})
	}
	log.Logger().Info("loaded ratings", zap.String("path", path), zap.Int("count", len(ratings)))
	return ratings, nil
}

// LoadUsers reads the users source. A blank or non-numeric age becomes NaN and
// is imputed later, the way the cleaning stage expects.
func LoadUsers(path string) ([]User, error) {
	file, reader, err := openCSV(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	pos, err := readHeader(reader, path, "User-ID", "Location", "Age")
	if err != nil {
		return nil, errors.Trace(err)
	}
	var users []User
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errors.Annotatef(err, "failed to read %s", path)
		}
		userId, err := strconv.Atoi(row[pos[0]])
		if err != nil {
			return nil, errors.Annotatef(err, "malformed user id in %s", path)
		}
		age := math32.NaN()
		if v, err := strconv.ParseFloat(row[pos[2]], 32); err == nil {
			age = float32(v)
		}
		users = append(users, User{
			UserId:   userId,
			Location: row[pos[1]],
			Age:      age,
		})
	}
	log.Logger().Info("loaded users", zap.String("path", path), zap.Int("count", len(users)))
	return users, nil
}

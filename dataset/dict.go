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
	"bytes"
	"encoding/gob"
)

// FreqDict maps keys to dense indices in first-seen order and counts how often
// each key has been added. The index order is the canonical position mapping
// between the interaction matrix and the similarity matrix.
type FreqDict[K comparable] struct {
	ki  map[K]int
	ik  []K
	cnt []int
}

func NewFreqDict[K comparable]() *FreqDict[K] {
	return &FreqDict[K]{ki: map[K]int{}}
}

func (d *FreqDict[K]) Count() int {
	return len(d.ik)
}

// Add returns the index of k, allocating the next index for an unseen key,
// and increments its frequency.
func (d *FreqDict[K]) Add(k K) (y int) {
	if y, ok := d.ki[k]; ok {
		d.cnt[y]++
		return y
	}

	y = len(d.ik)
	d.ki[k] = y
	d.ik = append(d.ik, k)
	d.cnt = append(d.cnt, 1)
	return
}

// Id returns the index of k without counting, or -1 for an unseen key.
func (d *FreqDict[K]) Id(k K) int {
	if y, ok := d.ki[k]; ok {
		return y
	}
	return -1
}

func (d *FreqDict[K]) Key(id int) (k K, ok bool) {
	if id < 0 || id >= len(d.ik) {
		return k, false
	}
	return d.ik[id], true
}

func (d *FreqDict[K]) Freq(id int) int {
	if id < 0 || id >= len(d.cnt) {
		return 0
	}
	return d.cnt[id]
}

// Keys returns all keys in index order. The returned slice is shared with the
// dictionary and must not be mutated.
func (d *FreqDict[K]) Keys() []K {
	return d.ik
}

// GobEncode serializes the keys and frequencies; the key-to-index map is
// rebuilt on decode.
func (d *FreqDict[K]) GobEncode() ([]byte, error) {
	var buffer bytes.Buffer
	encoder := gob.NewEncoder(&buffer)
	if err := encoder.Encode(d.ik); err != nil {
		return nil, err
	}
	if err := encoder.Encode(d.cnt); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func (d *FreqDict[K]) GobDecode(data []byte) error {
	decoder := gob.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&d.ik); err != nil {
		return err
	}
	if err := decoder.Decode(&d.cnt); err != nil {
		return err
	}
	d.ki = make(map[K]int, len(d.ik))
	for i, k := range d.ik {
		d.ki[k] = i
	}
	return nil
}

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

package blob

import (
	"encoding/gob"

	"github.com/juju/errors"
)

// SaveObject gob-encodes an object into the store under a key.
func SaveObject(store *POSIX, name string, object any) error {
	w, done, err := store.Create(name)
	if err != nil {
		return errors.Annotatef(err, "failed to create artifact %s", name)
	}
	if err = gob.NewEncoder(w).Encode(object); err != nil {
		_ = w.Close()
		return errors.Annotatef(err, "failed to encode artifact %s", name)
	}
	if err = w.Close(); err != nil {
		return errors.Trace(err)
	}
	<-done
	return nil
}

// LoadObject decodes the object stored under a key.
func LoadObject(store *POSIX, name string, object any) error {
	r, err := store.Open(name)
	if err != nil {
		return errors.Annotatef(err, "failed to open artifact %s", name)
	}
	defer r.Close()
	if err = gob.NewDecoder(r).Decode(object); err != nil {
		return errors.Annotatef(err, "failed to decode artifact %s", name)
	}
	return nil
}

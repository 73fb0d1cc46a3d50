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

package config

import (
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for the pipeline. It is passed by value into
// each stage, there is no process-wide configuration state.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Matrix    MatrixConfig    `mapstructure:"matrix"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
}

// DataConfig locates the raw tabular sources.
type DataConfig struct {
	BooksPath   string `mapstructure:"books_path"`
	RatingsPath string `mapstructure:"ratings_path"`
	UsersPath   string `mapstructure:"users_path"`
}

// MatrixConfig holds the activity thresholds for the interaction matrix.
type MatrixConfig struct {
	// MinUserRatings is the minimum number of ratings a user must have.
	MinUserRatings int `mapstructure:"min_user_ratings"`
	// MinBookRatings is the minimum number of ratings a book must have,
	// counted among the surviving users.
	MinBookRatings int `mapstructure:"min_book_ratings"`
}

// RecommendConfig holds the ranking parameters.
type RecommendConfig struct {
	// TopN is the default number of results for title queries.
	TopN int `mapstructure:"top_n"`
	// NumNeighbors is the number of similar users consulted by the
	// user-based path.
	NumNeighbors int `mapstructure:"num_neighbors"`
	// NumTopBooks is the length of the curated leaderboard.
	NumTopBooks int `mapstructure:"num_top_books"`
}

// ArtifactsConfig locates the artifact store.
type ArtifactsConfig struct {
	Dir string `mapstructure:"dir"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			BooksPath:   "data/Books.csv",
			RatingsPath: "data/Ratings.csv",
			UsersPath:   "data/Users.csv",
		},
		Matrix: MatrixConfig{
			MinUserRatings: 200,
			MinBookRatings: 50,
		},
		Recommend: RecommendConfig{
			TopN:         5,
			NumNeighbors: 5,
			NumTopBooks:  60,
		},
		Artifacts: ArtifactsConfig{
			Dir: "artifacts",
		},
	}
}

func setDefault() {
	defaults := GetDefaultConfig()
	viper.SetDefault("data.books_path", defaults.Data.BooksPath)
	viper.SetDefault("data.ratings_path", defaults.Data.RatingsPath)
	viper.SetDefault("data.users_path", defaults.Data.UsersPath)
	viper.SetDefault("matrix.min_user_ratings", defaults.Matrix.MinUserRatings)
	viper.SetDefault("matrix.min_book_ratings", defaults.Matrix.MinBookRatings)
	viper.SetDefault("recommend.top_n", defaults.Recommend.TopN)
	viper.SetDefault("recommend.num_neighbors", defaults.Recommend.NumNeighbors)
	viper.SetDefault("recommend.num_top_books", defaults.Recommend.NumTopBooks)
	viper.SetDefault("artifacts.dir", defaults.Artifacts.Dir)
}

// LoadConfig loads the configuration from a TOML file. Environment variables
// prefixed with BOOKLORE_ override file values.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	viper.SetConfigType("toml")
	viper.SetConfigFile(path)
	viper.SetEnvPrefix("booklore")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Annotatef(err, "failed to read config %s", path)
	}
	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

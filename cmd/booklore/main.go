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

package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/booklore-io/booklore/base/log"
	"github.com/booklore-io/booklore/cleaning"
	"github.com/booklore-io/booklore/cmd/version"
	"github.com/booklore-io/booklore/config"
	"github.com/booklore-io/booklore/dataset"
	"github.com/booklore-io/booklore/engine"
	"github.com/booklore-io/booklore/logics"
	"github.com/booklore-io/booklore/storage/blob"
)

var rootCommand = &cobra.Command{
	Use:   "booklore",
	Short: "Book recommendation engine.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debugMode, _ := cmd.Flags().GetBool("debug")
		log.SetLogger(cmd.Flags(), debugMode)
	},
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print the version of booklore.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.BuildInfo())
	},
}

var pipelineCommand = &cobra.Command{
	Use:   "pipeline",
	Short: "Clean the raw sources and rebuild all artifacts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return errors.Trace(err)
		}
		books, err := dataset.LoadBooks(conf.Data.BooksPath)
		if err != nil {
			return errors.Trace(err)
		}
		ratings, err := dataset.LoadRatings(conf.Data.RatingsPath)
		if err != nil {
			return errors.Trace(err)
		}
		users, err := dataset.LoadUsers(conf.Data.UsersPath)
		if err != nil {
			return errors.Trace(err)
		}
		events := cleaning.Clean(books, ratings, users)
		store := blob.NewPOSIX(conf.Artifacts.Dir)
		if err = blob.SaveObject(store, engine.CleanedEventsKey, events); err != nil {
			return errors.Trace(err)
		}
		if exportPath, _ := cmd.Flags().GetString("export-csv"); exportPath != "" {
			if err = exportCSV(exportPath, events); err != nil {
				return errors.Trace(err)
			}
		}
		snapshot := engine.Build(events, conf)
		if err = snapshot.Save(store); err != nil {
			return errors.Trace(err)
		}
		log.Logger().Info("pipeline finished",
			zap.Int("events", len(events)),
			zap.String("artifacts", conf.Artifacts.Dir))
		return nil
	},
}

var recommendCommand = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend books by title or by user id.",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return errors.Trace(err)
		}
		snapshot, err := engine.Load(blob.NewPOSIX(conf.Artifacts.Dir))
		if err != nil {
			return errors.Trace(err)
		}
		recommender := snapshot.Recommender(conf.Recommend)
		var result logics.Result
		title, _ := cmd.Flags().GetString("title")
		user, _ := cmd.Flags().GetString("user")
		switch {
		case title != "":
			topN, _ := cmd.Flags().GetInt("top-n")
			if topN <= 0 {
				topN = conf.Recommend.TopN
			}
			result, err = recommender.RecommendByTitle(title, topN)
		case user != "":
			userId, parseErr := strconv.Atoi(user)
			if parseErr != nil {
				return errors.Annotate(parseErr, "user id must be an integer")
			}
			result, err = recommender.RecommendByUser(userId)
		default:
			return errors.New("either --title or --user is required")
		}
		if err != nil {
			return errors.Trace(err)
		}
		printResult(result)
		return nil
	},
}

var topCommand = &cobra.Command{
	Use:   "top",
	Short: "Print the curated list of the most rated books.",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return errors.Trace(err)
		}
		store := blob.NewPOSIX(conf.Artifacts.Dir)
		var topBooks []logics.TopBook
		if err = blob.LoadObject(store, engine.TopBooksKey, &topBooks); err != nil {
			return errors.Trace(err)
		}
		n, _ := cmd.Flags().GetInt("n")
		if n > 0 && n < len(topBooks) {
			topBooks = topBooks[:n]
		}
		for i, book := range topBooks {
			fmt.Printf("%3d. %s by %s (%d ratings, mean %.2f)\n",
				i+1, book.Title, book.Author, book.NumRatings, book.MeanRating)
		}
		return nil
	},
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		return config.GetDefaultConfig(), nil
	}
	return config.LoadConfig(configPath)
}

func printResult(result logics.Result) {
	if !result.Found {
		fmt.Println(result.Reason)
		return
	}
	if len(result.Items) == 0 {
		fmt.Println("no recommendation")
		return
	}
	for i, item := range result.Items {
		fmt.Printf("%d. %s by %s (%s)\n", i+1, item.Title, item.Author, item.ImageRef)
	}
}

func exportCSV(path string, events []dataset.RatingEvent) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Annotatef(err, "failed to create %s", path)
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	header := []string{"User-ID", "ISBN", "Book-Title", "Book-Author", "Book-Rating",
		"Image-URL-M", "Year-Of-Publication", "Age", "City", "State", "Country"}
	if err = writer.Write(header); err != nil {
		return errors.Trace(err)
	}
	bar := progressbar.Default(int64(len(events)), "export cleaned data")
	for _, event := range events {
		row := []string{
			strconv.Itoa(event.UserId),
			event.ISBN,
			event.Title,
			event.Author,
			strconv.Itoa(event.Rating),
			event.ImageRef,
			strconv.Itoa(event.PubYear),
			strconv.FormatFloat(float64(event.Age), 'f', -1, 32),
			event.City,
			event.State,
			event.Country,
		}
		if err = writer.Write(row); err != nil {
			return errors.Trace(err)
		}
		_ = bar.Add(1)
	}
	writer.Flush()
	return errors.Trace(writer.Error())
}

func init() {
	rootCommand.AddCommand(versionCommand)
	rootCommand.AddCommand(pipelineCommand)
	rootCommand.AddCommand(recommendCommand)
	rootCommand.AddCommand(topCommand)
	rootCommand.PersistentFlags().String("config", "", "path of configuration file")
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	log.AddFlags(rootCommand.PersistentFlags())
	pipelineCommand.Flags().String("export-csv", "", "also export the cleaned data as CSV")
	recommendCommand.Flags().String("title", "", "recommend books similar to this title")
	recommendCommand.Flags().String("user", "", "recommend books for this user id")
	recommendCommand.Flags().Int("top-n", 0, "number of results for title queries")
	topCommand.Flags().Int("n", 0, "number of books to print")
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AlphaReposi/YTVV/app"
	"github.com/AlphaReposi/YTVV/models"
	"github.com/AlphaReposi/YTVV/similarity"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <title>",
	Short: "Print top YouTube results for a title",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
		urls, err := a.Searcher.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		for _, u := range urls {
			fmt.Fprintln(cmd.OutOrStdout(), u)
		}
		return nil
	}),
}

var metadataCmd = &cobra.Command{
	Use:   "metadata <url-or-id>",
	Short: "Print metadata for a video as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
		m, err := a.Metadata.Fetch(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}),
}

var titlesCmd = &cobra.Command{
	Use:   "titles <title>",
	Short: "Print rephrased title suggestions",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
		titles, err := a.Titles.Generate(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		for _, t := range titles {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	}),
}

var similarityCmd = &cobra.Command{
	Use:   "similarity <text1> <text2>",
	Short: "Score the similarity of two texts from 0 to 100",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
		score, err := similarity.Compare(cmd.Context(), a.Scorer,
			models.VideoText{Title: args[0]}, models.VideoText{Title: args[1]})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.2f\n", score)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(searchCmd, metadataCmd, titlesCmd, similarityCmd)
}

// withApp loads config, builds the App for one command and closes it afterwards.
func withApp(fn func(cmd *cobra.Command, a *app.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("startup: %w", err)
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

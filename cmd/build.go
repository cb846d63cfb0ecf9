package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zpam/nbeval/pkg/corpus"
	"github.com/zpam/nbeval/pkg/learning"
	"github.com/zpam/nbeval/pkg/report"
)

var tfCmd = &cobra.Command{
	Use:   "tf [train-file]",
	Short: "Build the term frequency table",
	Long: `Count every occurrence of every term per class in the training file,
save the table as tf and print the most frequent terms of each class.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return s.runBuild(ctx, args[0], learning.TermFrequency)
		})
	},
}

var dfCmd = &cobra.Command{
	Use:   "df [train-file]",
	Short: "Build the document frequency table",
	Long: `Count, per class, the number of training documents containing each term,
save the table as df and print the most frequent terms of each class.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return s.runBuild(ctx, args[0], learning.DocumentFrequency)
		})
	},
}

// withSession opens a session, runs fn and always finishes the session
func withSession(cmd *cobra.Command, fn func(context.Context, *session) error) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.finish()

	return fn(commandContext(cmd), s)
}

func tableName(mode learning.Mode) string {
	if mode == learning.DocumentFrequency {
		return learning.DocumentFrequencyTable
	}
	return learning.TermFrequencyTable
}

func (s *session) runBuild(ctx context.Context, trainPath string, mode learning.Mode) error {
	name := tableName(mode)
	table, err := s.buildTable(ctx, trainPath, mode, s.cfg.TermFilter(), name)
	if err != nil {
		return err
	}

	s.debugf("💾 Saved %s table (%d terms)\n", name, table.Len())
	for _, c := range corpus.Classes {
		report.TopTerms(s.out, table, c, s.cfg.Reporting.TopK)
	}
	return nil
}

var (
	topClass int
	topK     int
)

var topCmd = &cobra.Command{
	Use:   "top [tf|df]",
	Short: "Show the most frequent terms of a saved table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		class := corpus.Class(topClass)
		if !class.Valid() {
			return fmt.Errorf("--class must be 1 or -1, got %d", topClass)
		}

		return withSession(cmd, func(ctx context.Context, s *session) error {
			table, err := s.store.Load(ctx, args[0])
			if err != nil {
				return err
			}

			k := topK
			if k <= 0 {
				k = s.cfg.Reporting.TopK
			}
			report.TopTerms(s.out, table, class, k)
			return nil
		})
	},
}

func init() {
	topCmd.Flags().IntVar(&topClass, "class", 1, "Class to report (1 or -1)")
	topCmd.Flags().IntVarP(&topK, "count", "k", 0, "Number of terms (default from config)")
}

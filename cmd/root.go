package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zpam/nbeval/pkg/config"
	"github.com/zpam/nbeval/pkg/corpus"
	"github.com/zpam/nbeval/pkg/learning"
	"github.com/zpam/nbeval/pkg/profiler"
	"github.com/zpam/nbeval/pkg/report"
)

var (
	rootConfig  string
	rootTables  string
	rootProfile bool
	rootVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "nbeval",
	Short: "Naive Bayes text classification evaluator",
	Long: `nbeval builds term and document frequency tables from labeled documents,
scores them with multinomial and Bernoulli Naive Bayes models or a naive
baseline, and prints confusion matrices.

Input files hold one document per line: a class label (1 or -1) followed by
whitespace separated terms.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootConfig, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&rootTables, "tables", "t", "", "Directory for frequency table files (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&rootProfile, "profile", false, "Print phase timings")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(tfCmd)
	rootCmd.AddCommand(dfCmd)
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(tfgrepCmd)
	rootCmd.AddCommand(priorsCmd)
	rootCmd.AddCommand(mnbCmd)
	rootCmd.AddCommand(nbCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(configCmd)
}

// session holds what every command needs for one invocation
type session struct {
	cfg   *config.Config
	store learning.TableStore
	prof  *profiler.Profiler
	out   io.Writer
	close func() error
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.LoadConfig(rootConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if rootTables != "" {
		cfg.Storage.Backend = "file"
		cfg.Storage.File.Dir = rootTables
	}

	s := &session{
		cfg:   cfg,
		out:   cmd.OutOrStdout(),
		close: func() error { return nil },
	}
	if rootProfile {
		s.prof = profiler.NewProfiler()
	}

	switch cfg.Storage.Backend {
	case "redis":
		redisConfig, err := cfg.RedisConfig()
		if err != nil {
			return nil, err
		}
		store, err := learning.NewRedisStore(commandContext(cmd), redisConfig)
		if err != nil {
			return nil, err
		}
		s.store = store
		s.close = store.Close
		s.debugf("🗄️  Table store: redis %s (prefix %s)\n", redisConfig.RedisURL, redisConfig.KeyPrefix)
	default:
		s.store = learning.NewFileStore(cfg.Storage.File.Dir)
		s.debugf("🗄️  Table store: %s\n", cfg.Storage.File.Dir)
	}

	return s, nil
}

// finish prints the profile if requested and releases the store
func (s *session) finish() {
	if s.prof != nil {
		fmt.Fprintln(s.out)
		s.prof.PrintReport(s.out)
	}
	if err := s.close(); err != nil {
		s.debugf("⚠️  Failed to close table store: %v\n", err)
	}
}

func (s *session) debugf(format string, args ...interface{}) {
	if rootVerbose || s.cfg.IsDebug() {
		fmt.Fprintf(s.out, format, args...)
	}
}

// readDocuments loads one data file under the "load" phase
func (s *session) readDocuments(path string) ([]corpus.Document, error) {
	timer := s.prof.Start("load")
	docs, err := corpus.ReadFile(path)
	timer.Stop()
	if err != nil {
		return nil, err
	}
	s.debugf("📄 Read %d documents from %s\n", len(docs), path)
	return docs, nil
}

// buildTable counts the training file into a table and saves it as name
func (s *session) buildTable(ctx context.Context, trainPath string, mode learning.Mode, filter learning.TermFilter, name string) (*learning.FrequencyTable, error) {
	docs, err := s.readDocuments(trainPath)
	if err != nil {
		return nil, err
	}

	timer := s.prof.Start("train")
	builder := learning.NewBuilder(mode, filter)
	for _, doc := range docs {
		builder.Add(doc)
	}
	table := builder.Table()
	timer.Stop()

	timer = s.prof.Start("save")
	err = s.store.Save(ctx, name, table)
	timer.Stop()
	if err != nil {
		return nil, fmt.Errorf("failed to save %s table: %w", name, err)
	}

	if rootVerbose || s.cfg.IsDebug() {
		report.TableSummary(s.out, name, table, builder.Totals())
	}
	return table, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zpam/nbeval/pkg/classifier"
	"github.com/zpam/nbeval/pkg/corpus"
	"github.com/zpam/nbeval/pkg/evaluation"
	"github.com/zpam/nbeval/pkg/learning"
	"github.com/zpam/nbeval/pkg/report"
)

// Methods accepted by the run command, in help order
var methods = []string{"tf", "tfgrep", "priors", "mnb", "df", "nb", "mine"}

const mineNote = `The mine method reduces the dictionary of words by removing every
term containing a hyphen before training the multinomial model.`

func evaluationCommand(method, short, long string) *cobra.Command {
	return &cobra.Command{
		Use:   method + " [train-file] [test-file]",
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				return s.runMethod(ctx, method, args[0], args[1])
			})
		},
	}
}

var tfgrepCmd = evaluationCommand("tfgrep",
	"Evaluate the single discriminating term baseline",
	`Pick the term whose class counts in the saved tf table differ the most and
predict from its presence. Prints confusion matrices for the training and the
test file.`)

var priorsCmd = evaluationCommand("priors",
	"Evaluate the majority class baseline",
	`Predict the most frequent training class for every document. Prints
confusion matrices for the training and the test file.`)

var mnbCmd = evaluationCommand("mnb",
	"Evaluate multinomial Naive Bayes",
	`Score documents with a multinomial Naive Bayes model built from the saved tf
table. Prints confusion matrices for the training and the test file.`)

var nbCmd = evaluationCommand("nb",
	"Evaluate multivariate Bernoulli Naive Bayes",
	`Score documents with a Bernoulli Naive Bayes model built from the saved df
table. Prints confusion matrices for the training and the test file.`)

var mineCmd = evaluationCommand("mine",
	"Evaluate multinomial Naive Bayes without hyphenated terms",
	mineNote+`

Builds and saves a filtered tf table, then prints confusion matrices for the
training and the test file.`)

var runCmd = &cobra.Command{
	Use:   "run [train-file] [test-file] [method]",
	Short: "Run one method by name",
	Long: fmt.Sprintf(`Run a method against a training and a test file.

Methods: %s`, strings.Join(methods, ", ")),
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return s.runMethod(ctx, args[2], args[0], args[1])
		})
	},
}

// runMethod dispatches a method name. Table-building methods only read
// the training file.
func (s *session) runMethod(ctx context.Context, method, trainPath, testPath string) error {
	switch method {
	case "tf":
		return s.runBuild(ctx, trainPath, learning.TermFrequency)
	case "df":
		return s.runBuild(ctx, trainPath, learning.DocumentFrequency)
	case "mine":
		fmt.Fprintln(s.out, mineNote)
		if _, err := s.buildTable(ctx, trainPath, learning.TermFrequency, learning.ExcludeHyphenated, learning.TermFrequencyTable); err != nil {
			return err
		}
		return s.evaluate(ctx, method, trainPath, testPath)
	case "tfgrep", "priors", "mnb", "nb":
		return s.evaluate(ctx, method, trainPath, testPath)
	default:
		return fmt.Errorf("unknown method %q (options: %s)", method, strings.Join(methods, ", "))
	}
}

// evaluate trains the method's classifier and scores both files. Every file
// is read before scoring starts so a malformed file yields no matrices.
func (s *session) evaluate(ctx context.Context, method, trainPath, testPath string) error {
	train, err := s.readDocuments(trainPath)
	if err != nil {
		return err
	}
	test, err := s.readDocuments(testPath)
	if err != nil {
		return err
	}

	timer := s.prof.Start("train")
	c, err := s.classifierFor(ctx, method, learning.CountClasses(train))
	timer.Stop()
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	datasets := []struct {
		name string
		docs []corpus.Document
	}{
		{trainPath, train},
		{testPath, test},
	}

	results := make([]evaluation.ConfusionMatrix, len(datasets))
	for i, ds := range datasets {
		timer := s.prof.Start("score")
		m, err := evaluation.Run(ctx, ds.docs, c, s.cfg.Evaluation.Workers)
		timer.Stop()
		if err != nil {
			return fmt.Errorf("%s: scoring %s: %w", method, ds.name, err)
		}
		results[i] = m
	}

	for i, ds := range datasets {
		report.Matrix(s.out, method, ds.name, results[i])
	}
	return nil
}

// classifierFor builds the classifier of a method. Methods backed by a
// table load it from the store; a missing table is an error, never rebuilt.
func (s *session) classifierFor(ctx context.Context, method string, totals learning.ClassTotals) (classifier.Classifier, error) {
	s.debugf("🧮 Training totals: class 1: %d, class -1: %d\n",
		totals[corpus.PositiveSlot], totals[corpus.NegativeSlot])

	switch method {
	case "priors":
		mp := classifier.NewMajorityPrior(totals)
		s.debugf("🎯 Majority class: %s\n", mp.Class())
		return mp, nil

	case "tfgrep":
		table, err := s.store.Load(ctx, learning.TermFrequencyTable)
		if err != nil {
			return nil, err
		}
		d, err := classifier.NewDiscriminator(table)
		if err != nil {
			return nil, err
		}
		counts := d.Counts()
		s.debugf("🎯 Discriminator: %q (class 1: %d, class -1: %d, direction %d)\n",
			d.Term(), counts[corpus.PositiveSlot], counts[corpus.NegativeSlot], d.Direction())
		if d.Direction() == 0 {
			s.debugf("⚠️  Direction is zero; every document is predicted as class 1\n")
		}
		return d, nil

	case "mnb", "mine":
		table, err := s.store.Load(ctx, learning.TermFrequencyTable)
		if err != nil {
			return nil, err
		}
		mode, err := s.cfg.ScoreMode()
		if err != nil {
			return nil, err
		}
		s.debugf("🧠 Multinomial model: %d terms, %s scoring\n", table.Len(), mode)
		m, err := classifier.NewMultinomial(table, totals, mode)
		if err != nil {
			return nil, err
		}
		return m, nil

	case "nb":
		table, err := s.store.Load(ctx, learning.DocumentFrequencyTable)
		if err != nil {
			return nil, err
		}
		s.debugf("🧠 Bernoulli model: %d terms\n", table.Len())
		b, err := classifier.NewBernoulli(table, totals)
		if err != nil {
			return nil, err
		}
		return b, nil
	}

	return nil, fmt.Errorf("unknown method %q", method)
}

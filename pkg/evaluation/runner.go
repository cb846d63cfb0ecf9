// Package evaluation scores documents with a classifier and tallies the
// results in confusion matrices.
package evaluation

import (
	"context"
	"sync"

	"github.com/zpam/nbeval/pkg/classifier"
	"github.com/zpam/nbeval/pkg/corpus"
)

// Run scores every document and returns the resulting matrix. With more
// than one worker the documents are scored in parallel, each worker
// keeping a local matrix that is merged at the end. If ctx is cancelled
// no matrix is returned.
func Run(ctx context.Context, docs []corpus.Document, c classifier.Classifier, workers int) (ConfusionMatrix, error) {
	if workers <= 1 || len(docs) < 2 {
		return runSequential(ctx, docs, c)
	}
	if workers > len(docs) {
		workers = len(docs)
	}
	return runParallel(ctx, docs, c, workers)
}

func runSequential(ctx context.Context, docs []corpus.Document, c classifier.Classifier) (ConfusionMatrix, error) {
	eval := NewEvaluator()
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return ConfusionMatrix{}, err
		}
		eval.Record(doc.Label, c.Classify(doc))
	}
	return eval.Matrix(), nil
}

func runParallel(ctx context.Context, docs []corpus.Document, c classifier.Classifier, workers int) (ConfusionMatrix, error) {
	jobChan := make(chan corpus.Document, workers)
	resultChan := make(chan ConfusionMatrix, workers)

	var workerWG sync.WaitGroup
	for i := 0; i < workers; i++ {
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()

			var local ConfusionMatrix
			for doc := range jobChan {
				local[doc.Slot()][corpus.SlotOf(c.Classify(doc))]++
			}
			resultChan <- local
		}()
	}

	go func() {
		defer close(jobChan)
		for _, doc := range docs {
			select {
			case jobChan <- doc:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		workerWG.Wait()
		close(resultChan)
	}()

	var total ConfusionMatrix
	for local := range resultChan {
		total = total.Merge(local)
	}

	if err := ctx.Err(); err != nil {
		return ConfusionMatrix{}, err
	}
	return total, nil
}

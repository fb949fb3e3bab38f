package pcfg

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// SentenceResult counts part-of-speech hits over one sentence
type SentenceResult struct {
	Correct int
	Total   int
	Unknown int
}

// Accuracy is the ratio of correctly labeled tokens, zero for an empty
// sentence
func (r *SentenceResult) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// EvaluateSentence compares predicted labels with gold ones position by
// position. A token that differs from its gold token is an ErrLeafMismatch:
// the prediction is over another sentence
func EvaluateSentence(predicted, gold []TaggedLeaf) (*SentenceResult, error) {
	if len(predicted) != len(gold) {
		return nil, errors.Wrapf(ErrLeafMismatch, "%d predicted leaves, %d gold leaves", len(predicted), len(gold))
	}
	result := &SentenceResult{Total: len(gold)}
	for i := range gold {
		if predicted[i].Token != gold[i].Token {
			return nil, errors.Wrapf(ErrLeafMismatch, "prediction word: %q vs real word: %q at %d",
				predicted[i].Token, gold[i].Token, i)
		}
		if predicted[i].Label == gold[i].Label {
			result.Correct++
		}
		if predicted[i].Label == UnknownLabel {
			result.Unknown++
		}
	}
	return result, nil
}

// EvaluateParse evaluates a parse result against the gold tree of the same
// sentence, counting the tokens derived through UNK
func EvaluateParse(result *Result, gold *Node) (*SentenceResult, error) {
	sentence, err := EvaluateSentence(result.Tagged(), gold.Tagged())
	if err != nil {
		return nil, err
	}
	sentence.Unknown = result.UnknownCount()
	return sentence, nil
}

// Total aggregates sentence results
type Total struct {
	SentenceResult
	Results []*SentenceResult

	// Sentences with every token right
	Exact int

	// Sentences evaluated
	Population int

	// Sentences without a parse
	Skipped int
}

// Add adds the result of one sentence
func (t *Total) Add(r *SentenceResult) {
	t.Correct += r.Correct
	t.Total += r.Total
	t.Unknown += r.Unknown
	if r.Correct == r.Total {
		t.Exact++
	}
	t.Population++
	t.Results = append(t.Results, r)
}

// Skip records a sentence that could not be parsed
func (t *Total) Skip() {
	t.Skipped++
}

// ExactMatch is the ratio of sentences labeled entirely right
func (t *Total) ExactMatch() float64 {
	if t.Population == 0 {
		return 0
	}
	return float64(t.Exact) / float64(t.Population)
}

// MeanSentenceAccuracy averages the accuracy of each sentence, so that long
// sentences do not dominate
func (t *Total) MeanSentenceAccuracy() float64 {
	if len(t.Results) == 0 {
		return 0
	}
	accuracies := make([]float64, len(t.Results))
	for i, r := range t.Results {
		accuracies[i] = r.Accuracy()
	}
	return stat.Mean(accuracies, nil)
}

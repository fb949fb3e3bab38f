package pcfg

import (
	"context"
	"math"
	"testing"
)

func TestEvaluateSentence(t *testing.T) {
	gold := readTree(t, "(S (NP (DT the) (NN dog)) (VP (V barks)))").Tagged()
	predicted := readTree(t, "(S (NP (DT the) (JJ dog)) (VP (V barks)))").Tagged()
	result, err := EvaluateSentence(predicted, gold)
	if err != nil {
		t.Fatal(err)
	}
	if result.Correct != 2 || result.Total != 3 || result.Unknown != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if math.Abs(result.Accuracy()-2.0/3) > 1e-12 {
		t.Fatalf("accuracy %g", result.Accuracy())
	}

	predicted[1].Label = UnknownLabel
	result, err = EvaluateSentence(predicted, gold)
	if err != nil {
		t.Fatal(err)
	}
	if result.Unknown != 1 {
		t.Fatalf("1 unknown expected, got %+v", result)
	}

	_, err = EvaluateSentence(predicted[:2], gold)
	checkCause(t, err, ErrLeafMismatch)

	predicted[0].Token = "a"
	_, err = EvaluateSentence(predicted, gold)
	checkCause(t, err, ErrLeafMismatch)

	if (&SentenceResult{}).Accuracy() != 0 {
		t.Fatal("empty sentence accuracy should be 0")
	}
}

func TestEvaluateParse(t *testing.T) {
	parser := dogBarksParser(t, "cat")
	result, err := parser.Parse(context.Background(), []string{"cat", "barks"})
	if err != nil {
		t.Fatal(err)
	}
	sentence, err := EvaluateParse(result, readTree(t, "(S (NP (N cat)) (VP (V barks)))"))
	if err != nil {
		t.Fatal(err)
	}
	if sentence.Correct != 2 || sentence.Total != 2 || sentence.Unknown != 1 {
		t.Fatalf("unexpected result %+v", sentence)
	}

	_, err = EvaluateParse(result, readTree(t, dogBarks))
	checkCause(t, err, ErrLeafMismatch)
}

func TestTotal(t *testing.T) {
	var total Total
	if total.ExactMatch() != 0 || total.MeanSentenceAccuracy() != 0 || total.Accuracy() != 0 {
		t.Fatal("empty total should be 0")
	}
	total.Add(&SentenceResult{Correct: 1, Total: 1})
	total.Add(&SentenceResult{Correct: 1, Total: 3, Unknown: 1})
	total.Skip()

	if total.Correct != 2 || total.Total != 4 || total.Unknown != 1 {
		t.Fatalf("unexpected total %+v", total.SentenceResult)
	}
	if total.Population != 2 || total.Skipped != 1 || total.Exact != 1 {
		t.Fatalf("unexpected counts %+v", total)
	}
	if total.Accuracy() != 0.5 {
		t.Fatalf("micro accuracy %g", total.Accuracy())
	}
	if total.ExactMatch() != 0.5 {
		t.Fatalf("exact match %g", total.ExactMatch())
	}
	if math.Abs(total.MeanSentenceAccuracy()-2.0/3) > 1e-12 {
		t.Fatalf("mean sentence accuracy %g", total.MeanSentenceAccuracy())
	}
}

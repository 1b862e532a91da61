package nlp_test

import (
	"context"
	"errors"
	"github.com/alexandre-normand/parsley/nlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"testing"
)

type mockAnnotator struct {
	mock.Mock
}

func (m *mockAnnotator) Annotate(ctx context.Context, text string) (doc *nlp.Document, err error) {
	args := m.Called(ctx, text)

	if d := args.Get(0); d != nil {
		doc = d.(*nlp.Document)
	}

	return doc, args.Error(1)
}

func (m *mockAnnotator) NERTags(ctx context.Context, text string) (tags []string, err error) {
	args := m.Called(ctx, text)

	if t := args.Get(0); t != nil {
		tags = t.([]string)
	}

	return tags, args.Error(1)
}

func johnWentToParis() nlp.Sentence {
	return nlp.Sentence{
		Index: 0,
		Tokens: []nlp.Token{
			{Index: 1, Word: "John", Lemma: "John", POS: "NNP", NER: "PERSON"},
			{Index: 2, Word: "went", Lemma: "go", POS: "VBD", NER: "O"},
			{Index: 3, Word: "to", Lemma: "to", POS: "TO", NER: "O"},
			{Index: 4, Word: "Paris", Lemma: "Paris", POS: "NNP", NER: "LOCATION"},
			{Index: 5, Word: ".", Lemma: ".", POS: ".", NER: "O"},
		},
		Parse: "(ROOT\n  (S\n    (NP (NNP John))\n    (VP (VBD went)\n      (PP (TO to)\n        (NP (NNP Paris))))\n    (. .)))",
		Dependencies: []nlp.Dependency{
			{Relation: "ROOT", Governor: 0, GovernorGloss: "ROOT", Dependent: 2, DependentGloss: "went"},
			{Relation: "punct", Governor: 2, GovernorGloss: "went", Dependent: 5, DependentGloss: "."},
			{Relation: "nsubj", Governor: 2, GovernorGloss: "went", Dependent: 1, DependentGloss: "John"},
			{Relation: "nmod:to", Governor: 2, GovernorGloss: "went", Dependent: 4, DependentGloss: "Paris"},
			{Relation: "case", Governor: 4, GovernorGloss: "Paris", Dependent: 3, DependentGloss: "to"},
		},
	}
}

func TestTreeString(t *testing.T) {
	s := johnWentToParis()

	assert.Equal(t, "(ROOT (S (NP (NNP John)) (VP (VBD went) (PP (TO to) (NP (NNP Paris)))) (. .)))", s.TreeString())
}

func TestDependencyGraphString(t *testing.T) {
	s := johnWentToParis()

	assert.Equal(t, "-> went/VBD (ROOT)\n"+
		"  -> John/NNP (nsubj)\n"+
		"  -> Paris/NNP (nmod:to)\n"+
		"    -> to/TO (case)\n"+
		"  -> ./. (punct)\n", s.DependencyGraphString())
}

func TestDependencyGraphStringWithCycle(t *testing.T) {
	s := nlp.Sentence{
		Tokens: []nlp.Token{
			{Index: 1, Word: "a", POS: "DT"},
			{Index: 2, Word: "b", POS: "NN"},
		},
		Dependencies: []nlp.Dependency{
			{Relation: "root", Governor: 0, Dependent: 1, DependentGloss: "a"},
			{Relation: "dep", Governor: 1, Dependent: 2, DependentGloss: "b"},
			{Relation: "ref", Governor: 2, Dependent: 1, DependentGloss: "a"},
		},
	}

	assert.Equal(t, "-> a/DT (root)\n"+
		"  -> b/NN (dep)\n"+
		"    -> a/DT (ref)\n", s.DependencyGraphString())
}

func TestDependencyGraphStringWithoutDependencies(t *testing.T) {
	assert.Equal(t, "", nlp.Sentence{}.DependencyGraphString())
}

func TestCorefGraphString(t *testing.T) {
	doc := nlp.Document{
		CorefChains: []nlp.CorefChain{
			{ID: 7, Mentions: []nlp.Mention{{ID: 7, Text: "Paris", SentNum: 1, IsRepresentative: true}, {ID: 9, Text: "it", SentNum: 2}}},
			{ID: 1, Mentions: []nlp.Mention{{ID: 1, Text: "John", SentNum: 1, IsRepresentative: true}, {ID: 8, Text: "He", SentNum: 2}}},
		},
	}

	assert.Equal(t, `{1=CHAIN1-["John" in sentence 1, "He" in sentence 2], 7=CHAIN7-["Paris" in sentence 1, "it" in sentence 2]}`, doc.CorefGraphString())
}

func TestCorefGraphStringEmpty(t *testing.T) {
	assert.Equal(t, "{}", nlp.Document{}.CorefGraphString())
}

func TestAnnotatorWithTelemetryDelegates(t *testing.T) {
	base := new(mockAnnotator)
	doc := &nlp.Document{Sentences: []nlp.Sentence{johnWentToParis()}}
	base.On("Annotate", mock.Anything, "John went to Paris.").Return(doc, nil)
	base.On("NERTags", mock.Anything, "John").Return([]string{"PERSON"}, nil)

	a, err := nlp.NewAnnotatorWithTelemetry(base, "test", noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	d, err := a.Annotate(context.Background(), "John went to Paris.")
	assert.NoError(t, err)
	assert.Equal(t, doc, d)

	tags, err := a.NERTags(context.Background(), "John")
	assert.NoError(t, err)
	assert.Equal(t, []string{"PERSON"}, tags)

	base.AssertExpectations(t)
}

func TestAnnotatorWithTelemetryReturnsErrors(t *testing.T) {
	base := new(mockAnnotator)
	base.On("Annotate", mock.Anything, "boom").Return(nil, errors.New("server unavailable"))
	base.On("NERTags", mock.Anything, "boom").Return(nil, errors.New("server unavailable"))

	a, err := nlp.NewAnnotatorWithTelemetry(base, "test", noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	_, err = a.Annotate(context.Background(), "boom")
	assert.EqualError(t, err, "server unavailable")

	_, err = a.NERTags(context.Background(), "boom")
	assert.EqualError(t, err, "server unavailable")

	base.AssertExpectations(t)
}

// Package nlp defines the natural language annotations parsley works with and the Annotator interface
// implemented by annotation pipelines (see github.com/alexandre-normand/parsley/nlp/corenlp)
package nlp

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Annotator is implemented by any natural language pipeline able to annotate text
type Annotator interface {
	// Annotate runs the full pipeline (tokenization, sentence splitting, part-of-speech, lemmatization, named entity
	// recognition, constituency parse, dependency parse and coreference resolution) on the text
	Annotate(ctx context.Context, text string) (doc *Document, err error)

	// NERTags runs the lighter named entity recognition pipeline on the text treated as a single sentence
	// and returns the tag of every token in order
	NERTags(ctx context.Context, text string) (tags []string, err error)
}

// Token is a single annotated token of a sentence. Indexes start at 1
type Token struct {
	Index int
	Word  string
	Lemma string
	POS   string
	NER   string
}

// Dependency is a grammatical relation between a governor and a dependent token. The root of a sentence
// has a governor index of 0
type Dependency struct {
	Relation       string
	Governor       int
	GovernorGloss  string
	Dependent      int
	DependentGloss string
}

// Sentence holds the annotations of a sentence
type Sentence struct {
	Index        int
	Tokens       []Token
	Parse        string
	Dependencies []Dependency
}

// Mention is a mention of an entity in a coreference chain. Sentence numbers start at 1
type Mention struct {
	ID               int
	Text             string
	SentNum          int
	StartIndex       int
	EndIndex         int
	IsRepresentative bool
}

// CorefChain is a set of mentions judged to refer to the same real-world entity
type CorefChain struct {
	ID       int
	Mentions []Mention
}

// Document holds the annotations of a whole text
type Document struct {
	Sentences   []Sentence
	CorefChains []CorefChain
}

// TreeString returns the parse tree on a single line with consecutive whitespace collapsed
func (s Sentence) TreeString() string {
	return strings.Join(strings.Fields(s.Parse), " ")
}

// DependencyGraphString renders the dependency graph as an indented tree starting at the root(s). Each
// node is rendered as "-> word/POS (relation)" and children are indented by two spaces and sorted by index
func (s Sentence) DependencyGraphString() string {
	tokens := make(map[int]Token)
	for _, t := range s.Tokens {
		tokens[t.Index] = t
	}

	children := make(map[int][]Dependency)
	for _, d := range s.Dependencies {
		children[d.Governor] = append(children[d.Governor], d)
	}

	for g := range children {
		deps := children[g]
		sort.SliceStable(deps, func(i, j int) bool {
			return deps[i].Dependent < deps[j].Dependent
		})
	}

	var b strings.Builder
	visited := make(map[int]bool)

	var render func(d Dependency, depth int)
	render = func(d Dependency, depth int) {
		pos := tokens[d.Dependent].POS
		fmt.Fprintf(&b, "%s-> %s/%s (%s)\n", strings.Repeat("  ", depth), d.DependentGloss, pos, d.Relation)

		if visited[d.Dependent] {
			return
		}
		visited[d.Dependent] = true

		for _, c := range children[d.Dependent] {
			render(c, depth+1)
		}
	}

	for _, root := range children[0] {
		render(root, 0)
	}

	return b.String()
}

// String returns the mention as "\"text\" in sentence n"
func (m Mention) String() string {
	return fmt.Sprintf("\"%s\" in sentence %d", m.Text, m.SentNum)
}

// String returns the chain as CHAIN<id>-[mention, mention, ...]
func (c CorefChain) String() string {
	mentions := make([]string, 0, len(c.Mentions))
	for _, m := range c.Mentions {
		mentions = append(mentions, m.String())
	}

	return fmt.Sprintf("CHAIN%d-[%s]", c.ID, strings.Join(mentions, ", "))
}

// CorefGraphString renders all coreference chains of the document as {id=CHAIN<id>-[...], ...} sorted by chain id
func (d Document) CorefGraphString() string {
	chains := append([]CorefChain{}, d.CorefChains...)
	sort.Slice(chains, func(i, j int) bool {
		return chains[i].ID < chains[j].ID
	})

	entries := make([]string, 0, len(chains))
	for _, c := range chains {
		entries = append(entries, fmt.Sprintf("%d=%s", c.ID, c))
	}

	return fmt.Sprintf("{%s}", strings.Join(entries, ", "))
}

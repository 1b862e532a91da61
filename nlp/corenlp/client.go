// Package corenlp provides an nlp.Annotator backed by a Stanford CoreNLP server
// (see https://stanfordnlp.github.io/CoreNLP/corenlp-server.html)
package corenlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/alexandre-normand/parsley/nlp"
	"github.com/pkg/errors"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	// DefaultServerURL is the address a CoreNLP server listens on when started with default settings
	DefaultServerURL = "http://localhost:9000"

	maxErrorBodyLength = 512
)

var (
	// DefaultAnnotators is the full annotation pipeline
	DefaultAnnotators = []string{"tokenize", "ssplit", "pos", "lemma", "ner", "parse", "dcoref"}

	// nerAnnotators is the lighter pipeline required for named entity tags
	nerAnnotators = []string{"tokenize", "ssplit", "pos", "lemma", "ner"}
)

// Client talks to a CoreNLP server. It implements nlp.Annotator
type Client struct {
	serverURL  string
	annotators []string
	httpClient *http.Client
}

// Option defines an option for a Client
type Option func(*Client)

// OptionHTTPClient sets the http client used to reach the server
func OptionHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// OptionAnnotators sets the annotators of the full annotation pipeline
func OptionAnnotators(annotators []string) Option {
	return func(c *Client) {
		c.annotators = annotators
	}
}

// New returns a new client for the CoreNLP server at serverURL
func New(serverURL string, options ...Option) (c *Client) {
	c = new(Client)
	c.serverURL = strings.TrimSuffix(serverURL, "/")
	c.annotators = DefaultAnnotators
	c.httpClient = &http.Client{}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// Close releases idle connections to the server
func (c *Client) Close() (err error) {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Annotate runs the full annotation pipeline on the text
func (c *Client) Annotate(ctx context.Context, text string) (doc *nlp.Document, err error) {
	props := map[string]string{
		"annotators":   strings.Join(c.annotators, ","),
		"outputFormat": "json",
	}

	var r document
	if err = c.annotate(ctx, props, text, &r); err != nil {
		return nil, err
	}

	return r.toDocument(), nil
}

// NERTags runs named entity recognition on the text, treated as a single sentence, and returns the tag of every token
func (c *Client) NERTags(ctx context.Context, text string) (tags []string, err error) {
	props := map[string]string{
		"annotators":           strings.Join(nerAnnotators, ","),
		"outputFormat":         "json",
		"ssplit.isOneSentence": "true",
	}

	var r document
	if err = c.annotate(ctx, props, text, &r); err != nil {
		return nil, err
	}

	tags = make([]string, 0)
	for _, s := range r.Sentences {
		for _, t := range s.Tokens {
			tags = append(tags, t.NER)
		}
	}

	return tags, nil
}

// annotate posts the text to the server with the given properties and decodes the json response into v
func (c *Client) annotate(ctx context.Context, props map[string]string, text string, v interface{}) (err error) {
	encodedProps, err := json.Marshal(props)
	if err != nil {
		return errors.Wrap(err, "unable to encode annotation properties")
	}

	u := fmt.Sprintf("%s/?properties=%s", c.serverURL, url.QueryEscape(string(encodedProps)))

	req, err := http.NewRequest(http.MethodPost, u, bytes.NewBufferString(text))
	if err != nil {
		return errors.Wrapf(err, "unable to create annotation request for [%s]", c.serverURL)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "annotation request to [%s] failed", c.serverURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := ioutil.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLength))
		return fmt.Errorf("CoreNLP server at [%s] returned status [%d]: %s", c.serverURL, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err = json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrap(err, "unable to decode annotation response")
	}

	return nil
}

// document is the json representation of an annotated text returned by the server
type document struct {
	Sentences []sentence           `json:"sentences"`
	Corefs    map[string][]mention `json:"corefs"`
}

type sentence struct {
	Index                int          `json:"index"`
	Parse                string       `json:"parse"`
	BasicDependencies    []dependency `json:"basicDependencies"`
	EnhancedPlusPlus     []dependency `json:"enhancedPlusPlusDependencies"`
	CollapsedCCProcessed []dependency `json:"collapsed-ccprocessed-dependencies"`
	Tokens               []token      `json:"tokens"`
}

type token struct {
	Index int    `json:"index"`
	Word  string `json:"word"`
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`
	NER   string `json:"ner"`
}

type dependency struct {
	Dep            string `json:"dep"`
	Governor       int    `json:"governor"`
	GovernorGloss  string `json:"governorGloss"`
	Dependent      int    `json:"dependent"`
	DependentGloss string `json:"dependentGloss"`
}

type mention struct {
	ID                      int    `json:"id"`
	Text                    string `json:"text"`
	SentNum                 int    `json:"sentNum"`
	StartIndex              int    `json:"startIndex"`
	EndIndex                int    `json:"endIndex"`
	IsRepresentativeMention bool   `json:"isRepresentativeMention"`
}

// toDocument converts the server representation to an nlp.Document. Collapsed cc-processed dependencies are
// preferred and fall back on enhanced++ and then basic dependencies depending on what the server version returns
func (d document) toDocument() (doc *nlp.Document) {
	doc = new(nlp.Document)
	doc.Sentences = make([]nlp.Sentence, 0, len(d.Sentences))

	for _, s := range d.Sentences {
		ns := nlp.Sentence{Index: s.Index, Parse: s.Parse}

		ns.Tokens = make([]nlp.Token, 0, len(s.Tokens))
		for _, t := range s.Tokens {
			ns.Tokens = append(ns.Tokens, nlp.Token{Index: t.Index, Word: t.Word, Lemma: t.Lemma, POS: t.POS, NER: t.NER})
		}

		deps := s.CollapsedCCProcessed
		if len(deps) == 0 {
			deps = s.EnhancedPlusPlus
		}
		if len(deps) == 0 {
			deps = s.BasicDependencies
		}

		ns.Dependencies = make([]nlp.Dependency, 0, len(deps))
		for _, dep := range deps {
			ns.Dependencies = append(ns.Dependencies, nlp.Dependency{Relation: dep.Dep, Governor: dep.Governor, GovernorGloss: dep.GovernorGloss, Dependent: dep.Dependent, DependentGloss: dep.DependentGloss})
		}

		doc.Sentences = append(doc.Sentences, ns)
	}

	doc.CorefChains = make([]nlp.CorefChain, 0, len(d.Corefs))
	for key, mentions := range d.Corefs {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}

		chain := nlp.CorefChain{ID: id, Mentions: make([]nlp.Mention, 0, len(mentions))}
		for _, m := range mentions {
			chain.Mentions = append(chain.Mentions, nlp.Mention{ID: m.ID, Text: m.Text, SentNum: m.SentNum, StartIndex: m.StartIndex, EndIndex: m.EndIndex, IsRepresentative: m.IsRepresentativeMention})
		}

		doc.CorefChains = append(doc.CorefChains, chain)
	}

	sort.Slice(doc.CorefChains, func(i, j int) bool {
		return doc.CorefChains[i].ID < doc.CorefChains[j].ID
	})

	return doc
}

package plugins

import (
	"context"
	"fmt"
	"github.com/alexandre-normand/parsley"
	"github.com/alexandre-normand/parsley/actions"
	"github.com/alexandre-normand/parsley/config"
	"github.com/alexandre-normand/parsley/nlp"
	"github.com/alexandre-normand/parsley/nlp/corenlp"
	"github.com/alexandre-normand/parsley/plugin"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"io"
	"strings"
	"time"
)

const (
	// NLPPluginName holds identifying name for the natural language annotation plugin
	NLPPluginName = "nlp"

	instrumentationName = "github.com/alexandre-normand/parsley/plugins"
)

// Configuration keys of the nlp plugin (under plugins.nlp)
const (
	ServerURLKey         = "serverURL"         // Address of the CoreNLP server, string value
	AnnotatorsKey        = "annotators"        // Annotators of the full pipeline, list of strings
	AnnotationTimeoutKey = "annotationTimeout" // Maximum duration of a full annotation, duration value (i.e. "30s")
	TagTimeoutKey        = "tagTimeout"        // Maximum duration of a named entity tagging, duration value (i.e. "10s")
	AnnotationRepliesKey = "annotationReplies" // Where full annotations are posted, one of "thread", "threadWithBroadcast" or "channel". Defaults to the reply behavior of the instance
)

// Values of AnnotationRepliesKey
const (
	ReplyInThread              = "thread"
	ReplyInThreadWithBroadcast = "threadWithBroadcast"
	ReplyInChannel             = "channel"
)

const (
	defaultAnnotationTimeout = 30 * time.Second
	defaultTagTimeout        = 10 * time.Second
)

// NLP holds the plugin data for the natural language annotation plugin
type NLP struct {
	*parsley.Plugin

	annotator         nlp.Annotator
	annotationTimeout time.Duration
	tagTimeout        time.Duration
	annotationOpts    []parsley.AnswerOption
}

// NewNLP creates a new instance of the nlp plugin backed by the CoreNLP server configured under ServerURLKey. The
// returned io.Closer releases the connections to the server
func NewNLP(conf *config.PluginConfig) (c io.Closer, p *parsley.Plugin, err error) {
	c, n, err := NewNLPFromConfig(conf)
	if err != nil {
		return nil, nil, err
	}

	return c, n.Plugin, nil
}

// NewNLPFromConfig is like NewNLP but returns the NLP instance itself which can also answer text outside of slack
func NewNLPFromConfig(conf *config.PluginConfig) (c io.Closer, n *NLP, err error) {
	conf.SetDefault(ServerURLKey, corenlp.DefaultServerURL)
	conf.SetDefault(AnnotatorsKey, corenlp.DefaultAnnotators)

	client := corenlp.New(conf.GetString(ServerURLKey), corenlp.OptionAnnotators(conf.GetStringSlice(AnnotatorsKey)))

	annotator, err := nlp.NewAnnotatorWithTelemetry(client, NLPPluginName, otel.GetMeterProvider().Meter(instrumentationName))
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create annotator instruments")
	}

	n, err = NewNLPWithAnnotator(annotator, conf)
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	return client, n, nil
}

// NewNLPWithAnnotator creates a new instance of the nlp plugin backed by the given annotator
func NewNLPWithAnnotator(annotator nlp.Annotator, conf *config.PluginConfig) (n *NLP, err error) {
	conf.SetDefault(AnnotationTimeoutKey, defaultAnnotationTimeout)
	conf.SetDefault(TagTimeoutKey, defaultTagTimeout)

	n = new(NLP)
	n.annotator = annotator
	n.annotationOpts, err = annotationReplyOptions(conf.GetString(AnnotationRepliesKey))
	if err != nil {
		return nil, err
	}

	n.annotationTimeout = conf.GetDuration(AnnotationTimeoutKey)
	n.tagTimeout = conf.GetDuration(TagTimeoutKey)

	n.Plugin = plugin.New(NLPPluginName).
		WithAction(actions.New(parsley.DirectMessage).
			WithMatcher(isTextForm(parsley.ShortForm)).
			WithUsage("!<text>").
			WithDescription("Replies with the named entity tag of every token of `<text>`").
			WithAnswerer(n.tag).
			Build()).
		WithAction(actions.New(parsley.DirectMessage).
			WithMatcher(isTextForm(parsley.FullForm)).
			WithUsage("<text>").
			WithDescription("Replies with the tokens, parse tree, dependency graph and coreference chains of `<text>`").
			WithAnswerer(n.annotate).
			Build()).
		Build()

	return n, nil
}

func annotationReplyOptions(value string) (opts []parsley.AnswerOption, err error) {
	switch value {
	case "":
		return nil, nil
	case ReplyInThread:
		return []parsley.AnswerOption{parsley.AnswerInThread()}, nil
	case ReplyInThreadWithBroadcast:
		return []parsley.AnswerOption{parsley.AnswerInThreadWithBroadcast()}, nil
	case ReplyInChannel:
		return []parsley.AnswerOption{parsley.AnswerWithoutThreading()}, nil
	default:
		return nil, fmt.Errorf("Invalid [%s] configuration value [%s] for plugin [%s]", AnnotationRepliesKey, value, NLPPluginName)
	}
}

func isTextForm(form parsley.TextForm) parsley.Matcher {
	return func(e *parsley.IncomingEvent) bool {
		f, _ := parsley.ClassifyText(e.NormalizedText)
		return f == form
	}
}

// Answer returns the reply to the text of a direct message: the named entity tags of what follows "!" for the short
// form and the full annotation for anything else. Text with nothing to annotate is an error
func (n *NLP) Answer(ctx context.Context, text string) (reply string, err error) {
	form, content := parsley.ClassifyText(text)

	switch form {
	case parsley.ShortForm:
		return n.tagText(ctx, content)
	case parsley.FullForm:
		return n.annotateText(ctx, content)
	default:
		return "", fmt.Errorf("Nothing to annotate in [%s]", text)
	}
}

// Annotate returns the full annotation of text, regardless of its form
func (n *NLP) Annotate(ctx context.Context, text string) (reply string, err error) {
	return n.annotateText(ctx, text)
}

// Tag returns the named entity tags of the tokens of text
func (n *NLP) Tag(ctx context.Context, text string) (reply string, err error) {
	return n.tagText(ctx, text)
}

func (n *NLP) tag(ctx context.Context, e *parsley.IncomingEvent) (a *parsley.Answer, err error) {
	_, content := parsley.ClassifyText(e.NormalizedText)

	reply, err := n.tagText(ctx, content)
	if err != nil {
		return nil, err
	}

	return &parsley.Answer{Text: reply}, nil
}

func (n *NLP) annotate(ctx context.Context, e *parsley.IncomingEvent) (a *parsley.Answer, err error) {
	reply, err := n.annotateText(ctx, e.NormalizedText)
	if err != nil {
		return nil, err
	}

	return &parsley.Answer{Text: reply, Options: n.annotationOpts}, nil
}

func (n *NLP) tagText(ctx context.Context, text string) (reply string, err error) {
	ctx, cancel := context.WithTimeout(ctx, n.tagTimeout)
	defer cancel()

	tags, err := n.annotator.NERTags(ctx, text)
	if err != nil {
		return "", errors.Wrap(err, "named entity tagging failed")
	}

	return FormatNERTags(tags), nil
}

func (n *NLP) annotateText(ctx context.Context, text string) (reply string, err error) {
	ctx, cancel := context.WithTimeout(ctx, n.annotationTimeout)
	defer cancel()

	doc, err := n.annotator.Annotate(ctx, text)
	if err != nil {
		return "", errors.Wrap(err, "annotation failed")
	}

	return FormatAnnotation(doc), nil
}

// FormatNERTags formats tags as [TAG1, TAG2, ...]
func FormatNERTags(tags []string) string {
	return fmt.Sprintf("[%s]", strings.Join(tags, ", "))
}

// FormatAnnotation formats an annotated document. Every sentence has one line per token followed by its parse tree
// and its dependency graph. The coreference chains of the whole document come last
func FormatAnnotation(doc *nlp.Document) string {
	var b strings.Builder

	for _, s := range doc.Sentences {
		for _, t := range s.Tokens {
			fmt.Fprintf(&b, "token='%s-%d': word='%s', pos='%s', ne='%s'\n", t.Word, t.Index, t.Word, t.POS, t.NER)
		}

		fmt.Fprintf(&b, "tree: %s\n", s.TreeString())

		graph := s.DependencyGraphString()
		fmt.Fprintf(&b, "dependency graph: %s", graph)
		if !strings.HasSuffix(graph, "\n") {
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "coreference link graph: %s", doc.CorefGraphString())

	return b.String()
}

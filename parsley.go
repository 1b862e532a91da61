package parsley

import (
	"context"
	"fmt"
	"github.com/alexandre-normand/parsley/config"
	"github.com/alexandre-normand/parsley/schedule"
	"github.com/marcsantiago/gocron"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// VERSION holds the current version of parsley
const VERSION = "1.0.0"

const (
	instrumentationName = "github.com/alexandre-normand/parsley"
)

// Parsley represents what defines a bot (mostly, a name and its plugins)
type Parsley struct {
	name    string
	config  *viper.Viper
	plugins []*Plugin
	closers []io.Closer

	// Internal state as an optimization when looping through all actions
	actions []actionDefinitionWithID

	logger *log.Logger
	log    SLogger
	meter  metric.Meter

	*instrumenter
}

// Plugin represents a plugin (its name, action definitions and the bot services injected on startup)
type Plugin struct {
	Name             string
	Actions          []ActionDefinition
	ScheduledActions []ScheduledActionDefinition

	BotServices
}

// BotServices holds the services and state injected into plugins when parsley starts. Values are
// set before any action is invoked and are read-only afterwards
type BotServices struct {
	// Logger to log debug/info statements
	Logger SLogger

	// UserInfoFinder to query user info
	UserInfoFinder UserInfoFinder

	// RealTimeMsgSender to send messages outside of the normal answering flow (i.e. from a scheduled action)
	RealTimeMsgSender RealTimeMessageSender

	// Self is the identity of the bot user
	Self Identity
}

// ActionDefinition represents how an action is triggered, published, used and described
// along with defining the function defining its behavior
type ActionDefinition struct {
	// Indicates whether the action should be omitted from usage listings
	Hidden bool

	// Events the action is triggered by
	Events []EventType

	// Matcher that will determine whether or not the action should be triggered. A nil Matcher matches all events of
	// the action's types
	Match Matcher

	// Usage example
	Usage string

	// Description of the action
	Description string

	// Function to execute if the Matcher matches
	Answer Answerer
}

// Matcher is the function that determines whether or not an action should be triggered
type Matcher func(e *IncomingEvent) bool

// Answerer is what gets executed when an ActionDefinition is triggered. Returning a nil answer and a nil
// error means nothing is sent
type Answerer func(ctx context.Context, e *IncomingEvent) (answer *Answer, err error)

// ScheduledActionDefinition represents when a scheduled action is triggered as well
// as what it does and how
type ScheduledActionDefinition struct {
	// Indicates whether the action should be omitted from usage listings
	Hidden bool

	// Schedule definition determining when the action runs
	Schedule schedule.Definition

	// Description of the scheduled action
	Description string

	// Action is the function that is invoked when the schedule activates
	Action ScheduledAction
}

// ScheduledAction is what gets executed when a ScheduledActionDefinition is triggered (by its schedule.Definition)
type ScheduledAction func()

// actionDefinitionWithID holds an action definition along with its identifier string
type actionDefinitionWithID struct {
	ActionDefinition
	id string
}

// String returns a friendly description of an ActionDefinition
func (a ActionDefinition) String() string {
	return fmt.Sprintf("`%s` - %s", a.Usage, a.Description)
}

// String returns a friendly description of a ScheduledActionDefinition
func (a ScheduledActionDefinition) String() string {
	return fmt.Sprintf("`%s` - %s", a.Schedule, a.Description)
}

// Triggers returns true if the action should be triggered by the event: the event type must be one the action
// listens for and the matcher, if any, must match
func (a ActionDefinition) Triggers(e *IncomingEvent) bool {
	for _, et := range a.Events {
		if et == e.Type {
			return a.Match == nil || a.Match(e)
		}
	}

	return false
}

// Option defines an option for a Parsley
type Option func(*Parsley)

// OptionLog sets a logger for Parsley
func OptionLog(logger *log.Logger) func(*Parsley) {
	return func(p *Parsley) {
		p.logger = logger
	}
}

// OptionLogfile sets a logfile for Parsley (using the standard log prefix and flags)
func OptionLogfile(logfile *os.File) func(*Parsley) {
	return func(p *Parsley) {
		p.logger = log.New(logfile, p.logger.Prefix(), p.logger.Flags())
	}
}

// OptionMeter sets the open telemetry meter used to create all of parsley's instruments. When not set, the
// global meter provider is used
func OptionMeter(meter metric.Meter) func(*Parsley) {
	return func(p *Parsley) {
		p.meter = meter
	}
}

// New creates a new parsley from a name, a configuration and options
func New(name string, v *viper.Viper, options ...Option) (p *Parsley, err error) {
	p = new(Parsley)
	p.name = name
	p.config = v
	p.plugins = make([]*Plugin, 0)
	p.closers = make([]io.Closer, 0)
	p.logger = log.New(os.Stdout, fmt.Sprintf("%s: ", name), log.Lshortfile|log.LstdFlags)

	for _, opt := range options {
		opt(p)
	}

	p.log = NewSLogger(p.logger, v.GetBool(config.DebugKey))

	if p.meter == nil {
		p.meter = otel.GetMeterProvider().Meter(instrumentationName)
	}

	if p.instrumenter, err = newInstrumenter(name, p.meter); err != nil {
		return nil, errors.Wrap(err, "unable to create instruments")
	}

	return p, nil
}

// RegisterPlugin registers a plugin with the Parsley engine. This should be invoked
// prior to calling Run
func (p *Parsley) RegisterPlugin(plugin *Plugin) {
	p.plugins = append(p.plugins, plugin)
}

// Close closes all closers registered with this instance
func (p *Parsley) Close() (err error) {
	for _, c := range p.closers {
		if cerr := c.Close(); cerr != nil {
			p.log.Printf("Error closing [%v]: %v\n", c, cerr)
			err = cerr
		}
	}

	return err
}

// Run starts parsley and loops until the process is interrupted or the slack connection reports invalid
// credentials
func (p *Parsley) Run() (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := slack.New(
		p.config.GetString(config.TokenKey),
		slack.OptionDebug(p.config.GetBool(config.DebugKey)),
		slack.OptionLog(log.New(os.Stdout, "slack: ", log.Lshortfile|log.LstdFlags)),
	)

	uf, err := p.newUserInfoFinder(api)
	if err != nil {
		return err
	}

	self, err := resolveSelfIdentity(api, uf)
	if err != nil {
		return errors.Wrap(err, "unable to resolve bot identity")
	}

	p.log.Printf("Running as [%s] with user id [%s]\n", self.Name, self.ID)

	driver, err := newChatDriverWithTelemetry(api, p.name, p.meter)
	if err != nil {
		return err
	}

	rtm := api.NewRTM()
	go rtm.ManageConnection()
	defer rtm.Disconnect()

	return p.serve(ctx, rtm.IncomingEvents, driver, rtm, self, uf)
}

// newUserInfoFinder returns the user info finder stack: a cache in front of an instrumented slack client
func (p *Parsley) newUserInfoFinder(loader UserInfoFinder) (uf UserInfoFinder, err error) {
	instrumented, err := NewUserInfoFinderWithTelemetry(loader, p.name, p.meter)
	if err != nil {
		return nil, err
	}

	return NewCachingUserInfoFinder(p.config, instrumented, p.log)
}

// serve processes incoming rtm events until the events channel is closed, the context is done or the
// credentials are reported as invalid. Events are handed off to partition workers and all queued events are
// processed before serve returns
func (p *Parsley) serve(ctx context.Context, events <-chan slack.RTMEvent, driver chatDriver, rtSender RealTimeMessageSender, self Identity, uf UserInfoFinder) (err error) {
	p.injectServices(rtSender, uf, self)
	p.attachIdentifiersToPluginActions()

	ec := NewEventClassifier(self)

	router, err := newPartitionRouter(p.config.GetInt(config.MessageProcessingPartitionCount), p.config.GetInt(config.MessageProcessingBufferedMessageCount), p.log, p.instrumenter)
	if err != nil {
		return err
	}

	router.start(func(e IncomingEvent) {
		p.processEvent(ctx, driver, self, e)
	})
	defer router.stop()

	if p.hasScheduledActions() {
		stopScheduler, err := p.startActionScheduler()
		if err != nil {
			return err
		}
		defer stopScheduler()
	}

	for {
		select {
		case <-ctx.Done():
			p.log.Printf("Terminating event processing: %v\n", ctx.Err())
			return nil

		case msg, ok := <-events:
			if !ok {
				p.log.Debugf("Incoming events channel closed, terminating event processing\n")
				return nil
			}

			p.recordEventSeen(ctx)

			switch e := msg.Data.(type) {
			case *slack.ConnectedEvent:
				p.log.Printf("Connection counter: %d\n", e.ConnectionCount)

			case *slack.MessageEvent:
				if ie, ok := ec.ClassifyMessage(e.Msg); ok {
					router.routeEvent(ctx, ie)
				} else {
					p.log.Debugf("Ignoring message [%s] on channel [%s]\n", e.Timestamp, e.Channel)
				}

			case *slack.PinAddedEvent:
				router.routeEvent(ctx, ec.ClassifyPin(*e))

			case *slack.LatencyReport:
				p.log.Printf("Current latency: %v\n", e.Value)
				p.recordSlackLatency(ctx, e.Value)

			case *slack.RTMError:
				p.log.Printf("Error: %s\n", e.Error())

			case *slack.InvalidAuthEvent:
				p.log.Printf("Invalid credentials\n")
				return fmt.Errorf("Invalid credentials for [%s]", p.name)

			default:
				// Ignoring other events
			}
		}
	}
}

// injectServices sets the bot services on every registered plugin
func (p *Parsley) injectServices(rtSender RealTimeMessageSender, uf UserInfoFinder, self Identity) {
	for _, plugin := range p.plugins {
		plugin.Logger = NewScopedSLogger(p.logger, p.config.GetBool(config.DebugKey), plugin.Name)
		plugin.UserInfoFinder = uf
		plugin.RealTimeMsgSender = rtSender
		plugin.Self = self
	}
}

// attachIdentifiersToPluginActions attaches an action identifier to every plugin action and sets them accordingly
// in the internal state of Parsley. The identifier format is pluginName.a[indexOfTheAction]. The order of actions
// is the order of plugin registration and then the order of declaration within each plugin, which is also the
// order in which actions are evaluated
func (p *Parsley) attachIdentifiersToPluginActions() {
	p.actions = make([]actionDefinitionWithID, 0)

	for _, plugin := range p.plugins {
		for i, a := range plugin.Actions {
			p.actions = append(p.actions, actionDefinitionWithID{ActionDefinition: a, id: fmt.Sprintf("%s.a[%d]", plugin.Name, i)})
		}
	}
}

// findAction returns the first action triggered by the event and true or false if no action is triggered
func (p *Parsley) findAction(e *IncomingEvent) (action actionDefinitionWithID, found bool) {
	for _, a := range p.actions {
		if a.Triggers(e) {
			return a, true
		}
	}

	return action, false
}

func (p *Parsley) hasScheduledActions() bool {
	for _, plugin := range p.plugins {
		if len(plugin.ScheduledActions) > 0 {
			return true
		}
	}

	return false
}

// startActionScheduler creates jobs for all ScheduledActionDefinition from all plugins, registers them with the scheduler
// and starts it. The returned function stops the scheduler
func (p *Parsley) startActionScheduler() (stop func(), err error) {
	timeLoc, err := config.GetTimeLocation(p.config)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load time location for scheduler")
	}

	gocron.ChangeLoc(timeLoc)
	sc := gocron.NewScheduler()

	for _, plugin := range p.plugins {
		for _, sa := range plugin.ScheduledActions {
			j, err := schedule.NewJob(sc, sa.Schedule)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid schedule for scheduled action of plugin [%s]", plugin.Name)
			}

			p.log.Debugf("Adding job [%s] to scheduler\n", sa)
			j.Do(sa.Action)
		}
	}

	_, t := sc.NextRun()
	p.log.Debugf("Starting scheduler with first job scheduled at [%s]\n", t)

	stopped := sc.Start()

	return func() {
		stopped <- true
	}, nil
}

// processEvent runs the first action triggered by the event and sends its answer, if any
func (p *Parsley) processEvent(ctx context.Context, driver chatDriver, self Identity, e IncomingEvent) {
	d := measure(func() {
		action, found := p.findAction(&e)
		if !found {
			p.log.Debugf("No action triggered by [%s] event on channel [%s]\n", e.Type, e.Channel)
			return
		}

		answer, err := action.Answer(ctx, &e)
		if err != nil {
			p.log.Printf("Action [%s] failed to answer [%s] event on channel [%s]: %v\n", action.id, e.Type, e.Channel, err)
			p.recordActionError(ctx, action.id)
			return
		}

		if answer == nil {
			return
		}

		if err := p.sendAnswer(driver, self, &e, answer); err != nil {
			p.log.Printf("Unable to send answer from action [%s] to channel [%s]: %v\n", action.id, e.Channel, err)
		}
	})

	p.recordEventProcessed(ctx, e.Type, d)
}

// sendAnswer sends an answer on the channel of the event it answers. Answers to direct mentions are addressed
// to the user (using <@user>) while answers to direct messages and pins are sent as is
func (p *Parsley) sendAnswer(driver chatDriver, self Identity, e *IncomingEvent, answer *Answer) (err error) {
	text := answer.Text
	if e.Type == DirectMention {
		text = fmt.Sprintf("<@%s>: %s", e.User, answer.Text)
	}

	// A pin event isn't a message so there is no thread to reply in unless an answer option says so
	threadedReplies := p.config.GetBool(config.ThreadedRepliesKey) && e.Type != PinAdded

	options := newSendOptions(self, threadedReplies, p.config.GetBool(config.BroadcastThreadedRepliesKey), e, text, ApplyAnswerOpts(answer.Options...))

	_, _, _, err = driver.SendMessage(e.Channel, options...)
	return err
}

// Debugf logs a debug line after checking if the configuration is in debug mode
func (p *Parsley) Debugf(format string, v ...interface{}) {
	p.log.Debugf(format, v...)
}

package plugins

import (
	"fmt"
	"github.com/alexandre-normand/parsley"
	"github.com/alexandre-normand/parsley/actions"
	"github.com/alexandre-normand/parsley/config"
	"github.com/alexandre-normand/parsley/plugin"
	"github.com/alexandre-normand/parsley/schedule"
	"github.com/spf13/cast"
	"runtime"
	"strings"
)

const (
	// HeapReporterPluginName holds identifying name for the heap reporter plugin
	HeapReporterPluginName = "heapReporter"
)

// Configuration keys of the heap reporter plugin (under plugins.heapReporter)
const (
	ChannelIDKey = "channelID" // Channel the report is posted to, string value. Required
	IntervalKey  = "interval"  // Interval of the schedule, int value. Defaults to 1
	UnitKey      = "unit"      // Unit of the schedule (see schedule units), string value. Defaults to "days"
	AtTimeKey    = "atTime"    // Optional time of day of the schedule (i.e. "10:30"), string value
)

const bytesPerMB = 1024 * 1024

// HeapReporter holds the plugin data for the heap reporter plugin
type HeapReporter struct {
	*parsley.Plugin

	channelID string
	readStats func(*runtime.MemStats)
}

// NewHeapReporter creates a new instance of the heap reporter plugin that posts heap utilization statistics to the
// configured channel on schedule
func NewHeapReporter(conf *config.PluginConfig) (p *parsley.Plugin, err error) {
	hr, err := newHeapReporter(conf, runtime.ReadMemStats)
	if err != nil {
		return nil, err
	}

	return hr.Plugin, nil
}

func newHeapReporter(conf *config.PluginConfig, readStats func(*runtime.MemStats)) (hr *HeapReporter, err error) {
	conf.SetDefault(IntervalKey, 1)
	conf.SetDefault(UnitKey, schedule.Days)

	hr = new(HeapReporter)
	hr.readStats = readStats

	if hr.channelID = conf.GetString(ChannelIDKey); hr.channelID == "" {
		return nil, fmt.Errorf("Missing [%s] configuration key for plugin [%s]", ChannelIDKey, HeapReporterPluginName)
	}

	interval, err := cast.ToUint64E(conf.Get(IntervalKey))
	if err != nil || interval == 0 {
		return nil, fmt.Errorf("Invalid [%s] configuration value [%v] for plugin [%s]", IntervalKey, conf.Get(IntervalKey), HeapReporterPluginName)
	}

	sched := schedule.New().
		EveryN(interval, conf.GetString(UnitKey)).
		AtTime(conf.GetString(AtTimeKey)).
		Build()

	hr.Plugin = plugin.New(HeapReporterPluginName).
		WithScheduledAction(actions.NewScheduledAction().
			WithSchedule(sched).
			WithDescriptionf("Posts heap utilization statistics to <#%s>", hr.channelID).
			WithAction(hr.report).
			Build()).
		Build()

	return hr, nil
}

func (hr *HeapReporter) report() {
	var ms runtime.MemStats
	hr.readStats(&ms)

	hr.RealTimeMsgSender.SendMessage(hr.RealTimeMsgSender.NewOutgoingMessage(FormatHeapUtilization(ms), hr.channelID))
}

// FormatHeapUtilization formats the heap utilization statistics in megabytes. Used memory is the allocated heap,
// free memory is the idle heap not yet returned to the operating system, total memory is the heap obtained from
// the operating system and max memory is everything obtained from the operating system
func FormatHeapUtilization(ms runtime.MemStats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "##### Heap utilization statistics [MB] #####\n")
	fmt.Fprintf(&b, "Used Memory:%d\n", ms.HeapAlloc/bytesPerMB)
	fmt.Fprintf(&b, "Free Memory:%d\n", (ms.HeapIdle-ms.HeapReleased)/bytesPerMB)
	fmt.Fprintf(&b, "Total Memory:%d\n", ms.HeapSys/bytesPerMB)
	fmt.Fprintf(&b, "Max Memory:%d", ms.Sys/bytesPerMB)

	return b.String()
}

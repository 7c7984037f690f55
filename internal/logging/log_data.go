package logging

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LogData gathers fields and millisecond timings for one unit of work and
// emits them together on a single entry. Safe for concurrent use.
type LogData struct {
	mu        sync.Mutex
	timeItems map[string]int64
	dataItems logrus.Fields
	logger    logrus.FieldLogger
}

func NewLogData(logger logrus.FieldLogger) *LogData {
	return &LogData{
		timeItems: make(map[string]int64),
		dataItems: make(logrus.Fields),
		logger:    logger,
	}
}

// AddTiming starts a timer; calling the returned func records the elapsed
// milliseconds under entryName, replacing any earlier value.
func (l *LogData) AddTiming(entryName string) func() {
	return l.timer(entryName, false)
}

// AddToExistingTiming is AddTiming but accumulates into entryName.
func (l *LogData) AddToExistingTiming(entryName string) func() {
	return l.timer(entryName, true)
}

func (l *LogData) timer(entryName string, accumulate bool) func() {
	startTime := time.Now()

	return func() {
		elapsed := time.Since(startTime).Milliseconds()
		l.mu.Lock()
		defer l.mu.Unlock()
		if accumulate {
			l.timeItems[entryName] += elapsed
			return
		}
		l.timeItems[entryName] = elapsed
	}
}

func (l *LogData) AddData(key string, value interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dataItems[key] = value
}

func (l *LogData) Log() *logrus.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(logrus.Fields, len(l.dataItems)+len(l.timeItems))
	for key, value := range l.dataItems {
		fields[key] = value
	}
	for key, value := range l.timeItems {
		fields[key] = value
	}

	return l.logger.WithFields(fields)
}

package logging

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, SetupLogging("debug").Level)
	assert.Equal(t, logrus.InfoLevel, SetupLogging("loud").Level)
}

func TestLogData_Log(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logData := NewLogData(logger)

	logData.AddData("frequency", "monthly")
	endTimer := logData.AddTiming("generateMs")
	endTimer()
	logData.Log().Info("done")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "monthly", entry.Data["frequency"])
	assert.Contains(t, entry.Data, "generateMs")
}

func TestLogData_AddToExistingTiming(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logData := NewLogData(logger)

	logData.AddToExistingTiming("chunksMs")()
	logData.AddToExistingTiming("chunksMs")()
	logData.Log().Info("done")

	assert.Contains(t, hook.LastEntry().Data, "chunksMs")
}

func TestLoggingWrapper(t *testing.T) {
	logger, hook := test.NewNullLogger()

	ok := LoggingWrapper("Ok", logger, func(w http.ResponseWriter, _ *http.Request, _ *LogData) error {
		w.WriteHeader(http.StatusOK)
		return nil
	})
	ok(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "Handler.Ok.Complete", hook.LastEntry().Message)

	failing := LoggingWrapper("Failing", logger, func(http.ResponseWriter, *http.Request, *LogData) error {
		return errors.New("boom")
	})
	failing(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "Handler.Failing.Error", hook.LastEntry().Message)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

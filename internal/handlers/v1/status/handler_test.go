package status

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/recurring-server/internal/logging"
)

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		wantStatus int
		wantErr    bool
	}{
		{name: "get", method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "post", method: http.MethodPost, wantStatus: http.StatusBadRequest, wantErr: true},
		{name: "delete", method: http.MethodDelete, wantStatus: http.StatusBadRequest, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			logData := logging.NewLogData(logger)
			statusHandler := NewHandler()
			w := httptest.NewRecorder()

			err := statusHandler.Handler(w, httptest.NewRequest(tt.method, "/status", nil), logData)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantStatus, w.Result().StatusCode)

			logData.Log().Info("logged")
			assert.Equal(t, tt.method, hook.LastEntry().Data["method"])
		})
	}
}

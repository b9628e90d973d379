package health

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReporter struct {
	name   string
	ready  error
	report map[string]error
}

func (f fakeReporter) Name() string                   { return f.name }
func (f fakeReporter) Ready() error                   { return f.ready }
func (f fakeReporter) HealthReport() map[string]error { return f.report }

func TestCheck(t *testing.T) {
	t.Run("all ready", func(t *testing.T) {
		resp := Check(fakeReporter{name: "a"}, fakeReporter{name: "b", report: map[string]error{"b.sub": nil}})
		assert.Equal(t, Ready, resp.Status)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		require.Len(t, resp.Services, 2)
		assert.Nil(t, resp.Services[0].Report)
		assert.Equal(t, map[string]string{"b.sub": "ready"}, resp.Services[1].Report)
	})

	t.Run("one not ready", func(t *testing.T) {
		resp := Check(
			fakeReporter{name: "a"},
			fakeReporter{name: "b", ready: errors.New("stopped"), report: map[string]error{"b": errors.New("stopped")}},
		)
		assert.Equal(t, NotReady, resp.Status)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode())
		assert.Equal(t, "stopped", resp.Services[1].Error)
		assert.Equal(t, map[string]string{"b": "stopped"}, resp.Services[1].Report)
	})

	t.Run("no reporters", func(t *testing.T) {
		resp := Check()
		assert.Equal(t, Ready, resp.Status)
		assert.Empty(t, resp.Services)
	})
}

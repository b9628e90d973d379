package health

import (
	"net/http"

	"github.com/smartcontractkit/chainlink-common/pkg/services"
)

type ServiceStatus string

const (
	Ready    ServiceStatus = "ready"
	NotReady ServiceStatus = "not_ready"
)

type ReadinessResponse struct {
	Status   ServiceStatus   `json:"status"`
	Services []ServiceHealth `json:"services"`
}

type ServiceHealth struct {
	Name   string            `json:"name"`
	Status ServiceStatus     `json:"status"`
	Error  string            `json:"error,omitempty"`
	Report map[string]string `json:"report,omitempty"`
}

// Check builds a readiness response from every reporter. Any reporter that is not ready
// makes the whole response not ready.
func Check(reporters ...services.HealthReporter) ReadinessResponse {
	resp := ReadinessResponse{Status: Ready, Services: make([]ServiceHealth, 0, len(reporters))}
	for _, r := range reporters {
		sh := newServiceHealth(r)
		if sh.Status == NotReady {
			resp.Status = NotReady
		}
		resp.Services = append(resp.Services, sh)
	}
	return resp
}

func (r *ReadinessResponse) StatusCode() int {
	if r.Status == Ready {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

func newServiceHealth(reporter services.HealthReporter) ServiceHealth {
	sh := ServiceHealth{Name: reporter.Name(), Status: Ready}
	if err := reporter.Ready(); err != nil {
		sh.Status = NotReady
		sh.Error = err.Error()
	}
	for name, err := range reporter.HealthReport() {
		if sh.Report == nil {
			sh.Report = make(map[string]string)
		}
		if err != nil {
			sh.Report[name] = err.Error()
		} else {
			sh.Report[name] = string(Ready)
		}
	}
	return sh
}

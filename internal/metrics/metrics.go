// Package metrics holds the domain counters exported on /metrics next to the HTTP ones.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives domain events worth counting.
type Recorder interface {
	ClientCreated()
	BucketProvisioned(status string)
	TokenExchanged(outcome string)
}

// Domain implements Recorder with prometheus counters.
type Domain struct {
	clientsCreated   prometheus.Counter
	bucketProvisions *prometheus.CounterVec
	tokenExchanges   *prometheus.CounterVec
}

// NewDomain creates the domain counters and registers them on reg.
func NewDomain(reg prometheus.Registerer) (*Domain, error) {
	d := &Domain{
		clientsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clients_created_total",
			Help: "Total number of client configurations created.",
		}),
		bucketProvisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bucket_provisions_total",
				Help: "Bucket provisioning attempts by outcome.",
			},
			[]string{"status"},
		),
		tokenExchanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_token_exchanges_total",
				Help: "Google ID token exchanges by outcome.",
			},
			[]string{"outcome"},
		),
	}

	for _, c := range []prometheus.Collector{d.clientsCreated, d.bucketProvisions, d.tokenExchanges} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Domain) ClientCreated() { d.clientsCreated.Inc() }

func (d *Domain) BucketProvisioned(status string) {
	d.bucketProvisions.WithLabelValues(status).Inc()
}

func (d *Domain) TokenExchanged(outcome string) {
	d.tokenExchanges.WithLabelValues(outcome).Inc()
}

type nop struct{}

// Nop returns a Recorder that drops every event.
func Nop() Recorder { return nop{} }

func (nop) ClientCreated()           {}
func (nop) BucketProvisioned(string) {}
func (nop) TokenExchanged(string)    {}

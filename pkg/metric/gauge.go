package metric

import "github.com/prometheus/client_golang/prometheus"

// UpDownGauge tracks a value that rises and falls, such as open sessions.
type UpDownGauge interface {
	Inc()
	Dec()
}

type Gauge struct {
	Name string
	Help string

	g prometheus.Gauge
}

func (g *Gauge) Inc() { g.g.Inc() }

func (g *Gauge) Dec() { g.g.Dec() }

func NewGaugeWithRegistry(reg prometheus.Registerer, name, help string) UpDownGauge {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
	})

	reg.MustRegister(gauge)

	return &Gauge{
		Name: name,
		Help: help,
		g:    gauge,
	}
}

// NopGauge is a gauge that records nothing.
var NopGauge UpDownGauge = nopGauge{}

type nopGauge struct{}

func (nopGauge) Inc() {}
func (nopGauge) Dec() {}

// Package stats exports Prometheus metrics for property block encoding and decoding.
package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	opEncode = "encode"
	opDecode = "decode"
)

// Collector counts encoded and decoded property blocks. A nil *Collector is
// valid and records nothing.
type Collector struct {
	Encoded    prometheus.Counter
	Decoded    prometheus.Counter
	Errors     *prometheus.CounterVec
	BlockBytes *prometheus.HistogramVec
}

// NewCollector returns a Collector with unregistered metrics.
func NewCollector() *Collector {
	return &Collector{
		Encoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_properties_encoded_total",
			Help: "The total number of MQTT property blocks encoded",
		}),
		Decoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_properties_decoded_total",
			Help: "The total number of MQTT property blocks decoded",
		}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mqtt_properties_errors_total",
			Help: "The total number of failed property block operations",
		}, []string{"op"}),
		BlockBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mqtt_properties_block_bytes",
			Help:    "Size of encoded or decoded property blocks in bytes",
			Buckets: prometheus.ExponentialBuckets(4, 4, 8),
		}, []string{"op"}),
	}
}

// Register registers every metric with reg, or with the default registerer
// when reg is nil.
func (c *Collector) Register(reg prometheus.Registerer) error {
	if c == nil {
		return nil
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, m := range []prometheus.Collector{c.Encoded, c.Decoded, c.Errors, c.BlockBytes} {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is like Register but panics on failure.
func (c *Collector) MustRegister(reg prometheus.Registerer) {
	if err := c.Register(reg); err != nil {
		panic(err)
	}
}

// ObserveEncode records an encode of n bytes that finished with err.
func (c *Collector) ObserveEncode(n int, err error) {
	c.observe(opEncode, c.encoded(), n, err)
}

// ObserveDecode records a decode of n bytes that finished with err.
func (c *Collector) ObserveDecode(n int, err error) {
	c.observe(opDecode, c.decoded(), n, err)
}

func (c *Collector) encoded() prometheus.Counter {
	if c == nil {
		return nil
	}
	return c.Encoded
}

func (c *Collector) decoded() prometheus.Counter {
	if c == nil {
		return nil
	}
	return c.Decoded
}

func (c *Collector) observe(op string, ok prometheus.Counter, n int, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.Errors.WithLabelValues(op).Inc()
		return
	}
	ok.Inc()
	c.BlockBytes.WithLabelValues(op).Observe(float64(n))
}

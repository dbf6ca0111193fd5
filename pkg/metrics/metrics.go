// Package metrics holds the Prometheus collectors of the service.
// All methods are safe to call on a nil *Metrics, which disables recording.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	serviceName string

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Database
	DBQueryDuration     *prometheus.HistogramVec
	DBQueryErrors       *prometheus.CounterVec
	DBOpenConnections   *prometheus.GaugeVec
	DBInUseConnections  *prometheus.GaugeVec
	DBIdleConnections   *prometheus.GaugeVec
	DBWaitCount         *prometheus.GaugeVec
	DBWaitDurationTotal *prometheus.GaugeVec

	// Domain
	AppointmentsCreated *prometheus.CounterVec
	BookingConflicts    *prometheus.CounterVec
	SlotsReturned       *prometheus.HistogramVec
	StatusTransitions   *prometheus.CounterVec
	OutboxPublished     *prometheus.CounterVec
}

// New registers collectors in the default Prometheus registry
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers collectors in reg
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		HTTPRequestsInFlight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests being served",
		}, []string{"service"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),

		DBInUseConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdleConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		DBWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		DBWaitDurationTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_duration_seconds_total",
			Help: "Total time blocked waiting for a new connection",
		}, []string{"service"}),

		AppointmentsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appointments_created_total",
			Help: "Appointments created, by initial status",
		}, []string{"service", "status"}),

		BookingConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_conflicts_total",
			Help: "Booking attempts rejected because the interval was taken",
		}, []string{"service", "stage"}),

		SlotsReturned: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "available_slots_returned",
			Help:    "Number of available start times returned per request",
			Buckets: []float64{0, 1, 5, 10, 20, 40, 80},
		}, []string{"service"}),

		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appointment_status_transitions_total",
			Help: "Appointment status transitions",
		}, []string{"service", "from", "to"}),

		OutboxPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "outbox_events_published_total",
			Help: "Appointment events relayed to the broker",
		}, []string{"service", "result"}),
	}
}

func (m *Metrics) ServiceName() string {
	if m == nil {
		return ""
	}
	return m.serviceName
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

func (m *Metrics) IncInFlight() {
	if m == nil {
		return
	}
	m.HTTPRequestsInFlight.WithLabelValues(m.serviceName).Inc()
}

func (m *Metrics) DecInFlight() {
	if m == nil {
		return
	}
	m.HTTPRequestsInFlight.WithLabelValues(m.serviceName).Dec()
}

func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(m.serviceName, operation).Inc()
	}
}

func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64, waitDuration time.Duration) {
	if m == nil {
		return
	}
	m.DBOpenConnections.WithLabelValues(m.serviceName).Set(float64(open))
	m.DBInUseConnections.WithLabelValues(m.serviceName).Set(float64(inUse))
	m.DBIdleConnections.WithLabelValues(m.serviceName).Set(float64(idle))
	m.DBWaitCount.WithLabelValues(m.serviceName).Set(float64(waitCount))
	m.DBWaitDurationTotal.WithLabelValues(m.serviceName).Set(waitDuration.Seconds())
}

func (m *Metrics) IncAppointmentCreated(status string) {
	if m == nil {
		return
	}
	m.AppointmentsCreated.WithLabelValues(m.serviceName, status).Inc()
}

// IncBookingConflict counts rejected bookings; stage is "recheck" or "storage"
func (m *Metrics) IncBookingConflict(stage string) {
	if m == nil {
		return
	}
	m.BookingConflicts.WithLabelValues(m.serviceName, stage).Inc()
}

func (m *Metrics) ObserveSlotsReturned(count int) {
	if m == nil {
		return
	}
	m.SlotsReturned.WithLabelValues(m.serviceName).Observe(float64(count))
}

func (m *Metrics) IncStatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(m.serviceName, from, to).Inc()
}

func (m *Metrics) AddOutboxPublished(result string, count int) {
	if m == nil {
		return
	}
	m.OutboxPublished.WithLabelValues(m.serviceName, result).Add(float64(count))
}

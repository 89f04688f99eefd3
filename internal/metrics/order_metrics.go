package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Причины провала создания заказа для лейбла reason.
const (
	FailReasonUserValidation = "user_validation"
	FailReasonPayment        = "payment"
)

// OrderMetrics содержит метрики жизненного цикла заказов.
type OrderMetrics struct {
	ordersCreated        prometheus.Counter
	ordersFailed         *prometheus.CounterVec
	statusUpdates        prometheus.Counter
	notificationFailures prometheus.Counter

	createDuration prometheus.Histogram

	activeCreations prometheus.Gauge
}

// NewOrderMetrics создаёт метрики в default-регистраторе Prometheus.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders created with completed payment",
		}),
		ordersFailed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_create_failed_total",
			Help: "Total number of failed order creations by reason",
		}, []string{"reason"}),
		statusUpdates: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_status_updates_total",
			Help: "Total number of administrative status updates",
		}),
		notificationFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_notification_failures_total",
			Help: "Total number of swallowed notification failures",
		}),
		createDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "orders_create_duration_seconds",
			Help:    "Duration of order creation flow in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		activeCreations: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "orders_active_creations",
			Help: "Number of currently running order creation flows",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик успешно созданных заказов.
func (m *OrderMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordCreateFailed увеличивает счётчик провалов по причине.
func (m *OrderMetrics) RecordCreateFailed(reason string) {
	m.ordersFailed.WithLabelValues(reason).Inc()
}

// RecordStatusUpdate увеличивает счётчик административных смен статуса.
func (m *OrderMetrics) RecordStatusUpdate() {
	m.statusUpdates.Inc()
}

// RecordNotificationFailure увеличивает счётчик проглоченных ошибок уведомлений.
func (m *OrderMetrics) RecordNotificationFailure() {
	m.notificationFailures.Inc()
}

// RecordCreateDuration записывает длительность саги создания.
func (m *OrderMetrics) RecordCreateDuration(duration time.Duration) {
	m.createDuration.Observe(duration.Seconds())
}

// RecordCreateStarted увеличивает количество активных саг создания.
func (m *OrderMetrics) RecordCreateStarted() {
	m.activeCreations.Inc()
}

// RecordCreateFinished уменьшает количество активных саг создания.
func (m *OrderMetrics) RecordCreateFinished() {
	m.activeCreations.Dec()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barbershop_orders_created_total",
		Help: "Total number of bookings successfully stored.",
	})

	ReviewsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barbershop_reviews_created_total",
		Help: "Total number of reviews successfully stored.",
	})

	ReviewModerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barbershop_review_moderations_total",
		Help: "Total number of review moderation decisions by resulting state.",
	},
		[]string{"state"},
	)

	StorageErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barbershop_storage_errors_total",
		Help: "Total number of failed collection writes.",
	},
		[]string{"collection"},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barbershop_login_attempts_total",
		Help: "Total number of admin login attempts by result.",
	},
		[]string{"result"},
	)
)

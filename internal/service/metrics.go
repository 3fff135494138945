package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "files_manager_sessions_total",
		Help: "Session operations by result.",
	}, []string{"operation", "result"})

	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "files_manager_uploads_total",
		Help: "Created file records by type.",
	}, []string{"type"})

	jobsEnqueuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "files_manager_jobs_enqueued_total",
		Help: "Background jobs published, by queue and result.",
	}, []string{"queue", "result"})
)

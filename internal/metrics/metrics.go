// Package metrics регистрирует счётчики Prometheus для наблюдения
// за работой слоя контроля доступа и рассмотрением заявок.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AccessDenied считает отказы в доступе по причинам:
// forbidden, quota_exceeded.
var AccessDenied = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "factory_monitor_access_denied_total",
	Help: "Количество отказов слоя контроля доступа по причинам.",
}, []string{"reason"})

// ApplicationsReviewed считает рассмотренные заявки по итоговому статусу.
var ApplicationsReviewed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "factory_monitor_applications_reviewed_total",
	Help: "Количество рассмотренных заявок по итоговому статусу.",
}, []string{"status"})

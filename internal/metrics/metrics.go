// Package metrics 定义服务的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal 按方法、路由、状态码统计的请求数
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moovie_http_requests_total",
		Help: "The total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// RequestDuration 请求耗时
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moovie_http_request_duration_seconds",
		Help:    "The HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AuthFailuresTotal 会话校验失败次数
	AuthFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moovie_auth_failures_total",
		Help: "The total number of rejected bearer credentials",
	}, []string{"reason"})

	// WatchlistOperationsTotal 片单操作结果
	WatchlistOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moovie_watchlist_operations_total",
		Help: "The total number of watchlist operations by result",
	}, []string{"operation", "result"})

	// CatalogRequestsTotal 外部影片库请求结果
	CatalogRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moovie_catalog_requests_total",
		Help: "The total number of external catalog lookups by result",
	}, []string{"kind", "result"})
)

// Package metrics expone las métricas Prometheus del servicio: tráfico HTTP,
// resultado de validaciones de token y estado del pool de Postgres.
package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once
	registerErr  error

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	tokenValidationsTotal *prometheus.CounterVec
	tokensIssuedTotal     *prometheus.CounterVec
	tokensRevokedTotal    prometheus.Counter
	revocationCacheTotal  *prometheus.CounterVec
)

// Config agrupa lo necesario para registrar las métricas y exponer /metrics.
type Config struct {
	Registry prometheus.Registerer
	// Pool, si está, registra un collector con el estado del pgxpool global.
	Pool func() *pgxpool.Pool
}

// Register inicializa las métricas y devuelve el handler para /metrics.
// Idempotente: llamadas posteriores reutilizan el registro de la primera.
func Register(cfg Config) (http.Handler, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		tokenValidationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "token_validations_total",
			Help: "Validaciones de token por resultado",
		}, []string{"result"}) // valid|malformed|bad_signature|expired|revoked|user_not_found|store_unavailable

		tokensIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tokens_issued_total",
			Help: "Tokens emitidos por tipo",
		}, []string{"use"}) // access|refresh

		tokensRevokedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tokens_revoked_total",
			Help: "Tokens agregados a la blacklist",
		})

		revocationCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "revocation_cache_lookups_total",
			Help: "Lookups al cache de revocación por resultado",
		}, []string{"result"}) // hit|miss|error

		for _, c := range []prometheus.Collector{
			httpRequestsTotal, httpRequestDuration,
			tokenValidationsTotal, tokensIssuedTotal,
			tokensRevokedTotal, revocationCacheTotal,
		} {
			if err := registerCollector(registry, c); err != nil {
				registerErr = err
				return
			}
		}
	})
	if registerErr != nil {
		return nil, registerErr
	}

	if cfg.Pool != nil {
		if err := registerCollector(registry, newPoolCollector(cfg.Pool)); err != nil {
			return nil, err
		}
	}

	// Gatherer global por compatibilidad: las métricas viven allí.
	return promhttp.Handler(), nil
}

// ObserveHTTPRequest registra un request terminado. No-op si Register no corrió.
func ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	if httpRequestsTotal == nil || httpRequestDuration == nil {
		return
	}
	m := strings.ToUpper(method)
	p := normalizePath(path)
	httpRequestsTotal.WithLabelValues(m, p, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(m, p).Observe(elapsed.Seconds())
}

// ObserveTokenValidation registra el resultado de una validación.
func ObserveTokenValidation(result string) {
	if tokenValidationsTotal != nil {
		tokenValidationsTotal.WithLabelValues(result).Inc()
	}
}

// ObserveTokenIssued registra un token emitido ("access" o "refresh").
func ObserveTokenIssued(use string) {
	if tokensIssuedTotal != nil {
		tokensIssuedTotal.WithLabelValues(use).Inc()
	}
}

// ObserveTokenRevoked registra una revocación explícita.
func ObserveTokenRevoked() {
	if tokensRevokedTotal != nil {
		tokensRevokedTotal.Inc()
	}
}

// ObserveRevocationCache registra un lookup al cache ("hit", "miss" o "error").
func ObserveRevocationCache(result string) {
	if revocationCacheTotal != nil {
		revocationCacheTotal.WithLabelValues(result).Inc()
	}
}

func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// poolCollector expone gauges con el estado del pgxpool.
type poolCollector struct {
	pool func() *pgxpool.Pool

	acquiredDesc *prometheus.Desc
	idleDesc     *prometheus.Desc
	totalDesc    *prometheus.Desc
}

func newPoolCollector(pool func() *pgxpool.Pool) *poolCollector {
	return &poolCollector{
		pool:         pool,
		acquiredDesc: prometheus.NewDesc("pg_pool_acquired", "Conexiones adquiridas", nil, nil),
		idleDesc:     prometheus.NewDesc("pg_pool_idle", "Conexiones inactivas", nil, nil),
		totalDesc:    prometheus.NewDesc("pg_pool_total", "Conexiones totales", nil, nil),
	}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredDesc
	ch <- c.idleDesc
	ch <- c.totalDesc
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	pool := c.pool()
	if pool == nil {
		return
	}
	stat := pool.Stat()
	if stat == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.acquiredDesc, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.GaugeValue, float64(stat.TotalConns()))
}

var (
	uuidSegmentRE  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F-]{4}-[0-9a-fA-F-]{4,}$`)
	hexSegmentRE   = regexp.MustCompile(`^[0-9a-fA-F]{16,}$`)
	tokenSegmentRE = regexp.MustCompile(`^[A-Za-z0-9_-]{24,}$`)
)

// normalizePath colapsa segmentos dinámicos (ids, tokens) a :param para
// acotar la cardinalidad de los labels.
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	clean := strings.SplitN(p, "?", 2)[0]
	if !strings.HasPrefix(clean, "/") {
		clean = "/" + clean
	}

	segments := strings.Split(clean, "/")
	var out []string
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if isDynamicSegment(seg) {
			out = append(out, ":param")
		} else {
			out = append(out, seg)
		}
	}
	if len(out) == 0 {
		return "/"
	}
	return "/" + strings.Join(out, "/")
}

func isDynamicSegment(seg string) bool {
	if len(seg) > 48 {
		return true
	}
	if uuidSegmentRE.MatchString(seg) || hexSegmentRE.MatchString(seg) || tokenSegmentRE.MatchString(seg) {
		return true
	}
	if _, err := strconv.Atoi(seg); err == nil {
		return true
	}
	return false
}

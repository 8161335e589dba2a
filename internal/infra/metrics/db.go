package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobStoreConns) }

// jobStoreConns mirrors sql.DBStats for SQLite and pgxpool.Stat for Postgres.
var jobStoreConns = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "job_store_connections",
		Help: "Connections held by the job store, by driver and state (open, idle, in_use).",
	},
	[]string{"driver", "state"},
)

// SetJobStoreConns records the job store's connection counts after a query.
func SetJobStoreConns(driver string, open, idle, inUse int) {
	d := norm(driver)
	jobStoreConns.WithLabelValues(d, "open").Set(float64(open))
	jobStoreConns.WithLabelValues(d, "idle").Set(float64(idle))
	jobStoreConns.WithLabelValues(d, "in_use").Set(float64(inUse))
}

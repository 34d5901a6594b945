package metric

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterDBStats exposes the connection pool statistics of the given
// database handle.
func RegisterDBStats(db *sql.DB, dbName string) {
	register(collectors.NewDBStatsCollector(db, dbName), "go_sql_stats")
}

// Handler returns the HTTP handler serving the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

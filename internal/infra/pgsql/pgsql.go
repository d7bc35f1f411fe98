package pgsql

import (
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
)

const (
	dialectPostgres = "postgres"

	TableSlots            = "slots"
	TableAppointments     = "appointments"
	TableVehicles         = "vehicles"
	TableServices         = "services"
	TableUsers            = "users"
	TableNotificationJobs = "notification_jobs"
)

var dialect = goqu.Dialect(dialectPostgres)

// Dialect returns the postgres statement builder. Statements render with $n placeholders.
func Dialect() goqu.DialectWrapper {
	return dialect
}

type statement interface {
	ToSQL() (string, []any, error)
}

// Build renders ds as a prepared statement.
func Build(ds statement) (string, []any, error) {
	switch s := ds.(type) {
	case *goqu.SelectDataset:
		return s.Prepared(true).ToSQL()
	case *goqu.InsertDataset:
		return s.Prepared(true).ToSQL()
	case *goqu.UpdateDataset:
		return s.Prepared(true).ToSQL()
	case *goqu.DeleteDataset:
		return s.Prepared(true).ToSQL()
	default:
		return ds.ToSQL()
	}
}

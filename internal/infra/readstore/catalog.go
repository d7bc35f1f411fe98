package readstore

import (
	"context"

	"garage-booking/internal/infra"
	"garage-booking/internal/infra/db"
	"garage-booking/internal/infra/pgsql"
	"garage-booking/internal/pkg/pgconv"
	"garage-booking/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
)

// CatalogReadStore serves the vehicle and service lookups reservations depend on.
type CatalogReadStore struct {
	db db.DBTX
}

func NewCatalogReadStore(db db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{db: db}
}

func (r *CatalogReadStore) VehicleByID(ctx context.Context, id int64) (*shared.VehicleSnapshot, error) {
	query, args, err := pgsql.Build(
		pgsql.Dialect().From(pgsql.TableVehicles).
			Select("id", "user_id", "model", "plate_no").
			Where(goqu.C("id").Eq(id)),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build vehicle query", err)
	}

	var v shared.VehicleSnapshot
	if err := r.db.QueryRow(ctx, query, args...).Scan(&v.ID, &v.UserID, &v.Model, &v.PlateNo); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find vehicle by ID", err)
	}
	return &v, nil
}

func (r *CatalogReadStore) ServiceByID(ctx context.Context, id int64) (*shared.ServiceSnapshot, error) {
	query, args, err := pgsql.Build(
		pgsql.Dialect().From(pgsql.TableServices).
			Select("id", "name", "is_active").
			Where(goqu.C("id").Eq(id)),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build service query", err)
	}

	var s shared.ServiceSnapshot
	if err := r.db.QueryRow(ctx, query, args...).Scan(&s.ID, &s.Name, &s.IsActive); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("service not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find service by ID", err)
	}
	return &s, nil
}

package boleta

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type resultRowRepoPG struct{ pool *pgxpool.Pool }

// NewResultRowRepoPG returns the labsis PostgreSQL implementation of
// ResultRowRepository.
func NewResultRowRepoPG(pool *pgxpool.Pool) ResultRowRepository {
	return &resultRowRepoPG{pool: pool}
}

// Timestamp columns are cast to text so the normalizer owns every
// parse decision (and its degrade-to-absent policy) instead of the
// driver.
const rangeQuery = `
	SELECT ot.num_ingreso, ot.fecha_toma_muestra::text,
	       p.nombre, p.apellido, p.sexo, p.ci_paciente,
	       rn.actualizado_timestamp::text, rn.valor::text, pr.id,
	       otde.edad_dias, otde.edad_horas,
	       sm.codigo_bloom, sm.codigo_dtic, otde.fecha_recepcion::text,
	       ra.valor, ra.validado_por, ra.actualizado_timestamp::text,
	       otde."update"
	FROM orden_trabajo ot
	LEFT JOIN paciente p ON ot.paciente_id = p.id
	LEFT JOIN prueba_orden po ON ot.id = po.orden_id
	LEFT JOIN resultado_numer rn ON po.id = rn.pruebao_id
	LEFT JOIN prueba pr ON pr.id = po.prueba_id
	LEFT JOIN orden_trabajo_datos_extra otde ON ot.id = otde.orden_id
	LEFT JOIN servicio_medico sm ON ot.servicio_medico_id = sm.id
	LEFT JOIN resultado_alpha ra ON po.id = ra.pruebao_id
	WHERE otde.fecha_recepcion BETWEEN $1 AND $2
	ORDER BY otde.fecha_recepcion ASC`

func (r *resultRowRepoPG) StreamByReceptionRange(ctx context.Context, from, to string, fn func(*RawResultRow) error) error {
	rows, err := r.pool.Query(ctx, rangeQuery, from, to)
	if err != nil {
		return fmt.Errorf("query result rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row RawResultRow
		if err := rows.Scan(&row.OrderID, &row.SampleTakenAt,
			&row.FirstName, &row.LastName, &row.Sex, &row.PatientCI,
			&row.NumericUpdatedAt, &row.NumericValue, &row.TestID,
			&row.AgeDays, &row.AgeHours,
			&row.BloomCode, &row.DTICCode, &row.ReceptionAt,
			&row.AlphaValue, &row.ValidatedBy, &row.AlphaUpdatedAt,
			&row.UpdateNote); err != nil {
			return fmt.Errorf("scan result row: %w", err)
		}
		if err := fn(&row); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate result rows: %w", err)
	}
	return nil
}

func (r *resultRowRepoPG) UpdateAnnotation(ctx context.Context, orderID, value string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orden_trabajo_datos_extra otde SET "update" = $2
		FROM orden_trabajo ot
		WHERE otde.orden_id = ot.id AND ot.num_ingreso = $1`,
		orderID, value)
	if err != nil {
		return fmt.Errorf("update annotation for order %s: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

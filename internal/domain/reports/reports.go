package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"intranet/internal/platform/querier"
)

// PendingRow is one line of the open-requests report.
type PendingRow struct {
	RequestID string    `json:"requestId"`
	Employee  string    `json:"employee"`
	Unit      string    `json:"unit"`
	Type      string    `json:"type"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Days      int       `json:"days"`
	Status    string    `json:"status"`
}

// BalanceRow is one line of the balances overview.
type BalanceRow struct {
	Employee          string `json:"employee"`
	Unit              string `json:"unit"`
	VacationDays      int    `json:"vacationDays"`
	AdminDays         int    `json:"adminDays"`
	CompensationHours int    `json:"compensationHours"`
	Year              int    `json:"year"`
}

type Service struct {
	DB querier.Querier
}

func NewService(db querier.Querier) *Service {
	return &Service{DB: db}
}

// PendingRequests lists every request still awaiting a decision, oldest first.
func (s *Service) PendingRequests(ctx context.Context) ([]PendingRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, e.first_name || ' ' || e.last_name, e.unit,
           r.type, r.start_date, r.end_date, r.days, r.status
    FROM leave_requests r
    JOIN employees e ON e.id = r.employee_id
    WHERE r.status IN ('Pendiente', 'Pre-Aprobado')
    ORDER BY r.created_at
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingRow
	for rows.Next() {
		var row PendingRow
		if err := rows.Scan(&row.RequestID, &row.Employee, &row.Unit,
			&row.Type, &row.StartDate, &row.EndDate, &row.Days, &row.Status); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// BalancesOverview lists the current ledger for every active employee.
func (s *Service) BalancesOverview(ctx context.Context) ([]BalanceRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.first_name || ' ' || e.last_name, e.unit,
           b.vacation_days, b.admin_days, b.compensation_hours, b.year
    FROM balances b
    JOIN employees e ON e.id = b.employee_id
    WHERE e.active
    ORDER BY e.last_name, e.first_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BalanceRow
	for rows.Next() {
		var row BalanceRow
		if err := rows.Scan(&row.Employee, &row.Unit,
			&row.VacationDays, &row.AdminDays, &row.CompensationHours, &row.Year); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// PendingRequestsPDF renders the open-requests report as a PDF document.
func (s *Service) PendingRequestsPDF(ctx context.Context) ([]byte, error) {
	report, err := s.PendingRequests(ctx)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Solicitudes Pendientes")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generado: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(55, 7, "Funcionario", "1", 0, "", false, 0, "")
	pdf.CellFormat(35, 7, "Unidad", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Tipo", "1", 0, "", false, 0, "")
	pdf.CellFormat(45, 7, "Fechas", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 7, "Estado", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range report {
		dates := fmt.Sprintf("%s a %s", row.StartDate.Format("2006-01-02"), row.EndDate.Format("2006-01-02"))
		pdf.CellFormat(55, 7, row.Employee, "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 7, row.Unit, "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, row.Type, "1", 0, "", false, 0, "")
		pdf.CellFormat(45, 7, dates, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 7, row.Status, "1", 1, "", false, 0, "")
	}
	if len(report) == 0 {
		pdf.Cell(0, 8, "No hay solicitudes pendientes.")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BalancesPDF renders the balances overview as a PDF document.
func (s *Service) BalancesPDF(ctx context.Context) ([]byte, error) {
	overview, err := s.BalancesOverview(ctx)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Saldos de Funcionarios")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 7, "Funcionario", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 7, "Unidad", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Vacaciones", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Admin.", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Comp. (hrs)", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range overview {
		pdf.CellFormat(60, 7, row.Employee, "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 7, row.Unit, "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", row.VacationDays), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", row.AdminDays), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", row.CompensationHours), "1", 1, "", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

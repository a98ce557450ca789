// Package export renders CRM tables as CSV downloads.
package export

import (
	"encoding/csv"
	"io"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
)

const ContentType = "text/csv; charset=utf-8"

// Table is a header row followed by data rows.
type Table struct {
	Filename string
	Header   []string
	Rows     [][]string
}

// Write emits t as RFC 4180 CSV. Fields containing commas, quotes or line
// breaks are quoted.
func (t Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func Leads(leads []models.Lead) Table {
	t := Table{
		Filename: "leads.csv",
		Header:   []string{"Name", "Phone", "Website", "Address", "Call Status", "Created At"},
		Rows:     make([][]string, 0, len(leads)),
	}
	for _, l := range leads {
		t.Rows = append(t.Rows, []string{
			l.Name, l.Phone, l.Website, l.Address, l.CallStatus,
			l.CreatedAt.UTC().Format("2006-01-02"),
		})
	}
	return t
}

func Projects(projects []models.Project) Table {
	t := Table{
		Filename: "projects.csv",
		Header:   []string{"Client Name", "Contact", "Requirements", "First Payment", "Final Payment", "Status", "Delivery Date"},
		Rows:     make([][]string, 0, len(projects)),
	}
	for _, p := range projects {
		t.Rows = append(t.Rows, []string{
			p.ClientName, p.Contact, p.Requirements,
			p.FirstPaymentDate, p.FinalPaymentDate, p.Status, p.DeliveryDate,
		})
	}
	return t
}

func SupportClients(clients []models.SupportClient) Table {
	t := Table{
		Filename: "support_clients.csv",
		Header:   []string{"Client Name", "Website", "Support Plan", "Start Date", "Renewal Date", "Remark"},
		Rows:     make([][]string, 0, len(clients)),
	}
	for _, s := range clients {
		t.Rows = append(t.Rows, []string{
			s.ClientName, s.Website, s.SupportPlan, s.StartDate, s.RenewalDate, s.Feedback,
		})
	}
	return t
}

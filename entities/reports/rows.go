package reports

import (
	"crm/render"
	"crm/schemas"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// names resolves client ids to company names for display.
type names map[bson.ObjectID]string

func (n names) of(id bson.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	if name, ok := n[id]; ok {
		return name
	}
	return id.Hex()
}

var prospectColumns = []render.Column{
	{Header: "Société"},
	{Header: "Contact"},
	{Header: "E-mail"},
	{Header: "Téléphone", Width: 30},
	{Header: "Source", Width: 28},
	{Header: "Statut", Width: 24},
	{Header: "Créé le", Width: 22},
}

func prospectRow(p schemas.Prospect, _ names) []string {
	return []string{p.Company, p.ContactName, p.Email, p.Phone, p.Source, p.Status, render.FormatDate(p.CreatedAt)}
}

var opportunityColumns = []render.Column{
	{Header: "Titre"},
	{Header: "Client"},
	{Header: "Étape", Width: 26},
	{Header: "Probabilité", Width: 22},
	{Header: "Montant", Width: 28, Numeric: true},
	{Header: "Pondéré", Width: 28, Numeric: true},
	{Header: "Clôture prévue", Width: 26},
}

func opportunityRow(o schemas.Opportunity, clients names) []string {
	return []string{
		o.Title,
		clients.of(o.ClientID),
		o.Stage,
		strconv.Itoa(o.Probability) + " %",
		render.FormatAmount(o.Amount),
		render.FormatAmount(o.WeightedAmount()),
		render.FormatOptionalDate(o.ExpectedCloseDate),
	}
}

var clientColumns = []render.Column{
	{Header: "Société"},
	{Header: "Contact"},
	{Header: "E-mail"},
	{Header: "Téléphone", Width: 30},
	{Header: "Ville", Width: 30},
	{Header: "N° TVA", Width: 32},
	{Header: "Créé le", Width: 22},
}

func clientRow(c schemas.Client, _ names) []string {
	return []string{c.Company, c.ContactName, c.Email, c.Phone, c.Address.City, c.VATNumber, render.FormatDate(c.CreatedAt)}
}

var ticketColumns = []render.Column{
	{Header: "Sujet"},
	{Header: "Client"},
	{Header: "Statut", Width: 22},
	{Header: "Priorité", Width: 22},
	{Header: "Réponses", Width: 20},
	{Header: "Ouvert le", Width: 22},
	{Header: "Résolu le", Width: 22},
}

func ticketRow(t schemas.Ticket, clients names) []string {
	return []string{
		t.Subject,
		clients.of(t.ClientID),
		t.Status,
		t.Priority,
		strconv.Itoa(len(t.Responses)),
		render.FormatDate(t.CreatedAt),
		render.FormatOptionalDate(t.ResolvedAt),
	}
}

var invoiceColumns = []render.Column{
	{Header: "Numéro", Width: 36},
	{Header: "Client"},
	{Header: "Statut", Width: 30},
	{Header: "Émise le", Width: 22},
	{Header: "Échéance", Width: 22},
	{Header: "Total TTC", Width: 26, Numeric: true},
	{Header: "Réglé", Width: 26, Numeric: true},
	{Header: "Solde", Width: 26, Numeric: true},
}

func invoiceRow(inv schemas.Invoice, clients names) []string {
	inv.RefreshStatus(time.Now())

	return []string{
		inv.Number,
		clients.of(inv.ClientID),
		inv.Status,
		render.FormatDate(inv.IssueDate),
		render.FormatOptionalDate(inv.DueDate),
		render.FormatAmount(inv.Total),
		render.FormatAmount(inv.AmountPaid),
		render.FormatAmount(inv.Balance),
	}
}

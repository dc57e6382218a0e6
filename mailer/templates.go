package mailer

import (
	"crm/schemas"
	"fmt"
	"strings"
)

func InvoiceMessage(inv schemas.Invoice, client schemas.Client, pdf []byte) Message {
	body := &strings.Builder{}
	fmt.Fprintf(body, "Bonjour %s,\n\n", client.ContactName)
	fmt.Fprintf(body, "Veuillez trouver ci-joint la facture %s d'un montant de %.2f € TTC.\n", inv.Number, inv.Total)
	if inv.DueDate != nil {
		fmt.Fprintf(body, "Échéance de règlement : %s.\n", inv.DueDate.Format("02/01/2006"))
	}
	if inv.AmountPaid > 0 {
		fmt.Fprintf(body, "Montant déjà réglé : %.2f €. Reste à payer : %.2f €.\n", inv.AmountPaid, inv.Balance)
	}
	body.WriteString("\nCordialement,\nLe service facturation\n")

	return Message{
		To:          client.Email,
		Subject:     fmt.Sprintf("Facture %s", inv.Number),
		Body:        body.String(),
		Attachments: []Attachment{{Name: inv.Number + ".pdf", Data: pdf}},
	}
}

func TicketReplyMessage(ticket schemas.Ticket, response schemas.TicketResponse, to string) Message {
	body := &strings.Builder{}
	body.WriteString("Bonjour,\n\n")
	fmt.Fprintf(body, "Une nouvelle réponse a été ajoutée à votre demande « %s » (statut : %s).\n\n", ticket.Subject, ticket.Status)
	body.WriteString(response.Message)
	body.WriteString("\n\nCordialement,\nLe support\n")

	return Message{
		To:      to,
		Subject: fmt.Sprintf("[Ticket %s] %s", ticket.ID.Hex(), ticket.Subject),
		Body:    body.String(),
	}
}

func WelcomeMessage(user schemas.User, password string) Message {
	body := &strings.Builder{}
	fmt.Fprintf(body, "Bonjour %s,\n\n", user.Name)
	body.WriteString("Votre espace client a été créé.\n")
	fmt.Fprintf(body, "Identifiant : %s\nMot de passe provisoire : %s\n\n", user.Email, password)
	body.WriteString("Merci de le modifier dès votre première connexion.\n\nCordialement,\nL'équipe commerciale\n")

	return Message{
		To:      user.Email,
		Subject: "Bienvenue dans votre espace client",
		Body:    body.String(),
	}
}

package checkout

import (
	"strings"
	"text/template"

	"github.com/tacweb/tacweb/app/models"
)

// MailSender is the transport the confirmation mailer writes to.
type MailSender interface {
	Send(to string, subject string, body string) error
}

const confirmationSubjectTmpl = `Order Confirmation for Order Number {{.Order.OrderNumber}}`

const confirmationBodyTmpl = `Hello {{.Order.FullName}},

This is a confirmation of your order. Your order information is below:

Order Number: {{.Order.OrderNumber}}
Order Date: {{.Order.CreatedAt.Format "02 Jan 2006"}}

Order Total: {{printf "%.2f" .Order.GrandTotal}}

Your order will be shipped to {{with .Order.StreetAddress1}}{{.}}{{end}}{{with .Order.TownOrCity}}, {{.}}{{end}}{{with .Order.Country}}, {{.}}{{end}}.

We've got your phone number on file as {{.Order.PhoneNumber}}.

If you have any questions, feel free to contact us at {{.ContactEmail}}.

Thank you for your order!
`

var (
	confirmationSubject = template.Must(template.New("confirmation_subject").Parse(confirmationSubjectTmpl))
	confirmationBody    = template.Must(template.New("confirmation_body").Parse(confirmationBodyTmpl))
)

type confirmationData struct {
	Order        *models.Order
	ContactEmail string
}

// ConfirmationMailer renders and sends order confirmation emails. The
// contact address is injected alongside the transport so nothing here reads
// ambient process state.
type ConfirmationMailer struct {
	mailer       MailSender
	contactEmail string
}

func NewConfirmationMailer(mailer MailSender, contactEmail string) *ConfirmationMailer {
	return &ConfirmationMailer{mailer: mailer, contactEmail: contactEmail}
}

// SendConfirmation delivers the confirmation for one order to its customer
// email.
func (m *ConfirmationMailer) SendConfirmation(order *models.Order) error {
	subject, body, err := renderConfirmation(order, m.contactEmail)
	if err != nil {
		return err
	}
	return m.mailer.Send(order.Email, subject, body)
}

func renderConfirmation(order *models.Order, contactEmail string) (string, string, error) {
	data := confirmationData{Order: order, ContactEmail: contactEmail}

	var subject strings.Builder
	if err := confirmationSubject.Execute(&subject, data); err != nil {
		return "", "", err
	}
	var body strings.Builder
	if err := confirmationBody.Execute(&body, data); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(subject.String()), body.String(), nil
}
